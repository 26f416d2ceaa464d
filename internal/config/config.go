// Package config loads dashboard settings from the environment, with an
// optional .env file layered underneath.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"launch-dashboard/internal/model"
)

// ColumnConfig maps source columns onto record fields.
type ColumnConfig struct {
	Site    string `env:"DASHBOARD_COLUMN_SITE" envDefault:"Launch Site"`
	Payload string `env:"DASHBOARD_COLUMN_PAYLOAD" envDefault:"Payload Mass (kg)"`
	Booster string `env:"DASHBOARD_COLUMN_BOOSTER" envDefault:"Booster Version Category"`
	Class   string `env:"DASHBOARD_COLUMN_CLASS" envDefault:"class"`
}

// S3Config enables s3://bucket/key data sources when Endpoint is set.
type S3Config struct {
	Endpoint  string `env:"DASHBOARD_S3_ENDPOINT"`
	AccessKey string `env:"DASHBOARD_S3_ACCESS_KEY"`
	SecretKey string `env:"DASHBOARD_S3_SECRET_KEY"`
	UseSSL    bool   `env:"DASHBOARD_S3_USE_SSL" envDefault:"true"`
}

// TracingConfig feeds telemetry.Setup. Tracing stays off without an endpoint.
type TracingConfig struct {
	Endpoint    string  `env:"DASHBOARD_OTEL_ENDPOINT"`
	Enabled     bool    `env:"DASHBOARD_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"DASHBOARD_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Config holds every dashboard setting.
type Config struct {
	HTTPAddr        string        `env:"DASHBOARD_HTTP_ADDR" envDefault:":8050"`
	ShutdownTimeout time.Duration `env:"DASHBOARD_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	DataSource    string        `env:"DASHBOARD_DATA_SOURCE" envDefault:"spacex_launch_dash.csv"`
	SourceType    string        `env:"DASHBOARD_SOURCE_TYPE"`
	SQLiteTable   string        `env:"DASHBOARD_SQLITE_TABLE" envDefault:"launches"`
	SourceTimeout time.Duration `env:"DASHBOARD_SOURCE_TIMEOUT" envDefault:"30s"`
	Sites         []string      `env:"DASHBOARD_SITES" envSeparator:","`
	Columns       ColumnConfig

	Title       string  `env:"DASHBOARD_TITLE" envDefault:"SpaceX Launch Records Dashboard"`
	SliderStep  float64 `env:"DASHBOARD_SLIDER_STEP" envDefault:"1000"`
	ChartWidth  int     `env:"DASHBOARD_CHART_WIDTH" envDefault:"800"`
	ChartHeight int     `env:"DASHBOARD_CHART_HEIGHT" envDefault:"480"`

	S3      S3Config
	Tracing TracingConfig
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads envFiles (".env" when none are given) into the process
// environment without overriding variables already set, then parses and
// validates the Config. Missing env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
		log.Printf("⚙️ loaded environment from %s", f)
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Sites = cleanSites(cfg.Sites)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.DataSource) == "":
		return errors.New("config: DASHBOARD_DATA_SOURCE must not be empty")
	case c.SliderStep <= 0:
		return fmt.Errorf("config: DASHBOARD_SLIDER_STEP must be positive, got %v", c.SliderStep)
	case c.SourceTimeout <= 0:
		return fmt.Errorf("config: DASHBOARD_SOURCE_TIMEOUT must be positive, got %s", c.SourceTimeout)
	case c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1:
		return fmt.Errorf("config: DASHBOARD_OTEL_SAMPLE_RATIO must be within [0, 1], got %v", c.Tracing.SampleRatio)
	case c.ChartWidth <= 0 || c.ChartHeight <= 0:
		return fmt.Errorf("config: chart size must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}
	for name, col := range map[string]string{
		"DASHBOARD_COLUMN_SITE":    c.Columns.Site,
		"DASHBOARD_COLUMN_PAYLOAD": c.Columns.Payload,
		"DASHBOARD_COLUMN_BOOSTER": c.Columns.Booster,
		"DASHBOARD_COLUMN_CLASS":   c.Columns.Class,
	} {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("config: %s must not be empty", name)
		}
	}
	if c.S3.Endpoint != "" && (c.S3.AccessKey == "" || c.S3.SecretKey == "") {
		return errors.New("config: DASHBOARD_S3_ACCESS_KEY and DASHBOARD_S3_SECRET_KEY are required with DASHBOARD_S3_ENDPOINT")
	}
	return nil
}

// Source describes where the launch table is read from.
func (c Config) Source() model.Source {
	return model.Source{Type: c.SourceType, URL: c.DataSource, Table: c.SQLiteTable}
}

// Schema returns the configured column mapping.
func (c Config) Schema() model.Schema {
	return model.Schema{
		SiteColumn:    c.Columns.Site,
		PayloadColumn: c.Columns.Payload,
		BoosterColumn: c.Columns.Booster,
		ClassColumn:   c.Columns.Class,
	}
}

// S3Client returns a client for the configured endpoint, or nil when S3 is
// not configured.
func (c Config) S3Client() (*minio.Client, error) {
	if c.S3.Endpoint == "" {
		return nil, nil
	}
	client, err := minio.New(c.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.S3.AccessKey, c.S3.SecretKey, ""),
		Secure: c.S3.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client for %s: %w", c.S3.Endpoint, err)
	}
	return client, nil
}

func cleanSites(sites []string) []string {
	var out []string
	for _, s := range sites {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
