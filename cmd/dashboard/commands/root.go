package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"launch-dashboard/internal/config"
	"launch-dashboard/internal/pipeline"
)

var (
	envFiles   []string
	dataSource string
	sourceType string
	cfg        config.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:          "dashboard",
		Short:        "SpaceX launch records dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			if dataSource != "" {
				loaded.DataSource = dataSource
			}
			if sourceType != "" {
				loaded.SourceType = sourceType
			}
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default .env)")
	root.PersistentFlags().StringVar(&dataSource, "data", "", "launch table: path, http(s):// URL or s3://bucket/key")
	root.PersistentFlags().StringVar(&sourceType, "type", "", "source type: csv, json or sqlite (default from extension)")

	root.AddCommand(serveCmd(), renderCmd(), sitesCmd())
	return root.Execute()
}

// loadDataset reads the configured source once.
func loadDataset(ctx context.Context) (*pipeline.Dataset, error) {
	s3, err := cfg.S3Client()
	if err != nil {
		return nil, err
	}
	opts := []pipeline.LoadOption{
		pipeline.WithSchema(cfg.Schema()),
		pipeline.WithHTTPClient(&http.Client{Timeout: cfg.SourceTimeout}),
		pipeline.WithAllowedSites(cfg.Sites),
	}
	if s3 != nil {
		opts = append(opts, pipeline.WithS3Client(s3))
	}
	ds, err := pipeline.Load(ctx, cfg.Source(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}
