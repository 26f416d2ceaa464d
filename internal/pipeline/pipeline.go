package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"

	"launch-dashboard/internal/model"
)

const defaultChannelBufferSize = 256

// Loader reads a launch table from a source and builds a Dataset.
type Loader struct {
	Schema            model.Schema
	AllowedSites      []string
	HTTPClient        *http.Client
	S3                *minio.Client
	Retry             *RetryConfig // nil: per-transport defaults
	ChannelBufferSize int
}

// LoadOption configures a Loader.
type LoadOption func(*Loader)

// WithSchema overrides the source column names.
func WithSchema(s model.Schema) LoadOption {
	return func(l *Loader) { l.Schema = s }
}

// WithAllowedSites fixes the site enumeration; records naming any other
// site fail the load.
func WithAllowedSites(sites []string) LoadOption {
	return func(l *Loader) { l.AllowedSites = sites }
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) LoadOption {
	return func(l *Loader) { l.HTTPClient = c }
}

// WithS3Client enables s3://bucket/key sources.
func WithS3Client(c *minio.Client) LoadOption {
	return func(l *Loader) { l.S3 = c }
}

// WithRetry overrides the retry policy for remote sources.
func WithRetry(cfg RetryConfig) LoadOption {
	return func(l *Loader) { l.Retry = &cfg }
}

// NewLoader builds a Loader with the default schema.
func NewLoader(opts ...LoadOption) *Loader {
	l := &Loader{
		Schema:            model.DefaultSchema(),
		ChannelBufferSize: defaultChannelBufferSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads source with a default-configured Loader.
func Load(ctx context.Context, source model.Source, opts ...LoadOption) (*Dataset, error) {
	return NewLoader(opts...).Load(ctx, source)
}

// ------------------- Load Runner -------------------

// Load runs ingestion and validation and returns the immutable Dataset.
// Any schema problem aborts the load with a SchemaError; a source with no
// rows yields an EmptyDatasetError.
func (l *Loader) Load(ctx context.Context, source model.Source) (ds *Dataset, err error) {
	start := time.Now()
	fmt.Printf("🚀 Loading launch records from: %s\n", source.URL)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recordsCh := make(chan model.GenericRecord, l.ChannelBufferSize)
	ingestErr := make(chan error, 1)

	// --- INGESTION STAGE ---
	go func() {
		defer close(recordsCh) // safe: only this goroutine closes recordsCh
		ingestErr <- l.IngestSource(ctx, source, recordsCh)
	}()

	// --- VALIDATION STAGE ---
	rules := l.Schema.Rules(l.AllowedSites)
	var records []model.Record
	var validationErr error
	row := 0
	for rec := range recordsCh {
		if validationErr != nil {
			continue // drain so the ingestion goroutine can exit
		}
		row++
		if err := validateRecord(rec, rules, row); err != nil {
			validationErr = err
			cancel()
			continue
		}
		records = append(records, toRecord(rec, l.Schema))
	}

	if validationErr != nil {
		return nil, fmt.Errorf("load %s: %w", source.URL, validationErr)
	}
	if err := <-ingestErr; err != nil && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("load %s: %w", source.URL, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", source.URL, err)
	}
	if len(records) == 0 {
		return nil, model.EmptyDatasetError(source.URL)
	}

	ds, err = NewDataset(records, l.AllowedSites)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source.URL, err)
	}

	bounds := ds.Bounds()
	fmt.Printf("🏁 Loaded %d launch records from %d sites in %v (payload %.0f–%.0f kg)\n",
		ds.Len(), len(ds.Sites()), time.Since(start), bounds.Low, bounds.High)
	return ds, nil
}
