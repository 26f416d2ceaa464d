package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"

	"launch-dashboard/pkg/utils"
)

// sourceType resolves the declared type of src, falling back to the URL's
// file extension.
func sourceType(src string, declared string) (string, error) {
	if t := strings.ToLower(strings.TrimSpace(declared)); t != "" {
		switch t {
		case "csv", "json", "sqlite":
			return t, nil
		case "api":
			return "json", nil
		}
		return "", fmt.Errorf("unknown source type: %s", declared)
	}

	path := src
	if u, err := url.Parse(src); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		path = u.Path
	}
	switch t := utils.FileType(path); t {
	case "csv", "json", "sqlite":
		return t, nil
	}
	return "", fmt.Errorf("cannot infer source type for %s; set an explicit type", src)
}

// open returns a reader over a local file, an http(s) URL or an s3:// object.
func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.openHTTP(ctx, src)
	case strings.HasPrefix(src, "s3://"):
		return l.openS3(ctx, src)
	default:
		file, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open source file: %w", err)
		}
		return file, nil
	}
}

func (l *Loader) openHTTP(ctx context.Context, src string) (io.ReadCloser, error) {
	var body io.ReadCloser
	err := Retry(ctx, l.retryConfig("http"), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return Permanent(err)
		}
		resp, err := l.httpClient().Do(req)
		if err != nil {
			return fmt.Errorf("failed to GET source: %w", err)
		}
		if resp.StatusCode >= 300 {
			resp.Body.Close()
			err := fmt.Errorf("GET %s: unexpected status %s", src, resp.Status)
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return err
			}
			return Permanent(err)
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (l *Loader) openS3(ctx context.Context, src string) (io.ReadCloser, error) {
	if l.S3 == nil {
		return nil, fmt.Errorf("s3 source %s requires an s3 client; configure an S3 endpoint", src)
	}
	bucket, key, err := parseS3URL(src)
	if err != nil {
		return nil, err
	}

	var obj *minio.Object
	err = Retry(ctx, l.retryConfig("s3"), func(ctx context.Context) error {
		o, err := l.S3.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return fmt.Errorf("s3 get object: %w", err)
		}
		// GetObject is lazy; Stat surfaces missing objects and auth failures.
		if _, err := o.Stat(); err != nil {
			o.Close()
			resp := minio.ToErrorResponse(err)
			if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden {
				return Permanent(fmt.Errorf("s3 stat object: %w", err))
			}
			return fmt.Errorf("s3 stat object: %w", err)
		}
		obj = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func parseS3URL(src string) (bucket, key string, err error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %s: %w", src, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url %s: want s3://bucket/key", src)
	}
	return bucket, key, nil
}

func (l *Loader) httpClient() *http.Client {
	if l.HTTPClient != nil {
		return l.HTTPClient
	}
	return http.DefaultClient
}

func (l *Loader) retryConfig(kind string) RetryConfig {
	if l.Retry != nil {
		return *l.Retry
	}
	return DefaultRetryConfigs[kind]
}
