package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"launch-dashboard/internal/model"
	"launch-dashboard/internal/store"
	"launch-dashboard/pkg/utils"
)

// ------------------- Ingestion -------------------

// IngestSource streams the rows of a single source (CSV/JSON/sqlite) to out,
// in source order. It returns the first error it meets; a missing required
// column is reported before any row is sent.
func (l *Loader) IngestSource(ctx context.Context, source model.Source, out chan<- model.GenericRecord) error {
	kind, err := sourceType(source.URL, source.Type)
	if err != nil {
		return err
	}
	fmt.Printf("➡️ Starting ingestion for source: %s (%s)\n", source.URL, kind)

	required := l.Schema.Columns()
	switch kind {
	case "csv":
		r, err := l.open(ctx, source.URL)
		if err != nil {
			return err
		}
		defer r.Close()
		return ingestCSV(ctx, r, required, out)
	case "json":
		r, err := l.open(ctx, source.URL)
		if err != nil {
			return err
		}
		defer r.Close()
		return ingestJSON(ctx, r, out)
	case "sqlite":
		return ingestSQLite(ctx, source, required, out)
	default:
		return fmt.Errorf("unknown source type: %s", kind)
	}
}

// ------------------- CSV Ingestion -------------------
func ingestCSV(ctx context.Context, reader io.Reader, required []string, out chan<- model.GenericRecord) error {
	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true
	headers, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	for i, h := range headers {
		// Clean header names: trim whitespace, a leading BOM and ALL quotes
		cleanHeader := strings.TrimPrefix(h, "\ufeff")
		cleanHeader = strings.TrimSpace(cleanHeader)
		headers[i] = strings.ReplaceAll(cleanHeader, `"`, "")
	}
	if err := requireColumns(headers, required); err != nil {
		return err
	}

	recordCount := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			fmt.Printf("📄 CSV ingestion done: %d records read\n", recordCount)
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return model.SchemaError("", recordCount+1, "malformed CSV row", err)
			}
			return fmt.Errorf("CSV read error: %w", err)
		}

		recMap := make(model.GenericRecord, len(headers))
		for i, h := range headers {
			recMap[h] = utils.ParseValue(record[i])
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- recMap:
			recordCount++
		}
	}
}

// ------------------- JSON Ingestion -------------------
func ingestJSON(ctx context.Context, reader io.Reader, out chan<- model.GenericRecord) error {
	bodyBytes, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read JSON body: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}

	var items []interface{}
	switch data := raw.(type) {
	case []interface{}:
		items = data
	case map[string]interface{}:
		items = []interface{}{data}
	default:
		return fmt.Errorf("unexpected JSON structure: want an array of objects")
	}

	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return model.SchemaError("", i+1, fmt.Sprintf("expected an object, got %T", item), nil)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- model.GenericRecord(m):
		}
	}
	fmt.Printf("🌐 JSON ingestion done: %d records read\n", len(items))
	return nil
}

// ------------------- sqlite Ingestion -------------------
func ingestSQLite(ctx context.Context, source model.Source, required []string, out chan<- model.GenericRecord) error {
	if strings.Contains(source.URL, "://") {
		return fmt.Errorf("sqlite sources must be local files, got %s", source.URL)
	}
	table := source.Table
	if table == "" {
		table = "launches"
	}

	s, err := store.OpenReadOnly(source.URL)
	if err != nil {
		return err
	}
	defer s.Close()

	columns, err := s.Columns(ctx, table)
	if err != nil {
		return err
	}
	if err := requireColumns(columns, required); err != nil {
		return err
	}

	recordCount := 0
	err = s.ReadTable(ctx, table, func(rec model.GenericRecord) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- rec:
			recordCount++
			return nil
		}
	})
	if err != nil {
		return err
	}
	fmt.Printf("🗄️ sqlite ingestion done: %d records read from table %s\n", recordCount, table)
	return nil
}

func requireColumns(have, required []string) error {
	present := make(map[string]bool, len(have))
	for _, h := range have {
		present[h] = true
	}
	for _, col := range required {
		if !present[col] {
			return model.SchemaError(col, 0, "missing required column", nil)
		}
	}
	return nil
}
