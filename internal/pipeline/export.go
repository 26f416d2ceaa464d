package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"launch-dashboard/internal/model"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ParseExportFormat normalises a format name; empty defaults to CSV.
func ParseExportFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: want csv or json", format)
	}
}

// ExportBreakdown writes the entries of a computed breakdown slot to w.
func ExportBreakdown(w io.Writer, format string, slot model.BreakdownSlot) (model.ExportResult, error) {
	format, err := ParseExportFormat(format)
	if err != nil {
		return model.ExportResult{}, err
	}
	entries := slot.View.Entries
	result := model.ExportResult{
		Type:        format,
		View:        "breakdown",
		RecordCount: len(entries),
		Revision:    slot.Revision,
		ExportedAt:  time.Now().UTC(),
	}

	switch format {
	case FormatJSON:
		err = exportJSON(w, result, slot.Site, entries)
	default:
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Key, strconv.Itoa(e.Count)})
		}
		err = exportCSV(w, []string{string(slot.View.GroupBy), "count"}, rows)
	}
	if err != nil {
		fmt.Printf("❌ Export of breakdown failed: %v\n", err)
		return model.ExportResult{}, err
	}
	fmt.Printf("✅ Exported breakdown revision %d as %s: %d rows\n", slot.Revision, format, len(entries))
	return result, nil
}

// ExportScatter writes the records of a computed scatter slot to w.
func ExportScatter(w io.Writer, format string, slot model.ScatterSlot) (model.ExportResult, error) {
	format, err := ParseExportFormat(format)
	if err != nil {
		return model.ExportResult{}, err
	}
	records := slot.Records
	if records == nil {
		records = []model.Record{}
	}
	result := model.ExportResult{
		Type:        format,
		View:        "scatter",
		RecordCount: len(records),
		Revision:    slot.Revision,
		ExportedAt:  time.Now().UTC(),
	}

	switch format {
	case FormatJSON:
		err = exportJSON(w, result, slot.Site, records)
	default:
		header := []string{"site", "payload_mass_kg", "booster_version_category", "outcome_class"}
		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []string{
				rec.Site,
				strconv.FormatFloat(rec.PayloadMassKg, 'f', -1, 64),
				rec.BoosterVersionCategory,
				strconv.Itoa(rec.OutcomeClass),
			})
		}
		err = exportCSV(w, header, rows)
	}
	if err != nil {
		fmt.Printf("❌ Export of scatter failed: %v\n", err)
		return model.ExportResult{}, err
	}
	fmt.Printf("✅ Exported scatter revision %d as %s: %d rows\n", slot.Revision, format, len(records))
	return result, nil
}

func exportCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

func exportJSON(w io.Writer, result model.ExportResult, site model.SiteSelector, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	exportData := map[string]interface{}{
		"export_info": map[string]interface{}{
			"view":         result.View,
			"site":         site,
			"revision":     result.Revision,
			"exported_at":  result.ExportedAt,
			"record_count": result.RecordCount,
		},
		"data": data,
	}
	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
