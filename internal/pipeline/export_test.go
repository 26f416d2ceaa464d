package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"launch-dashboard/internal/model"
)

func TestExportBreakdownCSV(t *testing.T) {
	slot := model.BreakdownSlot{
		State:    model.SlotComputed,
		Revision: 4,
		Site:     model.AllSites(),
		View:     AggregateSuccess(scenario(t), model.AllSites()),
	}

	var buf bytes.Buffer
	res, err := ExportBreakdown(&buf, "", slot)
	if err != nil {
		t.Fatalf("ExportBreakdown: %v", err)
	}
	want := "site,count\nA,1\nB,2\n"
	if buf.String() != want {
		t.Errorf("csv = %q, want %q", buf.String(), want)
	}
	if res.Type != FormatCSV || res.RecordCount != 2 || res.Revision != 4 {
		t.Errorf("result = %+v", res)
	}
}

func TestExportScatterJSON(t *testing.T) {
	ds := scenario(t)
	records, err := FilterForScatter(ds, model.Site("B"), ds.Bounds())
	if err != nil {
		t.Fatalf("FilterForScatter: %v", err)
	}
	slot := model.ScatterSlot{State: model.SlotComputed, Revision: 2, Site: model.Site("B"), Range: ds.Bounds(), Records: records}

	var buf bytes.Buffer
	if _, err := ExportScatter(&buf, "JSON", slot); err != nil {
		t.Fatalf("ExportScatter: %v", err)
	}

	var doc struct {
		ExportInfo struct {
			View        string `json:"view"`
			Site        string `json:"site"`
			RecordCount int    `json:"record_count"`
		} `json:"export_info"`
		Data []model.Record `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.ExportInfo.View != "scatter" || doc.ExportInfo.Site != "B" || doc.ExportInfo.RecordCount != 2 {
		t.Errorf("export_info = %+v", doc.ExportInfo)
	}
	if len(doc.Data) != 2 || doc.Data[1].PayloadMassKg != 3000 {
		t.Errorf("data = %+v", doc.Data)
	}
}

func TestExportScatterCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	res, err := ExportScatter(&buf, "csv", model.ScatterSlot{})
	if err != nil {
		t.Fatalf("ExportScatter: %v", err)
	}
	if res.RecordCount != 0 || strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected a header-only export, got %q", buf.String())
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	if _, err := ExportBreakdown(&bytes.Buffer{}, "xml", model.BreakdownSlot{}); err == nil {
		t.Error("expected an error for xml")
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	sentinel := errors.New("bad request")
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxAttempts: 5, InitialDelay: time.Millisecond}, func(context.Context) error {
		calls++
		return Permanent(sentinel)
	})
	if !errors.Is(err, sentinel) || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond}, func(context.Context) error {
		calls++
		return errors.New("flaky")
	})
	if err == nil || calls != 3 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, RetryConfig{MaxAttempts: 3, InitialDelay: time.Hour}, func(context.Context) error {
		return errors.New("flaky")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryDelayIsCapped(t *testing.T) {
	cfg := RetryConfig{InitialDelay: time.Second, MaxDelay: 3 * time.Second, BackoffMultiplier: 2}
	if got := cfg.delay(1); got != time.Second {
		t.Errorf("delay(1) = %v", got)
	}
	if got := cfg.delay(5); got != 3*time.Second {
		t.Errorf("delay(5) = %v, want cap", got)
	}
}
