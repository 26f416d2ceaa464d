package chart

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"launch-dashboard/internal/model"
)

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func breakdownSlot(rev uint64) model.BreakdownSlot {
	return model.BreakdownSlot{
		State:    model.SlotComputed,
		Revision: rev,
		Site:     model.AllSites(),
		View: model.BreakdownView{
			Site:    model.AllSites(),
			GroupBy: model.GroupBySite,
			Entries: []model.BreakdownEntry{{Key: "A", Count: 1}, {Key: "B", Count: 2}, {Key: "C", Count: 0}},
		},
	}
}

func scatterSlot(rev uint64) model.ScatterSlot {
	return model.ScatterSlot{
		State:    model.SlotComputed,
		Revision: rev,
		Site:     model.AllSites(),
		Range:    model.PayloadRange{Low: 0, High: 10000},
		Records: []model.Record{
			{Site: "A", PayloadMassKg: 500, BoosterVersionCategory: "v1.0", OutcomeClass: 1},
			{Site: "A", PayloadMassKg: 2000, BoosterVersionCategory: "FT", OutcomeClass: 0},
			{Site: "B", PayloadMassKg: 3000, BoosterVersionCategory: "FT", OutcomeClass: 1},
		},
	}
}

func TestBreakdownRendersPNG(t *testing.T) {
	r := NewRenderer(640, 400)
	data, err := r.Breakdown(breakdownSlot(1))
	if err != nil {
		t.Fatalf("Breakdown: %v", err)
	}
	if w, h := decodeSize(t, data); w != 640 || h != 400 {
		t.Errorf("size = %dx%d, want 640x400", w, h)
	}
}

func TestBreakdownSingleSiteSingleOutcome(t *testing.T) {
	slot := model.BreakdownSlot{
		State: model.SlotComputed,
		Site:  model.Site("A"),
		View: model.BreakdownView{
			Site:    model.Site("A"),
			GroupBy: model.GroupByOutcome,
			Entries: []model.BreakdownEntry{{Key: "1", Count: 3}},
		},
	}
	if _, err := NewRenderer(0, 0).Breakdown(slot); err != nil {
		t.Fatalf("Breakdown: %v", err)
	}
}

func TestBreakdownAllZeroFallsBackToPlaceholder(t *testing.T) {
	slot := breakdownSlot(1)
	slot.View.Entries = []model.BreakdownEntry{{Key: "A", Count: 0}}
	data, err := NewRenderer(300, 200).Breakdown(slot)
	if err != nil {
		t.Fatalf("Breakdown: %v", err)
	}
	if w, h := decodeSize(t, data); w != 300 || h != 200 {
		t.Errorf("size = %dx%d", w, h)
	}
}

func TestScatterRendersPNG(t *testing.T) {
	data, err := NewRenderer(0, 0).Scatter(scatterSlot(1))
	if err != nil {
		t.Fatalf("Scatter: %v", err)
	}
	if w, h := decodeSize(t, data); w != DefaultWidth || h != DefaultHeight {
		t.Errorf("size = %dx%d", w, h)
	}
}

func TestScatterSinglePoint(t *testing.T) {
	slot := scatterSlot(1)
	slot.Records = slot.Records[:1]
	if _, err := NewRenderer(0, 0).Scatter(slot); err != nil {
		t.Fatalf("Scatter: %v", err)
	}
}

func TestPlaceholdersForEmptyAndErrorSlots(t *testing.T) {
	r := NewRenderer(320, 240)
	slots := []model.ScatterSlot{
		{State: model.SlotStale},
		{State: model.SlotComputed, NoData: true, Records: []model.Record{}},
		{State: model.SlotError, Error: "low 3000 must not exceed high 1000"},
	}
	for _, slot := range slots {
		data, err := r.Scatter(slot)
		if err != nil {
			t.Fatalf("%s: %v", slot.State, err)
		}
		if w, h := decodeSize(t, data); w != 320 || h != 240 {
			t.Errorf("%s: size = %dx%d", slot.State, w, h)
		}
	}

	if _, err := r.Breakdown(model.BreakdownSlot{State: model.SlotComputed, NoData: true}); err != nil {
		t.Fatalf("no-data breakdown: %v", err)
	}
}

func TestTitles(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{BreakdownTitle(model.AllSites()), "Total Successful Launches by Site"},
		{BreakdownTitle(model.Site("KSC LC-39A")), "Successful Launches at KSC LC-39A"},
		{ScatterTitle(model.AllSites()), "Payload vs. Outcome"},
		{ScatterTitle(model.Site("VAFB SLC-4E")), "Payload vs. Outcome at VAFB SLC-4E"},
		{OutcomeLabel("1"), "Success"},
		{OutcomeLabel("0"), "Failure"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestKgFormatterGroupsThousands(t *testing.T) {
	r := NewRenderer(0, 0)
	if got := r.kgFormatter(15600.4); got != "15,600" {
		t.Errorf("kgFormatter = %q, want 15,600", got)
	}
}

func TestCacheDropsOlderRevisions(t *testing.T) {
	c := NewCache(NewRenderer(200, 150))
	ctx := context.Background()

	if _, ok := c.Scatter(); ok {
		t.Fatal("empty cache reported an image")
	}
	if err := c.PublishScatter(ctx, scatterSlot(5)); err != nil {
		t.Fatalf("publish r5: %v", err)
	}
	older := model.ScatterSlot{State: model.SlotError, Revision: 3, Error: "stale"}
	if err := c.PublishScatter(ctx, older); err != nil {
		t.Fatalf("publish r3: %v", err)
	}

	img, ok := c.Scatter()
	if !ok || img.Revision != 5 || img.State != model.SlotComputed {
		t.Errorf("held image = r%d %s, want r5 computed", img.Revision, img.State)
	}

	if err := c.PublishBreakdown(ctx, breakdownSlot(6)); err != nil {
		t.Fatalf("publish breakdown: %v", err)
	}
	if img, ok := c.Breakdown(); !ok || img.Revision != 6 {
		t.Errorf("breakdown = r%d, %v", img.Revision, ok)
	}
}
