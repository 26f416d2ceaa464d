package controller

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"launch-dashboard/internal/model"
	"launch-dashboard/internal/pipeline"
)

type recordingPublisher struct {
	mu         sync.Mutex
	breakdowns []model.BreakdownSlot
	scatters   []model.ScatterSlot
	fail       bool
}

func (p *recordingPublisher) PublishBreakdown(_ context.Context, slot model.BreakdownSlot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.breakdowns = append(p.breakdowns, slot)
	if p.fail {
		return errors.New("render failed")
	}
	return nil
}

func (p *recordingPublisher) PublishScatter(_ context.Context, slot model.ScatterSlot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scatters = append(p.scatters, slot)
	if p.fail {
		return errors.New("render failed")
	}
	return nil
}

func (p *recordingPublisher) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.breakdowns), len(p.scatters)
}

func testDataset(t *testing.T) *pipeline.Dataset {
	t.Helper()
	ds, err := pipeline.NewDataset([]model.Record{
		{Site: "A", PayloadMassKg: 500, BoosterVersionCategory: "v1.0", OutcomeClass: 1},
		{Site: "A", PayloadMassKg: 2000, BoosterVersionCategory: "FT", OutcomeClass: 0},
		{Site: "B", PayloadMassKg: 1500, BoosterVersionCategory: "B4", OutcomeClass: 1},
		{Site: "B", PayloadMassKg: 3000, BoosterVersionCategory: "B5", OutcomeClass: 1},
	}, nil)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func newTestController(t *testing.T) (*Controller, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return New(testDataset(t), WithPublisher(pub), WithSessionID("test-session")), pub
}

func TestNewStartsStale(t *testing.T) {
	c, pub := newTestController(t)
	snap := c.Snapshot()

	if snap.Breakdown.State != model.SlotStale || snap.Scatter.State != model.SlotStale {
		t.Errorf("states = %s/%s, want stale/stale", snap.Breakdown.State, snap.Scatter.State)
	}
	if snap.Site != model.AllSites() {
		t.Errorf("site = %s, want ALL", snap.Site)
	}
	if snap.Range != (model.PayloadRange{Low: 500, High: 3000}) {
		t.Errorf("range = %+v, want dataset bounds", snap.Range)
	}
	if b, s := pub.counts(); b != 0 || s != 0 {
		t.Errorf("published %d/%d before render", b, s)
	}
}

func TestRenderComputesStaleSlotsOnce(t *testing.T) {
	c, pub := newTestController(t)

	snap := c.Render(context.Background())
	if snap.Breakdown.State != model.SlotComputed || snap.Scatter.State != model.SlotComputed {
		t.Fatalf("states = %s/%s, want computed", snap.Breakdown.State, snap.Scatter.State)
	}
	if len(snap.Scatter.Records) != 4 {
		t.Errorf("scatter records = %d, want 4", len(snap.Scatter.Records))
	}

	c.Render(context.Background())
	if b, s := pub.counts(); b != 1 || s != 1 {
		t.Errorf("published %d/%d, want 1/1", b, s)
	}
}

func TestSiteChangedRecomputesBothSlots(t *testing.T) {
	c, pub := newTestController(t)
	c.Render(context.Background())

	snap := c.SiteChanged(context.Background(), model.Site("A"))

	want := []model.BreakdownEntry{{Key: "1", Count: 1}, {Key: "0", Count: 1}}
	if !reflect.DeepEqual(snap.Breakdown.View.Entries, want) {
		t.Errorf("breakdown = %+v, want %+v", snap.Breakdown.View.Entries, want)
	}
	if len(snap.Scatter.Records) != 2 {
		t.Errorf("scatter records = %d, want 2", len(snap.Scatter.Records))
	}
	if b, s := pub.counts(); b != 2 || s != 2 {
		t.Errorf("published %d/%d, want 2/2", b, s)
	}
}

func TestPayloadRangeChangedRecomputesScatterOnly(t *testing.T) {
	c, pub := newTestController(t)
	c.Render(context.Background())
	before := c.Snapshot().Breakdown.Revision

	snap := c.PayloadRangeChanged(context.Background(), model.PayloadRange{Low: 1000, High: 3000})

	if snap.Breakdown.Revision != before {
		t.Errorf("breakdown revision moved from %d to %d", before, snap.Breakdown.Revision)
	}
	if len(snap.Scatter.Records) != 3 {
		t.Errorf("scatter records = %d, want 3", len(snap.Scatter.Records))
	}
	if b, s := pub.counts(); b != 1 || s != 2 {
		t.Errorf("published %d/%d, want 1/2", b, s)
	}
}

func TestPayloadRangeIsClampedToBounds(t *testing.T) {
	c, _ := newTestController(t)
	c.Render(context.Background())

	snap := c.PayloadRangeChanged(context.Background(), model.PayloadRange{Low: -100, High: 10000})

	if snap.Range != (model.PayloadRange{Low: 500, High: 3000}) {
		t.Errorf("range = %+v, want clamped to bounds", snap.Range)
	}
	if snap.Scatter.State != model.SlotComputed || len(snap.Scatter.Records) != 4 {
		t.Errorf("scatter = %s with %d records", snap.Scatter.State, len(snap.Scatter.Records))
	}
	if got := c.Metrics().ClampedRanges; got != 1 {
		t.Errorf("ClampedRanges = %d, want 1", got)
	}
}

func TestDisjointRangeSelectsNothing(t *testing.T) {
	c, _ := newTestController(t)
	c.Render(context.Background())

	for _, r := range []model.PayloadRange{{Low: 20000, High: 30000}, {Low: 0, High: 100}} {
		snap := c.PayloadRangeChanged(context.Background(), r)
		if snap.Range != r {
			t.Errorf("range = %+v, want %+v kept as given", snap.Range, r)
		}
		if snap.Scatter.State != model.SlotComputed || !snap.Scatter.NoData || len(snap.Scatter.Records) != 0 {
			t.Errorf("%+v: scatter = %s no_data=%v records=%v", r, snap.Scatter.State, snap.Scatter.NoData, snap.Scatter.Records)
		}
	}
	if got := c.Metrics().ClampedRanges; got != 0 {
		t.Errorf("ClampedRanges = %d, want 0", got)
	}
}

func TestRecomputationsAreTraced(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	c := New(testDataset(t), WithTracer(tp.Tracer("test")), WithSessionID("traced"))

	c.Render(context.Background())
	c.PayloadRangeChanged(context.Background(), model.PayloadRange{Low: 3000, High: 1000})

	spans := rec.Ended()
	if len(spans) != 3 {
		t.Fatalf("ended spans = %d, want 3", len(spans))
	}
	want := []string{"controller.recompute.breakdown", "controller.recompute.scatter", "controller.recompute.scatter"}
	for i, span := range spans {
		if span.Name() != want[i] {
			t.Errorf("span %d = %q, want %q", i, span.Name(), want[i])
		}
	}
	last := spans[2]
	if last.Status().Code != codes.Error {
		t.Errorf("rejected range span status = %v, want error", last.Status().Code)
	}
	var state string
	for _, kv := range last.Attributes() {
		if kv.Key == "dashboard.state" {
			state = kv.Value.AsString()
		}
	}
	if state != "error" {
		t.Errorf("dashboard.state = %q, want error", state)
	}
}

func TestInvalidRangeKeepsLastValidRange(t *testing.T) {
	c, pub := newTestController(t)
	c.Render(context.Background())
	valid := model.PayloadRange{Low: 1000, High: 2000}
	c.PayloadRangeChanged(context.Background(), valid)

	for _, bad := range []model.PayloadRange{{Low: 3000, High: 1000}, {Low: math.NaN(), High: 1000}} {
		snap := c.PayloadRangeChanged(context.Background(), bad)
		if snap.Scatter.State != model.SlotError || snap.Scatter.Error == "" {
			t.Errorf("%+v: scatter = %s %q, want error", bad, snap.Scatter.State, snap.Scatter.Error)
		}
		if snap.Range != valid {
			t.Errorf("%+v: range = %+v, want %+v", bad, snap.Range, valid)
		}
		if snap.Breakdown.State != model.SlotComputed {
			t.Errorf("%+v: breakdown = %s, want computed", bad, snap.Breakdown.State)
		}
	}

	pub.mu.Lock()
	last := pub.scatters[len(pub.scatters)-1]
	pub.mu.Unlock()
	if last.State != model.SlotError {
		t.Errorf("last published scatter = %s, want error", last.State)
	}

	snap := c.PayloadRangeChanged(context.Background(), model.PayloadRange{Low: 500, High: 1500})
	if snap.Scatter.State != model.SlotComputed || len(snap.Scatter.Records) != 2 {
		t.Errorf("recovery: scatter = %s with %d records", snap.Scatter.State, len(snap.Scatter.Records))
	}
	if got := c.Metrics().RejectedRanges; got != 2 {
		t.Errorf("RejectedRanges = %d, want 2", got)
	}
}

func TestSiteWithoutRecordsIsNoData(t *testing.T) {
	c, _ := newTestController(t)
	snap := c.SiteChanged(context.Background(), model.Site("Z"))

	if snap.Breakdown.State != model.SlotComputed || !snap.Breakdown.NoData {
		t.Errorf("breakdown = %s no_data=%v", snap.Breakdown.State, snap.Breakdown.NoData)
	}
	if snap.Scatter.State != model.SlotComputed || !snap.Scatter.NoData {
		t.Errorf("scatter = %s no_data=%v", snap.Scatter.State, snap.Scatter.NoData)
	}
	if got := c.Metrics().Slots[SlotScatter].EmptyResults; got != 1 {
		t.Errorf("scatter EmptyResults = %d, want 1", got)
	}
}

func TestRevisionsIncrease(t *testing.T) {
	c, pub := newTestController(t)
	ctx := context.Background()
	c.Render(ctx)
	c.SiteChanged(ctx, model.Site("B"))
	c.PayloadRangeChanged(ctx, model.PayloadRange{Low: 0, High: 2000})
	c.PayloadRangeChanged(ctx, model.PayloadRange{Low: 2000, High: 0})

	pub.mu.Lock()
	defer pub.mu.Unlock()
	var last uint64
	for _, s := range pub.scatters {
		if s.Revision <= last {
			t.Fatalf("scatter revision %d after %d", s.Revision, last)
		}
		last = s.Revision
	}
}

func TestConcurrentEventsLastWriteWins(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	c.Render(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				c.SiteChanged(ctx, model.Site("A"))
			} else {
				c.SiteChanged(ctx, model.AllSites())
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			c.PayloadRangeChanged(ctx, model.PayloadRange{Low: float64(i * 10), High: 3000})
		}(i)
	}
	wg.Wait()

	final := c.PayloadRangeChanged(ctx, model.PayloadRange{Low: 0, High: 1000})
	want, err := pipeline.FilterForScatter(c.Dataset(), final.Site, final.Range)
	if err != nil {
		t.Fatalf("FilterForScatter: %v", err)
	}
	if !reflect.DeepEqual(final.Scatter.Records, want) {
		t.Errorf("scatter does not reflect the latest inputs")
	}
	if final.Scatter.Site != final.Site || final.Scatter.Range != final.Range {
		t.Errorf("scatter computed for %s %+v, selection is %s %+v",
			final.Scatter.Site, final.Scatter.Range, final.Site, final.Range)
	}
}

func TestPublishFailureDoesNotEscape(t *testing.T) {
	pub := &recordingPublisher{fail: true}
	c := New(testDataset(t), WithPublisher(pub))
	snap := c.Render(context.Background())
	if snap.Breakdown.State != model.SlotComputed {
		t.Errorf("breakdown = %s, want computed", snap.Breakdown.State)
	}
	if c.SessionID() == "" {
		t.Error("expected a generated session id")
	}
}

func TestMetricsCountEvents(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	c.Render(ctx)
	c.SiteChanged(ctx, model.Site("A"))
	c.PayloadRangeChanged(ctx, model.PayloadRange{Low: 600, High: 900})

	m := c.Metrics()
	if m.SessionID != "test-session" {
		t.Errorf("session = %q", m.SessionID)
	}
	if m.Events[EventRender] != 1 || m.Events[EventSiteChanged] != 1 || m.Events[EventPayloadRangeChanged] != 1 {
		t.Errorf("events = %v", m.Events)
	}
	if got := m.Slots[SlotBreakdown].Recomputations; got != 2 {
		t.Errorf("breakdown recomputations = %d, want 2", got)
	}
	if got := m.Slots[SlotScatter].Recomputations; got != 3 {
		t.Errorf("scatter recomputations = %d, want 3", got)
	}

	m.Events[EventRender] = 99
	if c.Metrics().Events[EventRender] != 1 {
		t.Error("Metrics() shares its map with the controller")
	}
}
