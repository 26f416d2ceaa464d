// Package controller binds user events to the dashboard's two output slots.
//
// Dependency table:
//
//	SiteChanged          -> breakdown, scatter
//	PayloadRangeChanged  -> scatter
//
// Each slot is Stale until first computed, then Computed or Error. Every
// recomputation stamps the slot with a new revision and hands it to the
// Publisher. Events are serialized, so a slot always reflects the most
// recently submitted inputs.
package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"launch-dashboard/internal/model"
	"launch-dashboard/internal/pipeline"
)

const tracerName = "launch-dashboard/internal/controller"

// Publisher receives every recomputed slot. Implementations must not
// retain the Records slice beyond the call unless they copy it.
type Publisher interface {
	PublishBreakdown(ctx context.Context, slot model.BreakdownSlot) error
	PublishScatter(ctx context.Context, slot model.ScatterSlot) error
}

// Controller owns the current selection and the two output slots.
type Controller struct {
	mu sync.Mutex

	ds        *pipeline.Dataset
	publisher Publisher
	tracer    trace.Tracer
	sessionID string

	site      model.SiteSelector
	rng       model.PayloadRange
	breakdown model.BreakdownSlot
	scatter   model.ScatterSlot
	revision  uint64

	metrics *tracker
}

// Option configures a Controller.
type Option func(*Controller)

// WithPublisher sets the rendering collaborator.
func WithPublisher(p Publisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) { c.tracer = t }
}

// WithSessionID fixes the session identifier instead of generating one.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

// New returns a controller over ds with every site selected, the full
// payload range and both slots Stale. Call Render to compute them.
func New(ds *pipeline.Dataset, opts ...Option) *Controller {
	c := &Controller{
		ds:     ds,
		tracer: otel.Tracer(tracerName),
		site:   model.AllSites(),
		rng:    ds.Bounds(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessionID == "" {
		c.sessionID = uuid.New().String()
	}
	c.metrics = newTracker(c.sessionID)
	c.breakdown = model.BreakdownSlot{State: model.SlotStale, Site: c.site}
	c.scatter = model.ScatterSlot{State: model.SlotStale, Site: c.site, Range: c.rng}
	return c
}

// SessionID identifies this controller in logs and metrics.
func (c *Controller) SessionID() string { return c.sessionID }

// Dataset returns the dataset the controller reads.
func (c *Controller) Dataset() *pipeline.Dataset { return c.ds }

// Render computes every Stale slot. It is the initial render and is a
// no-op once both slots have been computed.
func (c *Controller) Render(ctx context.Context) model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.event(EventRender)
	if c.breakdown.State == model.SlotStale {
		c.recomputeBreakdown(ctx)
	}
	if c.scatter.State == model.SlotStale {
		c.recomputeScatter(ctx)
	}
	return c.snapshotLocked()
}

// SiteChanged selects sel and recomputes both slots.
func (c *Controller) SiteChanged(ctx context.Context, sel model.SiteSelector) model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.event(EventSiteChanged)
	fmt.Printf("🛰️ [%s] site changed: %s\n", c.shortID(), sel)
	c.site = sel
	c.breakdown.State = model.SlotStale
	c.scatter.State = model.SlotStale
	c.recomputeBreakdown(ctx)
	c.recomputeScatter(ctx)
	return c.snapshotLocked()
}

// PayloadRangeChanged selects r and recomputes the scatter slot. A range
// overlapping the dataset bounds is clamped to them first; a disjoint range
// is kept as given and selects nothing. An inverted or NaN range leaves
// the last valid range in place and puts the scatter slot in Error.
func (c *Controller) PayloadRangeChanged(ctx context.Context, r model.PayloadRange) model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.event(EventPayloadRangeChanged)
	if err := r.Validate(); err != nil {
		c.metrics.rejectedRange()
		fmt.Printf("⚠️ [%s] payload range rejected: %v\n", c.shortID(), err)
		c.failScatter(ctx, err)
		return c.snapshotLocked()
	}

	clamped := r.Clamp(c.ds.Bounds())
	if clamped != r {
		c.metrics.clampedRange()
		fmt.Printf("📏 [%s] payload range %v–%v clamped to %v–%v\n", c.shortID(), r.Low, r.High, clamped.Low, clamped.High)
	}
	c.rng = clamped
	c.scatter.State = model.SlotStale
	c.recomputeScatter(ctx)
	return c.snapshotLocked()
}

// Snapshot returns the current selection and both slots.
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Metrics returns recomputation counters for this session.
func (c *Controller) Metrics() model.ControllerMetrics {
	return c.metrics.snapshot()
}

func (c *Controller) snapshotLocked() model.Snapshot {
	scatter := c.scatter
	scatter.Records = slices.Clone(c.scatter.Records)
	breakdown := c.breakdown
	breakdown.View.Entries = slices.Clone(c.breakdown.View.Entries)
	return model.Snapshot{
		SessionID: c.sessionID,
		Site:      c.site,
		Range:     c.rng,
		Breakdown: breakdown,
		Scatter:   scatter,
	}
}

func (c *Controller) nextRevision() uint64 {
	c.revision++
	return c.revision
}

func (c *Controller) startSpan(ctx context.Context, slot string, rev uint64) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "controller.recompute."+slot, trace.WithAttributes(
		attribute.String("dashboard.session_id", c.sessionID),
		attribute.String("dashboard.slot", slot),
		attribute.Int64("dashboard.revision", int64(rev)),
		attribute.String("dashboard.site", c.site.String()),
	))
}

func endSpan(span trace.Span, state model.SlotState, err error) {
	span.SetAttributes(attribute.String("dashboard.state", state.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ------------------- Breakdown slot -------------------

func (c *Controller) recomputeBreakdown(ctx context.Context) {
	start := time.Now()
	rev := c.nextRevision()
	ctx, span := c.startSpan(ctx, SlotBreakdown, rev)

	view := pipeline.AggregateSuccess(c.ds, c.site)
	c.breakdown = model.BreakdownSlot{
		State:    model.SlotComputed,
		Revision: rev,
		Site:     c.site,
		View:     view,
		NoData:   view.NoData(),
	}
	c.metrics.endSlot(SlotBreakdown, start, c.breakdown.State, c.breakdown.NoData, "")
	if c.breakdown.NoData {
		fmt.Printf("ℹ️ [%s] breakdown r%d: %v (%s)\n", c.shortID(), rev, model.ErrNoDataForSelection, c.site)
	}
	endSpan(span, c.breakdown.State, nil)

	if c.publisher != nil {
		if err := c.publisher.PublishBreakdown(ctx, c.breakdown); err != nil {
			fmt.Printf("⚠️ [%s] publish breakdown r%d failed: %v\n", c.shortID(), rev, err)
		}
	}
}

// ------------------- Scatter slot -------------------

func (c *Controller) recomputeScatter(ctx context.Context) {
	start := time.Now()
	rev := c.nextRevision()
	ctx, span := c.startSpan(ctx, SlotScatter, rev)

	records, err := pipeline.FilterForScatter(c.ds, c.site, c.rng)
	if err != nil {
		endSpan(span, model.SlotError, err)
		c.setScatterError(rev, err)
		c.metrics.endSlot(SlotScatter, start, model.SlotError, false, err.Error())
	} else {
		c.scatter = model.ScatterSlot{
			State:    model.SlotComputed,
			Revision: rev,
			Site:     c.site,
			Range:    c.rng,
			Records:  records,
			NoData:   len(records) == 0,
		}
		c.metrics.endSlot(SlotScatter, start, c.scatter.State, c.scatter.NoData, "")
		if c.scatter.NoData {
			fmt.Printf("ℹ️ [%s] scatter r%d: %v (%s, %v–%v kg)\n", c.shortID(), rev, model.ErrNoDataForSelection, c.site, c.rng.Low, c.rng.High)
		}
		endSpan(span, c.scatter.State, nil)
	}

	c.publishScatter(ctx)
}

// failScatter puts the scatter slot in Error without touching the range.
func (c *Controller) failScatter(ctx context.Context, cause error) {
	start := time.Now()
	rev := c.nextRevision()
	ctx, span := c.startSpan(ctx, SlotScatter, rev)
	endSpan(span, model.SlotError, cause)

	c.setScatterError(rev, cause)
	c.metrics.endSlot(SlotScatter, start, model.SlotError, false, cause.Error())
	c.publishScatter(ctx)
}

func (c *Controller) setScatterError(rev uint64, cause error) {
	msg := cause.Error()
	var derr *model.Error
	if errors.As(cause, &derr) && derr.Message != "" {
		msg = derr.Message
	}
	c.scatter = model.ScatterSlot{
		State:    model.SlotError,
		Revision: rev,
		Site:     c.site,
		Range:    c.rng,
		Error:    msg,
	}
}

func (c *Controller) publishScatter(ctx context.Context) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.PublishScatter(ctx, c.scatter); err != nil {
		fmt.Printf("⚠️ [%s] publish scatter r%d failed: %v\n", c.shortID(), c.scatter.Revision, err)
	}
}

func (c *Controller) shortID() string {
	if len(c.sessionID) > 8 {
		return c.sessionID[:8]
	}
	return c.sessionID
}
