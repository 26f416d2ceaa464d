package controller

import (
	"sync"
	"time"

	"launch-dashboard/internal/model"
)

// Slot names used in metrics, logs and span attributes.
const (
	SlotBreakdown = "breakdown"
	SlotScatter   = "scatter"
)

// Event names counted in ControllerMetrics.Events.
const (
	EventRender              = "render"
	EventSiteChanged         = "site_changed"
	EventPayloadRangeChanged = "payload_range_changed"
)

// tracker collects recomputation metrics. It has its own lock so metrics can
// be read while an event is being processed.
type tracker struct {
	mu      sync.RWMutex
	metrics model.ControllerMetrics
}

func newTracker(sessionID string) *tracker {
	return &tracker{
		metrics: model.ControllerMetrics{
			SessionID: sessionID,
			StartTime: time.Now(),
			Events:    make(map[string]int64),
			Slots: map[string]model.SlotMetrics{
				SlotBreakdown: {Slot: SlotBreakdown},
				SlotScatter:   {Slot: SlotScatter},
			},
		},
	}
}

func (t *tracker) event(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics.Events[name]++
}

func (t *tracker) rejectedRange() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics.RejectedRanges++
}

func (t *tracker) clampedRange() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics.ClampedRanges++
}

// endSlot records one finished recomputation of slot.
func (t *tracker) endSlot(slot string, start time.Time, state model.SlotState, noData bool, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	sm := t.metrics.Slots[slot]
	sm.Slot = slot
	sm.Recomputations++
	sm.LastDuration = now.Sub(start)
	sm.LastComputedAt = now
	switch {
	case state == model.SlotError:
		sm.ErrorCount++
		sm.LastError = errMsg
	case noData:
		sm.EmptyResults++
	}
	t.metrics.Slots[slot] = sm
}

// snapshot returns a copy that shares no maps with the tracker.
func (t *tracker) snapshot() model.ControllerMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m := t.metrics
	m.Events = make(map[string]int64, len(t.metrics.Events))
	for k, v := range t.metrics.Events {
		m.Events[k] = v
	}
	m.Slots = make(map[string]model.SlotMetrics, len(t.metrics.Slots))
	for k, v := range t.metrics.Slots {
		m.Slots[k] = v
	}
	return m
}
