package model

import (
	"fmt"
	"time"
)

// GroupKey names the field a breakdown is grouped by
type GroupKey string

const (
	GroupBySite    GroupKey = "site"
	GroupByOutcome GroupKey = "outcome_class"
)

// BreakdownEntry is one slice of the success breakdown
type BreakdownEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// BreakdownView maps a grouping key to a count, in first-seen order
type BreakdownView struct {
	Site    SiteSelector     `json:"site"`
	GroupBy GroupKey         `json:"group_by"`
	Entries []BreakdownEntry `json:"entries"`
}

// NoData reports that the selection matched no records.
func (v BreakdownView) NoData() bool {
	return len(v.Entries) == 0
}

// Total sums the counts of every entry.
func (v BreakdownView) Total() int {
	total := 0
	for _, e := range v.Entries {
		total += e.Count
	}
	return total
}

// Count returns the count stored under key, if any.
func (v BreakdownView) Count(key string) (int, bool) {
	for _, e := range v.Entries {
		if e.Key == key {
			return e.Count, true
		}
	}
	return 0, false
}

// SlotState is the lifecycle state of a controller output slot
type SlotState int

const (
	SlotStale SlotState = iota
	SlotComputed
	SlotError
)

func (s SlotState) String() string {
	switch s {
	case SlotStale:
		return "stale"
	case SlotComputed:
		return "computed"
	case SlotError:
		return "error"
	default:
		return fmt.Sprintf("SlotState(%d)", int(s))
	}
}

func (s SlotState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SlotState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stale":
		*s = SlotStale
	case "computed":
		*s = SlotComputed
	case "error":
		*s = SlotError
	default:
		return fmt.Errorf("unknown slot state %q", text)
	}
	return nil
}

// BreakdownSlot holds the latest success breakdown
type BreakdownSlot struct {
	State    SlotState     `json:"state"`
	Revision uint64        `json:"revision"`
	Site     SiteSelector  `json:"site"`
	View     BreakdownView `json:"view"`
	NoData   bool          `json:"no_data"`
	Error    string        `json:"error,omitempty"`
}

// ScatterSlot holds the latest payload/outcome record set
type ScatterSlot struct {
	State    SlotState    `json:"state"`
	Revision uint64       `json:"revision"`
	Site     SiteSelector `json:"site"`
	Range    PayloadRange `json:"range"`
	Records  []Record     `json:"records"`
	NoData   bool         `json:"no_data"`
	Error    string       `json:"error,omitempty"`
}

// Snapshot is the controller's complete observable state
type Snapshot struct {
	SessionID string        `json:"session_id"`
	Site      SiteSelector  `json:"site"`
	Range     PayloadRange  `json:"range"`
	Breakdown BreakdownSlot `json:"breakdown"`
	Scatter   ScatterSlot   `json:"scatter"`
}

// SlotMetrics tracks recomputation activity for one output slot
type SlotMetrics struct {
	Slot           string        `json:"slot"`
	Recomputations int64         `json:"recomputations"`
	ErrorCount     int64         `json:"error_count"`
	EmptyResults   int64         `json:"empty_results"`
	LastDuration   time.Duration `json:"last_duration"`
	LastComputedAt time.Time     `json:"last_computed_at"`
	LastError      string        `json:"last_error,omitempty"`
}

// ControllerMetrics aggregates per-slot metrics
type ControllerMetrics struct {
	SessionID      string                 `json:"session_id"`
	StartTime      time.Time              `json:"start_time"`
	Events         map[string]int64       `json:"events"`
	RejectedRanges int64                  `json:"rejected_ranges"`
	ClampedRanges  int64                  `json:"clamped_ranges"`
	Slots          map[string]SlotMetrics `json:"slots"`
}

// ExportResult describes a completed export
type ExportResult struct {
	Type        string    `json:"type"` // csv or json
	View        string    `json:"view"` // breakdown or scatter
	RecordCount int       `json:"record_count"`
	Revision    uint64    `json:"revision"`
	ExportedAt  time.Time `json:"exported_at"`
}
