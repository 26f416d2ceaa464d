package pipeline

import (
	"fmt"
	"math"
	"slices"

	"launch-dashboard/internal/model"
)

// Dataset is the immutable launch table plus its payload bounds. It is
// safe for concurrent readers; nothing mutates it after construction.
type Dataset struct {
	records []model.Record
	bounds  model.PayloadRange
	sites   []string
}

// NewDataset validates records and derives the payload bounds and site
// enumeration. When allowedSites is non-empty it becomes the enumeration
// and every record's site must belong to it; otherwise sites are listed in
// first-seen order. The records slice is copied.
func NewDataset(records []model.Record, allowedSites []string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, model.EmptyDatasetError("<memory>")
	}

	ds := &Dataset{
		records: slices.Clone(records),
		bounds:  model.PayloadRange{Low: math.Inf(1), High: math.Inf(-1)},
	}

	seen := make(map[string]bool)
	for i, rec := range ds.records {
		row := i + 1
		if rec.Site == "" {
			return nil, model.SchemaError("site", row, "must not be empty", nil)
		}
		if len(allowedSites) > 0 && !slices.Contains(allowedSites, rec.Site) {
			return nil, model.SchemaError("site", row, fmt.Sprintf("%q is not a known launch site", rec.Site), nil)
		}
		if math.IsNaN(rec.PayloadMassKg) || math.IsInf(rec.PayloadMassKg, 0) || rec.PayloadMassKg < 0 {
			return nil, model.SchemaError("payload_mass_kg", row, fmt.Sprintf("must be a non-negative number, got %v", rec.PayloadMassKg), nil)
		}
		if rec.OutcomeClass != 0 && rec.OutcomeClass != 1 {
			return nil, model.SchemaError("outcome_class", row, fmt.Sprintf("must be 0 or 1, got %d", rec.OutcomeClass), nil)
		}

		ds.bounds.Low = math.Min(ds.bounds.Low, rec.PayloadMassKg)
		ds.bounds.High = math.Max(ds.bounds.High, rec.PayloadMassKg)
		if !seen[rec.Site] {
			seen[rec.Site] = true
			ds.sites = append(ds.sites, rec.Site)
		}
	}

	if len(allowedSites) > 0 {
		ds.sites = slices.Clone(allowedSites)
	}
	return ds, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the i-th record in load order.
func (d *Dataset) At(i int) model.Record { return d.records[i] }

// Records returns a copy of every record in load order.
func (d *Dataset) Records() []model.Record { return slices.Clone(d.records) }

// Bounds returns the minimum and maximum payload mass.
func (d *Dataset) Bounds() model.PayloadRange { return d.bounds }

// Sites returns the site enumeration offered to the selector.
func (d *Dataset) Sites() []string { return slices.Clone(d.sites) }

// HasSite reports whether site is part of the enumeration.
func (d *Dataset) HasSite(site string) bool { return slices.Contains(d.sites, site) }

// Marks returns slider marks every step kilograms from int(min) up to
// int(max)+1, the way the payload slider labels its track.
func (d *Dataset) Marks(step float64) []float64 {
	if step <= 0 {
		return nil
	}
	start := math.Trunc(d.bounds.Low)
	stop := math.Trunc(d.bounds.High + 1)
	var marks []float64
	for v := start; v < stop; v += step {
		marks = append(marks, v)
	}
	return marks
}
