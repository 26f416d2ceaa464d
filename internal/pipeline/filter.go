package pipeline

import (
	"launch-dashboard/internal/model"
)

// FilterForScatter returns the records that match sel and whose payload
// lies in r, both ends inclusive, in dataset order. The result is a fresh
// slice the caller may keep. An inverted or NaN range is rejected with an
// InvalidRangeError; an empty result is not an error.
func FilterForScatter(ds *Dataset, sel model.SiteSelector, r model.PayloadRange) ([]model.Record, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	out := make([]model.Record, 0)
	for _, rec := range ds.records {
		if !sel.Matches(rec.Site) || !r.Contains(rec.PayloadMassKg) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
