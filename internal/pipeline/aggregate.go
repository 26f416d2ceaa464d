package pipeline

import (
	"strconv"

	"launch-dashboard/internal/model"
)

// groupAccumulator keeps per-key counts in first-seen key order.
type groupAccumulator struct {
	index   map[string]int
	entries []model.BreakdownEntry
}

func newGroupAccumulator() *groupAccumulator {
	return &groupAccumulator{index: make(map[string]int)}
}

func (g *groupAccumulator) add(key string, n int) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.entries)
		g.index[key] = i
		g.entries = append(g.entries, model.BreakdownEntry{Key: key})
	}
	g.entries[i].Count += n
}

// AggregateSuccess computes the success breakdown for sel.
//
// For every site it sums OutcomeClass per launch site, so a site with only
// failures still appears with a zero count. For a single site it counts
// that site's records by outcome class under the keys "1" and "0".
// Keys appear in the order they are first met in the dataset. A selection
// that matches nothing yields an empty view, never an error.
func AggregateSuccess(ds *Dataset, sel model.SiteSelector) model.BreakdownView {
	acc := newGroupAccumulator()
	view := model.BreakdownView{Site: sel}

	switch sel.Kind {
	case model.SelectSite:
		view.GroupBy = model.GroupByOutcome
		for _, rec := range ds.records {
			if rec.Site != sel.Site {
				continue
			}
			acc.add(strconv.Itoa(rec.OutcomeClass), 1)
		}
	default:
		view.GroupBy = model.GroupBySite
		for _, rec := range ds.records {
			acc.add(rec.Site, rec.OutcomeClass)
		}
	}

	view.Entries = acc.entries
	if view.Entries == nil {
		view.Entries = []model.BreakdownEntry{}
	}
	return view
}
