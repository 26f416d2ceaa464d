package model

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// AllSitesValue is the wire value of the "all sites" selector.
const AllSitesValue = "ALL"

// SelectorKind tags a SiteSelector.
type SelectorKind uint8

const (
	SelectAll SelectorKind = iota
	SelectSite
)

// SiteSelector is either every site or exactly one site identifier.
// The zero value selects all sites.
type SiteSelector struct {
	Kind SelectorKind
	Site string
}

// AllSites selects every launch site.
func AllSites() SiteSelector {
	return SiteSelector{Kind: SelectAll}
}

// Site selects a single launch site.
func Site(id string) SiteSelector {
	return SiteSelector{Kind: SelectSite, Site: id}
}

var errEmptySelector = errors.New("site selector is empty")

// ParseSiteSelector converts a wire value into a selector. "ALL" is matched
// case-insensitively; anything else names a site verbatim (trimmed).
func ParseSiteSelector(s string) (SiteSelector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SiteSelector{}, errEmptySelector
	}
	if strings.EqualFold(s, AllSitesValue) {
		return AllSites(), nil
	}
	return Site(s), nil
}

// String returns the wire value.
func (s SiteSelector) String() string {
	switch s.Kind {
	case SelectSite:
		return s.Site
	default:
		return AllSitesValue
	}
}

// Matches reports whether a record from site passes the selector.
func (s SiteSelector) Matches(site string) bool {
	switch s.Kind {
	case SelectSite:
		return site == s.Site
	default:
		return true
	}
}

func (s SiteSelector) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SiteSelector) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sel, err := ParseSiteSelector(raw)
	if err != nil {
		return err
	}
	*s = sel
	return nil
}

// PayloadRange is an inclusive payload-mass interval in kilograms.
type PayloadRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Validate returns an InvalidRangeError when the bounds are NaN or inverted.
func (r PayloadRange) Validate() error {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) || r.Low > r.High {
		return InvalidRangeError(r)
	}
	return nil
}

// Contains reports whether v lies within the range, both ends inclusive.
func (r PayloadRange) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Overlaps reports whether r and o share at least one value.
func (r PayloadRange) Overlaps(o PayloadRange) bool {
	return r.Low <= o.High && r.High >= o.Low
}

// Clamp moves both bounds into bounds when r overlaps them. A range wholly
// outside bounds is returned unchanged so it still selects nothing. NaN
// stays NaN so Validate still rejects it.
func (r PayloadRange) Clamp(bounds PayloadRange) PayloadRange {
	if !math.IsNaN(r.Low) && !math.IsNaN(r.High) && !r.Overlaps(bounds) {
		return r
	}
	return PayloadRange{
		Low:  clamp(r.Low, bounds.Low, bounds.High),
		High: clamp(r.High, bounds.Low, bounds.High),
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Min(math.Max(v, lo), hi)
}
