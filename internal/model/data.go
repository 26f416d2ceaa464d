package model

// GenericRecord is a schema-agnostic row as read from any source
type GenericRecord map[string]interface{}

// Record is one launch attempt
type Record struct {
	Site                   string  `json:"site"`
	PayloadMassKg          float64 `json:"payload_mass_kg"`
	BoosterVersionCategory string  `json:"booster_version_category"`
	OutcomeClass           int     `json:"outcome_class"`
}

// Source describes where the launch table is read from
type Source struct {
	Type  string `json:"type"`            // csv, json, sqlite (empty: derive from URL)
	URL   string `json:"url"`             // local path, http(s):// or s3://bucket/key
	Table string `json:"table,omitempty"` // sqlite only
}

// Schema maps source columns onto Record fields
type Schema struct {
	SiteColumn    string `json:"siteColumn"`
	PayloadColumn string `json:"payloadColumn"`
	BoosterColumn string `json:"boosterColumn"`
	ClassColumn   string `json:"classColumn"`
}

// DefaultSchema matches the column headers of the launch CSV export.
func DefaultSchema() Schema {
	return Schema{
		SiteColumn:    "Launch Site",
		PayloadColumn: "Payload Mass (kg)",
		BoosterColumn: "Booster Version Category",
		ClassColumn:   "class",
	}
}

// Columns lists the required columns in Record field order.
func (s Schema) Columns() []string {
	return []string{s.SiteColumn, s.PayloadColumn, s.BoosterColumn, s.ClassColumn}
}

// ValidationRules defines validation requirements for a source
type ValidationRules struct {
	RequiredFields []string            `json:"requiredFields"` // fields that must be present
	NumericFields  []string            `json:"numericFields"`  // fields that must be numeric
	IntegerFields  []string            `json:"integerFields"`  // numeric fields without a fractional part
	MinValues      map[string]float64  `json:"minValues"`      // min allowed numeric values
	MaxValues      map[string]float64  `json:"maxValues"`      // max allowed numeric values
	AllowedValues  map[string][]string `json:"allowedValues"`  // enumerations for string fields
	NonEmpty       []string            `json:"nonEmpty"`       // string fields that must not be blank
}

// Rules derives the record-level validation rules for this schema.
// allowedSites may be nil, in which case any non-empty site is accepted.
func (s Schema) Rules(allowedSites []string) *ValidationRules {
	rules := &ValidationRules{
		RequiredFields: s.Columns(),
		NumericFields:  []string{s.PayloadColumn, s.ClassColumn},
		IntegerFields:  []string{s.ClassColumn},
		MinValues:      map[string]float64{s.PayloadColumn: 0, s.ClassColumn: 0},
		MaxValues:      map[string]float64{s.ClassColumn: 1},
		NonEmpty:       []string{s.SiteColumn},
	}
	if len(allowedSites) > 0 {
		rules.AllowedValues = map[string][]string{s.SiteColumn: allowedSites}
	}
	return rules
}
