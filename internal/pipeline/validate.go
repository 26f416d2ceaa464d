package pipeline

import (
	"fmt"
	"math"
	"slices"

	"launch-dashboard/internal/model"
	"launch-dashboard/pkg/utils"
)

// validateRecord applies the schema's validation rules to a raw row.
// row is the 1-based data row used in the returned SchemaError.
func validateRecord(rec model.GenericRecord, rules *model.ValidationRules, row int) error {
	if rules == nil {
		return nil
	}

	// Check required fields
	for _, field := range rules.RequiredFields {
		if _, ok := rec[field]; !ok {
			return model.SchemaError(field, row, "missing required field", nil)
		}
	}

	// Check numeric fields
	for _, field := range rules.NumericFields {
		val := rec[field]
		num, ok := utils.ToFloat(val)
		if !ok {
			return model.SchemaError(field, row, fmt.Sprintf("must be numeric, got %q", utils.StringValue(val)), nil)
		}
		if math.IsNaN(num) || math.IsInf(num, 0) {
			return model.SchemaError(field, row, fmt.Sprintf("must be finite, got %v", num), nil)
		}
	}

	for _, field := range rules.IntegerFields {
		if num, ok := utils.ToFloat(rec[field]); ok && !utils.IsInteger(num) {
			return model.SchemaError(field, row, fmt.Sprintf("must be an integer, got %v", num), nil)
		}
	}

	// Check min values
	for field, min := range rules.MinValues {
		if val, ok := rec[field]; ok {
			if utils.Numeric(val) < min {
				return model.SchemaError(field, row, fmt.Sprintf("below minimum: got %v, want ≥ %v", val, min), nil)
			}
		}
	}

	// Check max values
	for field, max := range rules.MaxValues {
		if val, ok := rec[field]; ok {
			if utils.Numeric(val) > max {
				return model.SchemaError(field, row, fmt.Sprintf("above maximum: got %v, want ≤ %v", val, max), nil)
			}
		}
	}

	for _, field := range rules.NonEmpty {
		if utils.StringValue(rec[field]) == "" {
			return model.SchemaError(field, row, "must not be empty", nil)
		}
	}

	for field, allowed := range rules.AllowedValues {
		if v := utils.StringValue(rec[field]); !slices.Contains(allowed, v) {
			return model.SchemaError(field, row, fmt.Sprintf("%q is not one of %v", v, allowed), nil)
		}
	}

	return nil
}

// toRecord converts a validated row into a Record.
func toRecord(rec model.GenericRecord, schema model.Schema) model.Record {
	return model.Record{
		Site:                   utils.StringValue(rec[schema.SiteColumn]),
		PayloadMassKg:          utils.Numeric(rec[schema.PayloadColumn]),
		BoosterVersionCategory: utils.StringValue(rec[schema.BoosterColumn]),
		OutcomeClass:           int(utils.Numeric(rec[schema.ClassColumn])),
	}
}
