package records

import (
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-tableview/pkg/types"
)

const (
	sensitiveMaskStrategy = "filled4"

	// MaskConfigKey overrides the mask strategy of a sensitive property, for
	// example "preserveEnds(2,2)" or "hash".
	MaskConfigKey = "mask"
)

// DefaultMasker returns the masker used for exports. Masking is applied per
// value by strategy, so the shared masker's field registrations are never
// changed.
func DefaultMasker() *masker.Masker {
	return masker.Default
}

// sensitiveFields maps the properties flagged for masking to their strategy.
func sensitiveFields(table types.Table) map[string]string {
	var fields map[string]string
	for _, prop := range table.OrderedProperties() {
		if !prop.Sensitive() {
			continue
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		strategy, _ := prop.Config[MaskConfigKey].(string)
		if strategy == "" {
			strategy = sensitiveMaskStrategy
		}
		fields[prop.Key] = strategy
	}
	return fields
}

// maskRow masks the sensitive entries of an export row. A value the masker
// cannot change is blanked.
func maskRow(mask *masker.Masker, sensitive map[string]string, row map[string]string) map[string]string {
	if len(sensitive) == 0 {
		return row
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[k] = v
	}
	for key, strategy := range sensitive {
		value, ok := row[key]
		if !ok || value == "" {
			continue
		}
		masked := ""
		if mask != nil {
			if result, err := mask.String(strategy, value); err == nil && result != value {
				masked = result
			}
		}
		out[key] = masked
	}
	return out
}
