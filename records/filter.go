package records

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-tableview/pkg/types"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// matchFilter applies a column filter according to the property type.
// Unknown types pass every record.
func matchFilter(kind types.PropertyType, value, filter any) bool {
	if filterInactive(filter) {
		return true
	}
	switch kind {
	case types.PropertyText, types.PropertyLongText, types.PropertyEmail, types.PropertyURL:
		return strings.Contains(strings.ToLower(stringify(value)), strings.ToLower(stringify(filter)))
	case types.PropertyNumber:
		got, ok := toFloat(value)
		if !ok {
			return false
		}
		want, ok := toFloat(filter)
		return ok && got == want
	case types.PropertyDate, types.PropertyDateTime:
		got, ok := toTime(value)
		if !ok {
			return false
		}
		want, ok := toTime(filter)
		return ok && sameDay(got, want)
	case types.PropertyCheckbox:
		got, _ := toBool(value)
		want, ok := toBool(filter)
		return ok && got == want
	case types.PropertySelect:
		return value != nil && stringify(value) == stringify(filter)
	case types.PropertyMultiSelect:
		return matchMultiSelect(value, filter)
	}
	return true
}

// matchMultiSelect matches a single filter value exactly, or checks the
// record value for membership in a filter list. List valued records match
// when any of their entries does.
func matchMultiSelect(value, filter any) bool {
	candidates, isList := toList(value)
	if !isList {
		if value == nil {
			return false
		}
		candidates = []string{stringify(value)}
	}
	if wanted, ok := toList(filter); ok {
		for _, c := range candidates {
			if slices.Contains(wanted, c) {
				return true
			}
		}
		return false
	}
	return slices.Contains(candidates, stringify(filter))
}

func filterInactive(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// stringify renders a value the way it is searched and exported.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
	return fmt.Sprint(value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	case nil:
		return false, false
	}
	if f, ok := toFloat(value); ok {
		return f != 0, true
	}
	return false, false
}

func toList(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringify(item))
		}
		return out, true
	}
	return nil, false
}

// dataKeys returns the union of data keys of the records in lexical order.
func dataKeys(records []types.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r.Data {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
