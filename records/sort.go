package records

import (
	"cmp"
	"slices"
	"time"

	"github.com/goliatone/go-tableview/pkg/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortRecords orders records in place by a single key. Missing values sort
// lowest in ascending order and the sort is stable.
func sortRecords(records []types.Record, key string, order types.SortOrder, locale language.Tag) {
	// collators are not safe for concurrent use
	coll := collate.New(locale)
	sign := 1
	if order == types.SortDesc {
		sign = -1
	}
	slices.SortStableFunc(records, func(a, b types.Record) int {
		return sign * compareValues(coll, a.Field(key), b.Field(key))
	})
}

func compareValues(coll *collate.Collator, a, b any) int {
	aNil, bNil := isEmpty(a), isEmpty(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return 1
	}

	if af, ok := toFloat(a); ok && isNumeric(a) {
		if bf, ok := toFloat(b); ok && isNumeric(b) {
			return cmp.Compare(af, bf)
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			default:
				return 1
			}
		}
	}
	return coll.CompareString(stringify(a), stringify(b))
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case time.Time:
		return v.IsZero()
	}
	return false
}

func isNumeric(value any) bool {
	_, isString := value.(string)
	return !isString
}
