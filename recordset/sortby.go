package recordset

import (
	"slices"
	"strings"
)

const descendingMarker = "-"

type sortKey struct {
	fieldName  string
	descending bool
}

// SortByFields is the default SortFunc: a stable in-place multi-field sort.
//
// Records are ordered by the first field name, ties broken by the following
// ones. A leading "-" on a field name reverses the order for that key.
// Records whose values have no defined mutual ordering keep their relative
// order.
func SortByFields(records Records, fields ...string) {
	if len(fields) == 0 {
		return
	}

	keys := make([]sortKey, len(fields))
	for i, field := range fields {
		keys[i] = parseSortKey(field)
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		for _, key := range keys {
			ord, ok := compareValues(a.Get(key.fieldName), b.Get(key.fieldName))
			if !ok || ord == 0 {
				continue
			}

			if key.descending {
				return -ord
			}

			return ord
		}

		return 0
	})
}

func parseSortKey(field string) sortKey {
	if name, found := strings.CutPrefix(field, descendingMarker); found {
		return sortKey{fieldName: name, descending: true}
	}

	return sortKey{fieldName: field}
}
