package recordset

import (
	"bytes"
	"cmp"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The canonical comparison value set is: nil, string, bool, int64, float64,
// time.Time, uuid.UUID and []byte. Field coercions are expected to produce
// values from this set; normalizeValue folds the remaining numeric kinds
// into it so that records holding plain ints still compare.

func normalizeValue(v any) any {
	switch tv := v.(type) {
	case nil, string, bool, int64, float64, time.Time, uuid.UUID, []byte:
		return tv
	case int:
		return int64(tv)
	case int8:
		return int64(tv)
	case int16:
		return int64(tv)
	case int32:
		return int64(tv)
	case uint:
		return int64(tv)
	case uint8:
		return int64(tv)
	case uint16:
		return int64(tv)
	case uint32:
		return int64(tv)
	case uint64:
		return int64(tv)
	case float32:
		return float64(tv)
	default:
		return v
	}
}

// equalValues compares two canonical values for equality, bridging the
// int64/float64 divide and using time.Time's own equality.
func equalValues(a, b any) bool {
	na, nb := normalizeValue(a), normalizeValue(b)

	if na == nil || nb == nil {
		return na == nil && nb == nil
	}

	switch av := na.(type) {
	case time.Time:
		bv, ok := nb.(time.Time)
		return ok && av.Equal(bv)

	case []byte:
		bv, ok := nb.([]byte)
		return ok && bytes.Equal(av, bv)

	case int64:
		switch bv := nb.(type) {
		case int64:
			return av == bv
		case float64:
			return float64(av) == bv
		}
		return false

	case float64:
		switch bv := nb.(type) {
		case int64:
			return av == float64(bv)
		case float64:
			return av == bv
		}
		return false
	}

	if reflect.TypeOf(na).Comparable() && reflect.TypeOf(nb).Comparable() {
		return na == nb
	}

	return reflect.DeepEqual(na, nb)
}

// compareValues orders two canonical values. The second result is false when
// the values have no defined mutual ordering.
func compareValues(a, b any) (int, bool) {
	na, nb := normalizeValue(a), normalizeValue(b)

	switch av := na.(type) {
	case string:
		if bv, ok := nb.(string); ok {
			return strings.Compare(av, bv), true
		}

	case int64:
		switch bv := nb.(type) {
		case int64:
			return cmp.Compare(av, bv), true
		case float64:
			return cmp.Compare(float64(av), bv), true
		}

	case float64:
		switch bv := nb.(type) {
		case int64:
			return cmp.Compare(av, float64(bv)), true
		case float64:
			return cmp.Compare(av, bv), true
		}

	case time.Time:
		if bv, ok := nb.(time.Time); ok {
			return av.Compare(bv), true
		}

	case []byte:
		if bv, ok := nb.([]byte); ok {
			return bytes.Compare(av, bv), true
		}
	}

	return 0, false
}

// containsValue tests membership of needle in haystack: substring containment
// when the haystack is a string, element membership when it is a slice or an
// array. With foldCase both sides are upper-cased before string comparison.
func containsValue(haystack, needle any, foldCase bool) bool {
	if text, isText := haystack.(string); isText {
		needleText, isNeedleText := needle.(string)
		if !isNeedleText {
			return false
		}
		if foldCase {
			return strings.Contains(strings.ToUpper(text), strings.ToUpper(needleText))
		}
		return strings.Contains(text, needleText)
	}

	held := reflect.ValueOf(haystack)
	if !held.IsValid() || (held.Kind() != reflect.Slice && held.Kind() != reflect.Array) {
		return false
	}

	for i := 0; i < held.Len(); i++ {
		element := held.Index(i).Interface()
		if foldCase {
			elementText, isElementText := element.(string)
			needleText, isNeedleText := needle.(string)
			if isElementText && isNeedleText && strings.EqualFold(elementText, needleText) {
				return true
			}
			continue
		}
		if equalValues(element, needle) {
			return true
		}
	}

	return false
}
