package catalog

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TextField coerces comparison values to strings.
type TextField struct {
	FieldName string
}

func (f TextField) Name() string {
	return f.FieldName
}

// ToCanonical renders any raw value as its string form.
func (f TextField) ToCanonical(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprintf("%v", raw), nil
	}
}

// IntField coerces comparison values to int64.
type IntField struct {
	FieldName string
}

func (f IntField) Name() string {
	return f.FieldName
}

func (f IntField) ToCanonical(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("field %q: %v is not a whole number", f.FieldName, v)
		}
		return int64(v), nil
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.FieldName, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("field %q: cannot coerce %T to int", f.FieldName, raw)
	}
}

// TimeField coerces comparison values to time.Time, parsing strings as RFC 3339.
type TimeField struct {
	FieldName string
}

func (f TimeField) Name() string {
	return f.FieldName
}

func (f TimeField) ToCanonical(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.FieldName, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("field %q: cannot coerce %T to time", f.FieldName, raw)
	}
}

// UUIDField coerces comparison values to uuid.UUID.
type UUIDField struct {
	FieldName string
}

func (f UUIDField) Name() string {
	return f.FieldName
}

func (f UUIDField) ToCanonical(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return v, nil
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.FieldName, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("field %q: cannot coerce %T to uuid", f.FieldName, raw)
	}
}

// RelatedField declares a field holding another record. Comparison values
// pass through untouched; record-vs-record matching bypasses coercion anyway.
type RelatedField struct {
	FieldName string
}

func (f RelatedField) Name() string {
	return f.FieldName
}

func (f RelatedField) ToCanonical(raw any) (any, error) {
	return raw, nil
}
