package recordset

import (
	"errors"
	"fmt"
	"strings"
)

const lookupSeparator = "__"

// Operator enumerates the supported comparison operators of a filter lookup.
type Operator uint8

const (
	OpExact Operator = iota
	OpIExact
	OpContains
	OpIContains
	OpLT
	OpLTE
	OpGT
	OpGTE
)

var operatorTokens = map[string]Operator{
	"exact":     OpExact,
	"iexact":    OpIExact,
	"contains":  OpContains,
	"icontains": OpIContains,
	"lt":        OpLT,
	"lte":       OpLTE,
	"gt":        OpGT,
	"gte":       OpGTE,
}

func (op Operator) String() string {
	switch op {
	case OpExact:
		return "exact"
	case OpIExact:
		return "iexact"
	case OpContains:
		return "contains"
	case OpIContains:
		return "icontains"
	case OpLT:
		return "lt"
	case OpLTE:
		return "lte"
	case OpGT:
		return "gt"
	case OpGTE:
		return "gte"
	default:
		return "unknown"
	}
}

// Lookup is a parsed filter key: a field name plus a comparison operator.
type Lookup struct {
	FieldName string
	Op        Operator
}

// ParseLookup splits a filter key on "__" into a Lookup.
//
// A single clause is an exact-match lookup. Two clauses are accepted when the
// second clause is one of the eight operator tokens. Anything else, including
// a second clause that would be a relation traversal in a real query backend,
// is rejected with ErrUnsupportedLookup.
func ParseLookup(key string) (Lookup, error) {
	clauses := strings.Split(key, lookupSeparator)

	switch len(clauses) {
	case 1:
		if clauses[0] != "" {
			return Lookup{FieldName: clauses[0], Op: OpExact}, nil
		}
	case 2:
		if op, known := operatorTokens[clauses[1]]; known {
			return Lookup{FieldName: clauses[0], Op: op}, nil
		}
	}

	return Lookup{}, errors.Join(ErrUnsupportedLookup, fmt.Errorf("filter expression not supported: %s", key))
}

// condition is one compiled filter clause: a field name, an operator tag and
// a coerced comparison value, or a record reference for identity/PK matching.
// A record must satisfy every condition supplied to a Filter call to pass.
type condition struct {
	fieldName string
	op        Operator
	value     any
	ref       Record
}

// compileCondition builds the condition for one lookup against the model's
// field metadata. Unknown fields and uncoercible values fail here, at filter
// construction time, never during evaluation.
func compileCondition(model Model, lookup Lookup, raw any) (condition, error) {
	if ref, isRecord := raw.(Record); isRecord && lookup.Op == OpExact {
		// record-vs-record matching bypasses field metadata entirely
		return condition{fieldName: lookup.FieldName, op: OpExact, ref: ref}, nil
	}

	field, fieldErr := model.Field(lookup.FieldName)
	if fieldErr != nil {
		return condition{}, errors.Join(ErrUnknownField, fieldErr)
	}

	coerced, coerceErr := field.ToCanonical(raw)
	if coerceErr != nil {
		return condition{}, errors.Join(ErrCoercingValueFailed, coerceErr)
	}

	if lookup.Op == OpIExact || lookup.Op == OpIContains {
		text, isText := coerced.(string)
		if !isText {
			return condition{}, errors.Join(
				ErrLookupNeedsTextValue,
				fmt.Errorf("%s lookup on field %q got %T", lookup.Op, lookup.FieldName, coerced),
			)
		}
		coerced = strings.ToUpper(text)
	}

	return condition{fieldName: lookup.FieldName, op: lookup.Op, value: coerced}, nil
}

// matches reports whether one record satisfies the condition.
func (c condition) matches(rec Record) bool {
	held := rec.Get(c.fieldName)

	if c.ref != nil {
		return c.matchesRecord(held)
	}

	switch c.op {
	case OpExact:
		return equalValues(held, c.value)
	case OpIExact:
		text, isText := held.(string)
		return isText && strings.ToUpper(text) == c.value
	case OpContains:
		return containsValue(held, c.value, false)
	case OpIContains:
		return containsValue(held, c.value, true)
	case OpLT:
		ord, ok := compareValues(held, c.value)
		return ok && ord < 0
	case OpLTE:
		ord, ok := compareValues(held, c.value)
		return ok && ord <= 0
	case OpGT:
		ord, ok := compareValues(held, c.value)
		return ok && ord > 0
	case OpGTE:
		ord, ok := compareValues(held, c.value)
		return ok && ord >= 0
	default:
		return false
	}
}

// matchesRecord implements exact matching against another record.
//
// An unsaved reference record matches by identity only. A saved one matches
// when the two models are on the same descent line (either descends from the
// other) and the primary keys are equal.
func (c condition) matchesRecord(held any) bool {
	if c.ref.PrimaryKey() == nil {
		return held != nil && held == any(c.ref)
	}

	other, isRecord := held.(Record)
	if !isRecord {
		return false
	}

	if !other.Model().DescendsFrom(c.ref.Model()) && !c.ref.Model().DescendsFrom(other.Model()) {
		return false
	}

	return equalValues(other.PrimaryKey(), c.ref.PrimaryKey())
}
