package recordset

// Records is an alias type for a slice of Record.
type Records = []Record

// Model is the descriptor for the record type held by a Set.
//
// It is the narrow contract with the host model layer: field metadata lookup,
// the ordered list of declared field names, and type-hierarchy awareness for
// matching saved records across related model types.
type Model interface {
	// Name returns the display name of the model, used in error messages.
	Name() string

	// FieldNames returns the declared field names in declaration order.
	FieldNames() []string

	// Field returns the metadata for the named field, or an error if no such
	// field is declared on the model.
	Field(name string) (Field, error)

	// DescendsFrom reports whether this model is the other model or derives
	// from it. It must be reflexive: m.DescendsFrom(m) is true.
	DescendsFrom(other Model) bool
}

// Field exposes the type coercion for one declared model field.
type Field interface {
	Name() string

	// ToCanonical converts a raw comparison value into the canonical
	// in-memory representation for this field.
	ToCanonical(raw any) (any, error)
}

// Record is one in-memory instance held by a Set.
//
// Implementations are expected to be pointer types: matching against an
// unsaved record compares by reference identity.
type Record interface {
	// Model returns the descriptor of the record's type.
	Model() Model

	// Get returns the current value of the named field.
	Get(fieldName string) any

	// PrimaryKey returns the persistent identity assigned by a backing
	// store, or nil while the record is unsaved.
	PrimaryKey() any
}

// ErrorSource is an optional interface for Model implementations that supply
// their own not-found and multiple-returned error values. When a model does
// not implement it, Set.Get falls back to the NotFoundError and
// MultipleReturnedError types of this package.
type ErrorSource interface {
	NotFound(msg string) error
	MultipleReturned(msg string) error
}

// Prefetcher is the generic prefetch collaborator: it walks the given
// relation names for every record and mutates each record's cached
// related-object state as a side effect.
type Prefetcher interface {
	PrefetchRelated(records Records, relations ...string) error
}

// PrefetchFunc adapts a plain function to the Prefetcher interface.
type PrefetchFunc func(records Records, relations ...string) error

// PrefetchRelated calls f.
func (f PrefetchFunc) PrefetchRelated(records Records, relations ...string) error {
	return f(records, relations...)
}

// SortFunc is the stable multi-field sort collaborator. It sorts records in
// place by the given field names; a leading "-" on a field name reverses the
// order for that key.
type SortFunc func(records Records, fields ...string)
