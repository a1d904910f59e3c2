package recordset

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"time"
)

const (
	logMsgOperation   = "recordset operation: "
	logAttrModel      = "model"
	logAttrMatchCount = "match_count"
	logAttrDurationMS = "duration_ms"

	metricOperationDuration = "recordset_operation_duration"
	metricOperationsTotal   = "recordset_operations_total"
	labelOperation          = "operation"
	labelModel              = "model"

	opFilter          = "filter"
	opExclude         = "exclude"
	opOrderBy         = "order_by"
	opPrefetchRelated = "prefetch_related"
)

// Where maps filter lookup keys ("field" or "field__operator") to comparison
// values. All entries must match for a record to pass a Filter call.
type Where map[string]any

// Set presents a database-query-result-like surface over a fixed in-memory
// record sequence. Aside from SetResultCache it is immutable from the
// caller's point of view: every filtering, ordering, or slicing operation
// returns a new Set over a fresh sequence of the same record references.
type Set struct {
	model            Model
	records          Records
	prefetcher       Prefetcher
	sorter           SortFunc
	logger           Logger
	metricsCollector MetricsCollector
}

// Option defines a functional option for configuring a Set.
type Option func(*Set) error

// WithPrefetcher sets the prefetch collaborator used by PrefetchRelated.
func WithPrefetcher(prefetcher Prefetcher) Option {
	return func(s *Set) error {
		s.prefetcher = prefetcher
		return nil
	}
}

// WithSorter replaces the default SortByFields collaborator used by OrderBy.
func WithSorter(sorter SortFunc) Option {
	return func(s *Set) error {
		s.sorter = sorter
		return nil
	}
}

// WithLogger sets the logger for the Set.
//
// Debug level: per-operation match counts with timing (development use).
func WithLogger(logger Logger) Option {
	return func(s *Set) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Set. The collector will
// receive operation durations and counts labeled by operation and model.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *Set) error {
		s.metricsCollector = collector
		return nil
	}
}

// New creates a Set over the given model and records with optional
// configuration. The Set takes ownership of a reference to the records slice
// as-is; it is not copied and no type validation is performed against the
// model descriptor.
func New(model Model, records Records, options ...Option) (*Set, error) {
	if model == nil {
		return nil, ErrNilModel
	}

	s := &Set{
		model:   model,
		records: records,
		sorter:  SortByFields,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// derive wraps a new sequence in a Set sharing this Set's collaborators.
func (s *Set) derive(records Records) *Set {
	return &Set{
		model:            s.model,
		records:          records,
		prefetcher:       s.prefetcher,
		sorter:           s.sorter,
		logger:           s.logger,
		metricsCollector: s.metricsCollector,
	}
}

// Model returns the descriptor of the records held by the Set.
func (s *Set) Model() Model {
	return s.model
}

// All returns the Set itself: the sequence is already fully materialized.
func (s *Set) All() *Set {
	return s
}

// Ordered reports that results are returned in a consistent order.
func (s *Set) Ordered() bool {
	return true
}

// compileConditions builds one condition per Where entry. Malformed lookup
// keys, unknown fields, and uncoercible values fail here, before any record
// is evaluated.
func (s *Set) compileConditions(where Where) ([]condition, error) {
	conditions := make([]condition, 0, len(where))

	for key, raw := range where {
		lookup, parseErr := ParseLookup(key)
		if parseErr != nil {
			return nil, parseErr
		}

		cond, compileErr := compileCondition(s.model, lookup, raw)
		if compileErr != nil {
			return nil, compileErr
		}

		conditions = append(conditions, cond)
	}

	return conditions, nil
}

func matchesAll(rec Record, conditions []condition) bool {
	for _, cond := range conditions {
		if !cond.matches(rec) {
			return false
		}
	}

	return true
}

// Filter returns a new Set holding the records that satisfy every Where
// entry, in their current relative order.
func (s *Set) Filter(where Where) (*Set, error) {
	start := time.Now()

	conditions, err := s.compileConditions(where)
	if err != nil {
		return nil, err
	}

	kept := make(Records, 0, len(s.records))
	for _, rec := range s.records {
		if matchesAll(rec, conditions) {
			kept = append(kept, rec)
		}
	}

	s.observeOperation(opFilter, len(kept), time.Since(start))

	return s.derive(kept), nil
}

// Exclude returns a new Set without the records that satisfy every Where
// entry simultaneously. A record failing any single entry is kept: only
// full-conjunction matches are excluded, which is deliberately not the
// complement of per-entry exclusion.
func (s *Set) Exclude(where Where) (*Set, error) {
	start := time.Now()

	conditions, err := s.compileConditions(where)
	if err != nil {
		return nil, err
	}

	kept := make(Records, 0, len(s.records))
	for _, rec := range s.records {
		if !matchesAll(rec, conditions) {
			kept = append(kept, rec)
		}
	}

	s.observeOperation(opExclude, len(kept), time.Since(start))

	return s.derive(kept), nil
}

// Get returns the single record satisfying the Where entries.
//
// Zero matches yield the model's not-found error, more than one match yields
// the model's multiple-returned error carrying the match count.
func (s *Set) Get(where Where) (Record, error) {
	matches, filterErr := s.Filter(where)
	if filterErr != nil {
		return nil, filterErr
	}

	switch count := matches.Count(); count {
	case 0:
		return nil, s.notFoundError()
	case 1:
		return matches.At(0), nil
	default:
		return nil, s.multipleReturnedError(count)
	}
}

func (s *Set) notFoundError() error {
	if source, implemented := s.model.(ErrorSource); implemented {
		return source.NotFound(fmt.Sprintf("%s matching query does not exist.", s.model.Name()))
	}

	return NotFoundError{ModelName: s.model.Name()}
}

func (s *Set) multipleReturnedError(count int) error {
	if source, implemented := s.model.(ErrorSource); implemented {
		return source.MultipleReturned(
			fmt.Sprintf("get() returned more than one %s -- it returned %d!", s.model.Name(), count),
		)
	}

	return MultipleReturnedError{ModelName: s.model.Name(), Count: count}
}

// Count returns the number of held records.
func (s *Set) Count() int {
	return len(s.records)
}

// Exists reports whether the Set holds any records.
func (s *Set) Exists() bool {
	return len(s.records) > 0
}

// First returns the first record in the current order, or false when empty.
func (s *Set) First() (Record, bool) {
	if len(s.records) == 0 {
		return nil, false
	}

	return s.records[0], true
}

// Last returns the last record in the current order, or false when empty.
func (s *Set) Last() (Record, bool) {
	if len(s.records) == 0 {
		return nil, false
	}

	return s.records[len(s.records)-1], true
}

// SelectRelated has no meaningful effect without a real query backend and
// returns the Set unchanged.
func (s *Set) SelectRelated(relations ...string) *Set {
	return s
}

// PrefetchRelated delegates the held records and relation names to the
// configured Prefetcher, which mutates the records' cached related-object
// state as a side effect, and returns the Set itself.
func (s *Set) PrefetchRelated(relations ...string) (*Set, error) {
	if s.prefetcher == nil {
		return nil, ErrNoPrefetcherConfigured
	}

	start := time.Now()

	if err := s.prefetcher.PrefetchRelated(s.records, relations...); err != nil {
		return nil, errors.Join(ErrPrefetchFailed, err)
	}

	s.observeOperation(opPrefetchRelated, len(s.records), time.Since(start))

	return s, nil
}

// ValuesList projects each record to a row of field values for the named
// fields, in held order. With no fields given, all declared model fields are
// projected in declaration order.
func (s *Set) ValuesList(fields ...string) ([][]any, error) {
	fieldNames := fields
	if len(fieldNames) == 0 {
		fieldNames = s.model.FieldNames()
	} else {
		for _, name := range fieldNames {
			if _, fieldErr := s.model.Field(name); fieldErr != nil {
				return nil, errors.Join(ErrUnknownField, fieldErr)
			}
		}
	}

	rows := make([][]any, 0, len(s.records))
	for _, rec := range s.records {
		row := make([]any, len(fieldNames))
		for i, name := range fieldNames {
			row[i] = rec.Get(name)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// FlatValuesList projects each record to the single named field's value.
// Requesting any other number of fields is a usage error.
func (s *Set) FlatValuesList(fields ...string) ([]any, error) {
	if len(fields) != 1 {
		return nil, errors.Join(
			ErrFlatNeedsExactlyOneField,
			fmt.Errorf("flat values list called with %d fields", len(fields)),
		)
	}

	if _, fieldErr := s.model.Field(fields[0]); fieldErr != nil {
		return nil, errors.Join(ErrUnknownField, fieldErr)
	}

	values := make([]any, 0, len(s.records))
	for _, rec := range s.records {
		values = append(values, rec.Get(fields[0]))
	}

	return values, nil
}

// OrderBy returns a new Set with a copy of the record sequence stably sorted
// by the given field names; a leading "-" on a field name reverses that key.
// The receiver's order is untouched.
func (s *Set) OrderBy(fields ...string) *Set {
	start := time.Now()

	sorted := make(Records, len(s.records))
	copy(sorted, s.records)
	s.sorter(sorted, fields...)

	s.observeOperation(opOrderBy, len(sorted), time.Since(start))

	return s.derive(sorted)
}

// At returns the record at index i in the current order.
func (s *Set) At(i int) Record {
	return s.records[i]
}

// Slice returns a new Set holding the records in [from, to).
func (s *Set) Slice(from, to int) *Set {
	sliced := make(Records, to-from)
	copy(sliced, s.records[from:to])

	return s.derive(sliced)
}

// Each iterates the records in the current order.
func (s *Set) Each() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range s.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// ResultCache returns the held record sequence itself, not a copy. Together
// with SetResultCache it lets generic collaborators written against a
// materialized query-result contract read and overwrite cached results.
func (s *Set) ResultCache() Records {
	return s.records
}

// SetResultCache replaces the held sequence with a fresh list built from the
// given records. This is the only mutating operation on a Set.
func (s *Set) SetResultCache(records Records) {
	replacement := make(Records, len(records))
	copy(replacement, records)
	s.records = replacement
}

// String returns the representation of the materialized record list.
func (s *Set) String() string {
	return fmt.Sprintf("%v", s.records)
}

// observeOperation reports an operation's match count and duration to the
// configured logger and metrics collector.
func (s *Set) observeOperation(operation string, matchCount int, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(
			logMsgOperation+operation,
			logAttrModel, s.model.Name(),
			logAttrMatchCount, matchCount,
			logAttrDurationMS, durationToMilliseconds(duration),
		)
	}

	if s.metricsCollector != nil {
		labels := map[string]string{labelOperation: operation, labelModel: s.model.Name()}
		s.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
		s.metricsCollector.IncrementCounter(metricOperationsTotal, labels)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
