// Package recordset provides an in-memory record collection that mimics the
// query surface of a relational result set for records that are not (yet)
// persisted to a backing store.
//
// A Set wraps a Model descriptor and an ordered sequence of Record instances
// and exposes query-like operations: Filter, Exclude, Get, OrderBy,
// ValuesList, SelectRelated (a no-op), PrefetchRelated, Count, Exists,
// First, Last, indexing and iteration. Filtering is driven by string lookup
// keys of the form "field" or "field__operator", where the operator is one of
// a closed set of eight comparison tokens:
//   - exact, iexact
//   - contains, icontains
//   - lt, lte, gt, gte
//
// Every filtering, ordering, or slicing operation produces a new Set holding
// a fresh sequence of references to the same records; the original Set is
// never mutated. The one deliberate exception is SetResultCache, which
// replaces the held sequence in place so that generic collaborators written
// against a materialized query-result contract can overwrite cached results.
//
// Key types:
//   - Set: the query-emulation collection
//   - Where: a map of lookup keys to comparison values
//   - Model, Field, Record: the narrow contracts user types implement
//
// Common usage pattern:
//
//	tracks, err := recordset.New(catalog.TrackModel, records)
//	if err != nil {
//		// handle error
//	}
//
//	short, err := tracks.Filter(recordset.Where{"duration__lt": 180})
//	if err != nil {
//		// handle error
//	}
//
//	opener, err := short.OrderBy("position").Get(recordset.Where{"position": 1})
package recordset
