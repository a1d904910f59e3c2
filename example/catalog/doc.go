// Package catalog is a reference implementation of the recordset collaborator
// contracts, modeling a small music catalog.
//
// It shows how user code implements the Model, Field, Record, and Prefetcher
// interfaces: Album and Track records with uuid primary keys, a LiveTrack
// model deriving from Track, typed fields with coercions, and an in-memory
// relation prefetcher that caches each album's tracks as a prefetched Set on
// the album record.
package catalog
