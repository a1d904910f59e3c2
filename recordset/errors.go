package recordset

import (
	"errors"
	"fmt"
)

var ErrNilModel = errors.New("nil model supplied")
var ErrUnsupportedLookup = errors.New("unsupported filter expression")
var ErrUnknownField = errors.New("unknown field for model")
var ErrCoercingValueFailed = errors.New("coercing comparison value failed")
var ErrLookupNeedsTextValue = errors.New("case-insensitive lookup needs a string value")
var ErrFlatNeedsExactlyOneField = errors.New("flat values list needs exactly one field")
var ErrNoPrefetcherConfigured = errors.New("no prefetcher configured")
var ErrPrefetchFailed = errors.New("prefetching related records failed")

var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrEmptyRecordsTableName = errors.New("empty recordsTableName supplied")
var ErrBuildingQueryFailed = errors.New("building sql query failed")
var ErrQueryingRecordsFailed = errors.New("querying records failed")
var ErrScanningDBRowFailed = errors.New("scanning database row failed")
var ErrDecodingFieldsFailed = errors.New("decoding fields document failed")
var ErrHydratingRecordFailed = errors.New("hydrating record failed")
var ErrStoringRecordsFailed = errors.New("storing records failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrStoreIncomplete = errors.New("store affected fewer rows than records supplied")

// NotFoundError is returned by Set.Get when no record matches the query and
// the model does not supply its own error values via ErrorSource.
type NotFoundError struct {
	ModelName string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s matching query does not exist.", e.ModelName)
}

// MultipleReturnedError is returned by Set.Get when more than one record
// matches the query and the model does not supply its own error values via
// ErrorSource.
type MultipleReturnedError struct {
	ModelName string
	Count     int
}

func (e MultipleReturnedError) Error() string {
	return fmt.Sprintf("get() returned more than one %s -- it returned %d!", e.ModelName, e.Count)
}
