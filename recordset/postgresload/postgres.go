package postgresload

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/modelmesh/recordset-go/recordset"
	"github.com/modelmesh/recordset-go/recordset/postgresload/internal/adapters"
)

const (
	defaultRecordsTableName      = "records"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed during record store"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgDecodeFieldsFailed     = "failed to decode fields document from database row"
	logMsgHydrateRecordFailed    = "failed to hydrate record from database row"
	logMsgEncodeFieldsFailed     = "failed to encode fields document for record"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgLoadCompleted          = "load completed"
	logMsgRecordsStored          = "records stored"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "loader operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrModel                 = "model"
	logAttrRecordID              = "record_id"
	logAttrRecordCount           = "record_count"
	logAttrDurationMS            = "duration_ms"
	logAttrRowsAffected          = "rows_affected"
	logActionLoad                = "load"
	logActionStore               = "store"
	spanNameLoad                 = "postgresload.load"
	spanNameStore                = "postgresload.store"
	spanStatusOK                 = "ok"
	spanStatusError              = "error"
	colID                        = "id"
	colModel                     = "model"
	colPosition                  = "position"
	colFields                    = "fields"
	dialectPostgres              = "postgres"
	castJsonb                    = "?::jsonb"
)

type sqlQueryString = string

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// HydrateFunc builds one record from a loaded row: the row's uuid identity
// and its decoded fields document.
type HydrateFunc func(id uuid.UUID, fields map[string]any) (recordset.Record, error)

// Loader reads and writes record rows for one table, leveraging a database
// adapter and supporting customizable logging, metrics, and tracing.
type Loader struct {
	db               adapters.DBAdapter
	recordsTableName string
	logger           recordset.Logger
	contextualLogger recordset.ContextualLogger
	metricsCollector recordset.MetricsCollector
	tracingCollector recordset.TracingCollector
}

// NewLoaderFromPGXPool creates a new Loader using a pgx Pool with optional configuration.
func NewLoaderFromPGXPool(db *pgxpool.Pool, options ...Option) (Loader, error) {
	if db == nil {
		return Loader{}, recordset.ErrNilDatabaseConnection
	}

	return newLoader(adapters.NewPGXAdapter(db), options...)
}

// NewLoaderFromPGXPoolWithReplica creates a new Loader that reads from the
// replica pool and writes to the primary pool.
func NewLoaderFromPGXPoolWithReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Loader, error) {
	if primary == nil || replica == nil {
		return Loader{}, recordset.ErrNilDatabaseConnection
	}

	return newLoader(adapters.NewPGXAdapterWithReplica(primary, replica), options...)
}

// NewLoaderFromSQLDB creates a new Loader using a sql.DB with optional configuration.
func NewLoaderFromSQLDB(db *sql.DB, options ...Option) (Loader, error) {
	if db == nil {
		return Loader{}, recordset.ErrNilDatabaseConnection
	}

	return newLoader(adapters.NewSQLAdapter(db), options...)
}

// NewLoaderFromSQLX creates a new Loader using a sqlx.DB with optional configuration.
func NewLoaderFromSQLX(db *sqlx.DB, options ...Option) (Loader, error) {
	if db == nil {
		return Loader{}, recordset.ErrNilDatabaseConnection
	}

	return newLoader(adapters.NewSQLXAdapter(db), options...)
}

func newLoader(db adapters.DBAdapter, options ...Option) (Loader, error) {
	l := Loader{
		db:               db,
		recordsTableName: defaultRecordsTableName,
	}

	for _, option := range options {
		if err := option(&l); err != nil {
			return Loader{}, err
		}
	}

	return l, nil
}

// Load selects all rows of the given model in position order, hydrates them
// with the supplied HydrateFunc, and wraps the records in a recordset.Set.
// The setOptions are passed through to recordset.New.
func (l Loader) Load(
	ctx context.Context,
	model recordset.Model,
	hydrate HydrateFunc,
	setOptions ...recordset.Option,
) (*recordset.Set, error) {

	ctx, span := l.startSpan(ctx, spanNameLoad, model.Name())

	sqlQuery, buildQueryErr := l.buildSelectQuery(model)
	if buildQueryErr != nil {
		l.logError(ctx, logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error())
		l.finishSpan(span, spanStatusError)
		return nil, buildQueryErr
	}

	rows, duration, queryErr := l.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		l.finishSpan(span, spanStatusError)
		return nil, queryErr
	}
	defer l.closeRows(ctx, rows)

	records, scanErr := l.processQueryResults(ctx, rows, hydrate)
	if scanErr != nil {
		l.finishSpan(span, spanStatusError)
		return nil, scanErr
	}

	set, newSetErr := recordset.New(model, records, setOptions...)
	if newSetErr != nil {
		l.finishSpan(span, spanStatusError)
		return nil, newSetErr
	}

	l.logOperation(
		ctx,
		logMsgLoadCompleted,
		logAttrModel, model.Name(),
		logAttrRecordCount, len(records),
		logAttrDurationMS, durationToMilliseconds(duration))
	l.observeDuration(ctx, logActionLoad, model.Name(), duration)
	l.finishSpan(span, spanStatusOK)

	return set, nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (l Loader) executeQuery(ctx context.Context, sqlQuery string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := l.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	l.logQueryWithDuration(ctx, sqlQuery, logActionLoad, duration)

	if queryErr != nil {
		l.logError(ctx, logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(recordset.ErrQueryingRecordsFailed, queryErr)
	}

	return rows, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (l Loader) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		l.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// processQueryResults scans database rows, decodes the fields documents, and
// hydrates the records.
func (l Loader) processQueryResults(
	ctx context.Context,
	rows adapters.DBRows,
	hydrate HydrateFunc,
) (recordset.Records, error) {

	var rowID string
	var rowFields []byte
	records := make(recordset.Records, 0)

	for rows.Next() {
		if rowScanErr := rows.Scan(&rowID, &rowFields); rowScanErr != nil {
			l.logError(ctx, logMsgScanRowFailed, logAttrError, rowScanErr.Error())

			return nil, errors.Join(recordset.ErrScanningDBRowFailed, rowScanErr)
		}

		recordID, parseIDErr := uuid.Parse(rowID)
		if parseIDErr != nil {
			l.logError(ctx, logMsgScanRowFailed, logAttrError, parseIDErr.Error(), logAttrRecordID, rowID)

			return nil, errors.Join(recordset.ErrScanningDBRowFailed, parseIDErr)
		}

		fields := make(map[string]any)
		if decodeErr := jsonAPI.Unmarshal(rowFields, &fields); decodeErr != nil {
			l.logError(ctx, logMsgDecodeFieldsFailed, logAttrError, decodeErr.Error(), logAttrRecordID, rowID)

			return nil, errors.Join(recordset.ErrDecodingFieldsFailed, decodeErr)
		}

		record, hydrateErr := hydrate(recordID, fields)
		if hydrateErr != nil {
			l.logError(ctx, logMsgHydrateRecordFailed, logAttrError, hydrateErr.Error(), logAttrRecordID, rowID)

			return nil, errors.Join(recordset.ErrHydratingRecordFailed, hydrateErr)
		}

		records = append(records, record)
	}

	return records, nil
}

// Store writes the Set's current records back as rows of the records table,
// one row per record in held order. Records without a uuid primary key get a
// fresh uuid identity.
func (l Loader) Store(ctx context.Context, set *recordset.Set) error {
	ctx, span := l.startSpan(ctx, spanNameStore, set.Model().Name())

	if set.Count() == 0 {
		l.finishSpan(span, spanStatusOK)
		return nil
	}

	sqlQuery, buildQueryErr := l.buildInsertQuery(ctx, set)
	if buildQueryErr != nil {
		l.logError(ctx, logMsgBuildInsertQueryFailed, logAttrError, buildQueryErr.Error())
		l.finishSpan(span, spanStatusError)
		return buildQueryErr
	}

	start := time.Now()
	result, execErr := l.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	l.logQueryWithDuration(ctx, sqlQuery, logActionStore, duration)

	if execErr != nil {
		l.logError(ctx, logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		l.finishSpan(span, spanStatusError)
		return errors.Join(recordset.ErrStoringRecordsFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		l.logError(ctx, logMsgRowsAffectedFailed, logAttrError, rowsAffectedErr.Error())
		l.finishSpan(span, spanStatusError)
		return errors.Join(recordset.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(set.Count()) {
		l.logWarn(ctx, logMsgRowsAffectedFailed, logAttrRowsAffected, rowsAffected, logAttrRecordCount, set.Count())
		l.finishSpan(span, spanStatusError)
		return recordset.ErrStoreIncomplete
	}

	l.logOperation(
		ctx,
		logMsgRecordsStored,
		logAttrModel, set.Model().Name(),
		logAttrRecordCount, set.Count(),
		logAttrDurationMS, durationToMilliseconds(duration))
	l.observeDuration(ctx, logActionStore, set.Model().Name(), duration)
	l.finishSpan(span, spanStatusOK)

	return nil
}

func (l Loader) buildSelectQuery(model recordset.Model) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(l.recordsTableName).
		Select(colID, colFields).
		Where(goqu.Ex{colModel: model.Name()}).
		Order(goqu.I(colPosition).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(recordset.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (l Loader) buildInsertQuery(ctx context.Context, set *recordset.Set) (sqlQueryString, error) {
	model := set.Model()
	fieldNames := model.FieldNames()

	// Store reads through the result-cache alias, the same surface generic
	// collaborators use to overwrite cached results.
	vals := make([][]interface{}, 0, set.Count())
	for position, record := range set.ResultCache() {
		doc := make(map[string]any, len(fieldNames))
		for _, fieldName := range fieldNames {
			doc[fieldName] = record.Get(fieldName)
		}

		docJSON, encodeErr := jsonAPI.Marshal(doc)
		if encodeErr != nil {
			l.logError(ctx, logMsgEncodeFieldsFailed, logAttrError, encodeErr.Error())

			return "", errors.Join(recordset.ErrStoringRecordsFailed, encodeErr)
		}

		vals = append(vals, goqu.Vals{
			recordIdentity(record).String(),
			model.Name(),
			position,
			goqu.L(castJsonb, string(docJSON)),
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(l.recordsTableName).
		Cols(colID, colModel, colPosition, colFields).
		Vals(vals...)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(recordset.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// recordIdentity returns the record's uuid primary key, or a fresh uuid for
// records that were never persisted.
func recordIdentity(record recordset.Record) uuid.UUID {
	if id, isUUID := record.PrimaryKey().(uuid.UUID); isUUID && id != uuid.Nil {
		return id
	}

	return uuid.New()
}

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (l Loader) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	if l.contextualLogger != nil {
		l.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action,
			logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
		return
	}

	if l.logger != nil {
		l.logger.Debug(logMsgSQLExecuted+action,
			logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (l Loader) logOperation(ctx context.Context, action string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	if l.logger != nil {
		l.logger.Info(logMsgOperation+action, args...)
	}
}

func (l Loader) logWarn(ctx context.Context, msg string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}

func (l Loader) logError(ctx context.Context, msg string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.ErrorContext(ctx, msg, args...)
		return
	}

	if l.logger != nil {
		l.logger.Error(msg, args...)
	}
}

// observeDuration reports an operation duration to the metrics collector if one is configured.
func (l Loader) observeDuration(ctx context.Context, action string, modelName string, duration time.Duration) {
	if l.metricsCollector == nil {
		return
	}

	labels := map[string]string{"operation": action, logAttrModel: modelName}

	if contextual, implemented := l.metricsCollector.(recordset.ContextualMetricsCollector); implemented {
		contextual.RecordDurationContext(ctx, "postgresload_operation_duration", duration, labels)
		return
	}

	l.metricsCollector.RecordDuration("postgresload_operation_duration", duration, labels)
}

func (l Loader) startSpan(ctx context.Context, name string, modelName string) (context.Context, recordset.SpanContext) {
	if l.tracingCollector == nil {
		return ctx, nil
	}

	return l.tracingCollector.StartSpan(ctx, name, map[string]string{logAttrModel: modelName})
}

func (l Loader) finishSpan(span recordset.SpanContext, status string) {
	if l.tracingCollector == nil || span == nil {
		return
	}

	l.tracingCollector.FinishSpan(span, status, nil)
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
