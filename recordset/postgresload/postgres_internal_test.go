package postgresload

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmesh/recordset-go/example/catalog"
	"github.com/modelmesh/recordset-go/recordset"
	"github.com/modelmesh/recordset-go/recordset/postgresload/internal/adapters"
)

type fakeResult struct {
	rowsAffected int64
	err          error
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.err
}

type fakeRows struct {
	ids    []string
	fields []string
	index  int
}

func (r *fakeRows) Next() bool {
	if r.index >= len(r.ids) {
		return false
	}
	r.index++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.ids[r.index-1]
	*(dest[1].(*[]byte)) = []byte(r.fields[r.index-1])

	return nil
}

func (r *fakeRows) Close() error {
	return nil
}

type fakeDB struct {
	lastQuery string
	rows      adapters.DBRows
	queryErr  error
	result    adapters.DBResult
	execErr   error
}

func (db *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	db.lastQuery = query
	if db.queryErr != nil {
		return nil, db.queryErr
	}

	return db.rows, nil
}

func (db *fakeDB) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	db.lastQuery = query
	if db.execErr != nil {
		return nil, db.execErr
	}

	return db.result, nil
}

func albumFieldsJSON(title string, artist string, year int) string {
	return fmt.Sprintf(`{"artist":%q,"title":%q,"year":%d}`, artist, title, year)
}

func Test_Loader_Load_HydratesRecordsInHeldOrder(t *testing.T) {
	firstID, secondID := uuid.New(), uuid.New()
	db := &fakeDB{rows: &fakeRows{
		ids: []string{firstID.String(), secondID.String()},
		fields: []string{
			albumFieldsJSON("Blue Train", "John Coltrane", 1957),
			albumFieldsJSON("Giant Steps", "John Coltrane", 1960),
		},
	}}

	loader, err := newLoader(db)
	require.NoError(t, err)

	set, err := loader.Load(context.Background(), catalog.AlbumModel, catalog.AlbumFromFields)

	require.NoError(t, err)
	require.Equal(t, 2, set.Count())

	first := set.At(0).(*catalog.Album)
	assert.Equal(t, firstID, first.ID)
	assert.Equal(t, "Blue Train", first.Title)
	assert.Equal(t, "John Coltrane", first.Artist)
	assert.Equal(t, 1957, first.Year)

	second := set.At(1).(*catalog.Album)
	assert.Equal(t, secondID, second.ID)
	assert.Equal(t, "Giant Steps", second.Title)
}

func Test_Loader_Load_SelectQueryShape(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{}}
	loader, err := newLoader(db, WithTableName("catalog_records"))
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), catalog.AlbumModel, catalog.AlbumFromFields)

	require.NoError(t, err)
	assert.Contains(t, db.lastQuery, `SELECT "id", "fields"`)
	assert.Contains(t, db.lastQuery, `FROM "catalog_records"`)
	assert.Contains(t, db.lastQuery, `"model" = 'Album'`)
	assert.Contains(t, db.lastQuery, `ORDER BY "position" ASC`)
}

func Test_Loader_Load_Failures(t *testing.T) {
	validID := uuid.New().String()

	tests := []struct {
		name        string
		db          *fakeDB
		hydrate     HydrateFunc
		expectedErr error
	}{
		{
			name:        "query_failure",
			db:          &fakeDB{queryErr: errors.New("connection refused")},
			hydrate:     catalog.AlbumFromFields,
			expectedErr: recordset.ErrQueryingRecordsFailed,
		},
		{
			name: "malformed_row_identity",
			db: &fakeDB{rows: &fakeRows{
				ids:    []string{"not-a-uuid"},
				fields: []string{`{}`},
			}},
			hydrate:     catalog.AlbumFromFields,
			expectedErr: recordset.ErrScanningDBRowFailed,
		},
		{
			name: "malformed_fields_document",
			db: &fakeDB{rows: &fakeRows{
				ids:    []string{validID},
				fields: []string{`{broken`},
			}},
			hydrate:     catalog.AlbumFromFields,
			expectedErr: recordset.ErrDecodingFieldsFailed,
		},
		{
			name: "hydration_failure",
			db: &fakeDB{rows: &fakeRows{
				ids:    []string{validID},
				fields: []string{`{}`},
			}},
			hydrate: func(_ uuid.UUID, _ map[string]any) (recordset.Record, error) {
				return nil, errors.New("unusable row")
			},
			expectedErr: recordset.ErrHydratingRecordFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loader, err := newLoader(tc.db)
			require.NoError(t, err)

			_, err = loader.Load(context.Background(), catalog.AlbumModel, tc.hydrate)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Loader_Store(t *testing.T) {
	album := &catalog.Album{ID: uuid.New(), Title: "Blue Train", Artist: "John Coltrane", Year: 1957}

	newAlbumSet := func(t *testing.T) *recordset.Set {
		t.Helper()

		set, err := recordset.New(catalog.AlbumModel, recordset.Records{album})
		require.NoError(t, err)

		return set
	}

	t.Run("writes_one_row_per_record", func(t *testing.T) {
		db := &fakeDB{result: fakeResult{rowsAffected: 1}}
		loader, err := newLoader(db)
		require.NoError(t, err)

		err = loader.Store(context.Background(), newAlbumSet(t))

		require.NoError(t, err)
		assert.Contains(t, db.lastQuery, `INSERT INTO "records"`)
		assert.Contains(t, db.lastQuery, `"id", "model", "position", "fields"`)
		assert.Contains(t, db.lastQuery, album.ID.String())
		assert.Contains(t, db.lastQuery, `'Album'`)
		assert.Contains(t, db.lastQuery, `::jsonb`)
		assert.Contains(t, db.lastQuery, `"title":"Blue Train"`)
	})

	t.Run("empty_set_issues_no_statement", func(t *testing.T) {
		db := &fakeDB{}
		loader, err := newLoader(db)
		require.NoError(t, err)

		empty, err := recordset.New(catalog.AlbumModel, nil)
		require.NoError(t, err)

		err = loader.Store(context.Background(), empty)

		require.NoError(t, err)
		assert.Empty(t, db.lastQuery)
	})

	t.Run("execution_failure", func(t *testing.T) {
		db := &fakeDB{execErr: errors.New("connection reset")}
		loader, err := newLoader(db)
		require.NoError(t, err)

		err = loader.Store(context.Background(), newAlbumSet(t))

		assert.ErrorIs(t, err, recordset.ErrStoringRecordsFailed)
	})

	t.Run("rows_affected_failure", func(t *testing.T) {
		db := &fakeDB{result: fakeResult{err: errors.New("not supported")}}
		loader, err := newLoader(db)
		require.NoError(t, err)

		err = loader.Store(context.Background(), newAlbumSet(t))

		assert.ErrorIs(t, err, recordset.ErrGettingRowsAffectedFailed)
	})

	t.Run("fewer_rows_than_records", func(t *testing.T) {
		db := &fakeDB{result: fakeResult{rowsAffected: 0}}
		loader, err := newLoader(db)
		require.NoError(t, err)

		err = loader.Store(context.Background(), newAlbumSet(t))

		assert.ErrorIs(t, err, recordset.ErrStoreIncomplete)
	})
}

func Test_recordIdentity(t *testing.T) {
	t.Run("saved_record_keeps_its_identity", func(t *testing.T) {
		album := &catalog.Album{ID: uuid.New(), Title: "Blue Train"}

		assert.Equal(t, album.ID, recordIdentity(album))
	})

	t.Run("unsaved_record_gets_a_fresh_identity", func(t *testing.T) {
		album := &catalog.Album{Title: "Demo Tape"}

		assert.NotEqual(t, uuid.Nil, recordIdentity(album))
	})
}
