package recordset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modelmesh/recordset-go/example/catalog"
	"github.com/modelmesh/recordset-go/recordset"
)

func Test_SortByFields(t *testing.T) {
	album := savedAlbum("Blue Train", "John Coltrane", 1957)
	short := savedTrack(album, "Short", 3, 90)
	mid := savedTrack(album, "Mid", 1, 200)
	midToo := savedTrack(album, "Mid Too", 2, 200)

	tests := []struct {
		name           string
		fields         []string
		expectedTitles []string
	}{
		{
			name:           "single_ascending_key",
			fields:         []string{"duration"},
			expectedTitles: []string{"Short", "Mid", "Mid Too"},
		},
		{
			name:           "single_descending_key",
			fields:         []string{"-duration"},
			expectedTitles: []string{"Mid", "Mid Too", "Short"},
		},
		{
			name:           "ties_broken_by_second_key",
			fields:         []string{"duration", "-position"},
			expectedTitles: []string{"Short", "Mid Too", "Mid"},
		},
		{
			name:           "string_key",
			fields:         []string{"title"},
			expectedTitles: []string{"Mid", "Mid Too", "Short"},
		},
		{
			name:           "no_fields_keeps_order",
			fields:         nil,
			expectedTitles: []string{"Mid", "Mid Too", "Short"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := recordset.Records{mid, midToo, short}

			recordset.SortByFields(records, tc.fields...)

			titles := make([]string, len(records))
			for i, rec := range records {
				titles[i] = rec.Get("title").(string)
			}
			assert.Equal(t, tc.expectedTitles, titles)
		})
	}
}

func Test_SortByFields_IncomparableValuesKeepOrder(t *testing.T) {
	albumOne := savedAlbum("One", "A", 2000)
	albumTwo := savedAlbum("Two", "B", 2001)
	first := savedTrack(albumOne, "First", 1, 100)
	second := savedTrack(albumTwo, "Second", 2, 50)
	records := recordset.Records{first, second}

	// album values are record references with no mutual ordering
	recordset.SortByFields(records, "album")

	assert.Equal(t, recordset.Records{first, second}, records)
}

func Test_SortByFields_IsStable(t *testing.T) {
	album := savedAlbum("Blue Train", "John Coltrane", 1957)
	tracks := []*catalog.Track{
		savedTrack(album, "d", 4, 100),
		savedTrack(album, "c", 3, 100),
		savedTrack(album, "b", 2, 100),
		savedTrack(album, "a", 1, 100),
	}

	records := make(recordset.Records, len(tracks))
	for i, track := range tracks {
		records[i] = track
	}

	recordset.SortByFields(records, "duration")

	titles := make([]string, len(records))
	for i, rec := range records {
		titles[i] = rec.Get("title").(string)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, titles)
}
