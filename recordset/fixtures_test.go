package recordset_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/modelmesh/recordset-go/example/catalog"
	"github.com/modelmesh/recordset-go/recordset"
)

func savedAlbum(title string, artist string, year int) *catalog.Album {
	return &catalog.Album{ID: uuid.New(), Title: title, Artist: artist, Year: year}
}

func savedTrack(album *catalog.Album, title string, position int, duration int) *catalog.Track {
	return &catalog.Track{ID: uuid.New(), Album: album, Title: title, Position: position, Duration: duration}
}

func trackSet(t *testing.T, tracks ...*catalog.Track) *recordset.Set {
	t.Helper()

	records := make(recordset.Records, len(tracks))
	for i, track := range tracks {
		records[i] = track
	}

	set, err := recordset.New(catalog.TrackModel, records)
	require.NoError(t, err)

	return set
}

func albumSet(t *testing.T, options []recordset.Option, albums ...*catalog.Album) *recordset.Set {
	t.Helper()

	records := make(recordset.Records, len(albums))
	for i, album := range albums {
		records[i] = album
	}

	set, err := recordset.New(catalog.AlbumModel, records, options...)
	require.NoError(t, err)

	return set
}

func titlesOf(set *recordset.Set) []string {
	titles := make([]string, 0, set.Count())
	for rec := range set.Each() {
		titles = append(titles, rec.Get("title").(string))
	}

	return titles
}
