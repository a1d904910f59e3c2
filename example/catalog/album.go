package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/modelmesh/recordset-go/recordset"
)

// AlbumModel is the descriptor for Album records.
var AlbumModel = NewDescriptor("Album", nil,
	UUIDField{FieldName: "id"},
	TextField{FieldName: "title"},
	TextField{FieldName: "artist"},
	IntField{FieldName: "year"},
)

// Album is a catalog record holding child tracks.
type Album struct {
	ID     uuid.UUID
	Title  string
	Artist string
	Year   int

	prefetchedTracks *recordset.Set
}

// Model returns the Album descriptor.
func (a *Album) Model() recordset.Model {
	return AlbumModel
}

// Get returns the current value of the named field.
func (a *Album) Get(fieldName string) any {
	switch fieldName {
	case "id":
		return a.PrimaryKey()
	case "title":
		return a.Title
	case "artist":
		return a.Artist
	case "year":
		return a.Year
	default:
		return nil
	}
}

// PrimaryKey returns the album's persistent identity, or nil while unsaved.
func (a *Album) PrimaryKey() any {
	if a.ID == uuid.Nil {
		return nil
	}

	return a.ID
}

// Tracks returns the prefetched track set, or false when PrefetchRelated has
// not run for this album.
func (a *Album) Tracks() (*recordset.Set, bool) {
	if a.prefetchedTracks == nil {
		return nil, false
	}

	return a.prefetchedTracks, true
}

func (a *Album) setPrefetchedTracks(tracks *recordset.Set) {
	a.prefetchedTracks = tracks
}

func (a *Album) String() string {
	return fmt.Sprintf("<Album: %s>", a.Title)
}

// RemasterAlbumModel derives from AlbumModel, adding the year of the remaster.
var RemasterAlbumModel = NewDescriptor("RemasterAlbum", AlbumModel,
	IntField{FieldName: "remaster_year"},
)

// RemasterAlbum is an Album re-released as a remaster. It shares the original
// album's identity in the backing store.
type RemasterAlbum struct {
	Album
	RemasterYear int
}

// Model returns the RemasterAlbum descriptor.
func (a *RemasterAlbum) Model() recordset.Model {
	return RemasterAlbumModel
}

// Get returns the current value of the named field.
func (a *RemasterAlbum) Get(fieldName string) any {
	if fieldName == "remaster_year" {
		return a.RemasterYear
	}

	return a.Album.Get(fieldName)
}

func (a *RemasterAlbum) String() string {
	return fmt.Sprintf("<RemasterAlbum: %s>", a.Title)
}

// AlbumFromFields is a postgresload.HydrateFunc for Album records.
func AlbumFromFields(id uuid.UUID, fields map[string]any) (recordset.Record, error) {
	album := &Album{ID: id}

	if title, ok := fields["title"].(string); ok {
		album.Title = title
	}
	if artist, ok := fields["artist"].(string); ok {
		album.Artist = artist
	}
	if year, ok := fields["year"].(float64); ok {
		album.Year = int(year)
	}

	return album, nil
}
