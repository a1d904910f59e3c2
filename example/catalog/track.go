package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/modelmesh/recordset-go/recordset"
)

// TrackModel is the descriptor for Track records.
var TrackModel = NewDescriptor("Track", nil,
	UUIDField{FieldName: "id"},
	RelatedField{FieldName: "album"},
	TextField{FieldName: "title"},
	IntField{FieldName: "position"},
	IntField{FieldName: "duration"},
)

// LiveTrackModel derives from TrackModel, adding the venue of the recording.
var LiveTrackModel = NewDescriptor("LiveTrack", TrackModel,
	TextField{FieldName: "venue"},
)

// Track is one recording on an album. Duration is in seconds.
type Track struct {
	ID       uuid.UUID
	Album    *Album
	Title    string
	Position int
	Duration int
}

// Model returns the Track descriptor.
func (t *Track) Model() recordset.Model {
	return TrackModel
}

// Get returns the current value of the named field.
func (t *Track) Get(fieldName string) any {
	switch fieldName {
	case "id":
		return t.PrimaryKey()
	case "album":
		if t.Album == nil {
			return nil
		}
		return t.Album
	case "title":
		return t.Title
	case "position":
		return t.Position
	case "duration":
		return t.Duration
	default:
		return nil
	}
}

// PrimaryKey returns the track's persistent identity, or nil while unsaved.
func (t *Track) PrimaryKey() any {
	if t.ID == uuid.Nil {
		return nil
	}

	return t.ID
}

func (t *Track) String() string {
	return fmt.Sprintf("<Track: %s>", t.Title)
}

// LiveTrack is a Track recorded live, with the venue it was captured at.
type LiveTrack struct {
	Track
	Venue string
}

// Model returns the LiveTrack descriptor.
func (t *LiveTrack) Model() recordset.Model {
	return LiveTrackModel
}

// Get returns the current value of the named field.
func (t *LiveTrack) Get(fieldName string) any {
	if fieldName == "venue" {
		return t.Venue
	}

	return t.Track.Get(fieldName)
}

func (t *LiveTrack) String() string {
	return fmt.Sprintf("<LiveTrack: %s>", t.Title)
}

// TrackFromFields is a postgresload.HydrateFunc for Track records. The album
// relation is not restored from the fields document; relations are wired by
// the prefetch collaborator.
func TrackFromFields(id uuid.UUID, fields map[string]any) (recordset.Record, error) {
	track := &Track{ID: id}

	if title, ok := fields["title"].(string); ok {
		track.Title = title
	}
	if position, ok := fields["position"].(float64); ok {
		track.Position = int(position)
	}
	if duration, ok := fields["duration"].(float64); ok {
		track.Duration = int(duration)
	}

	return track, nil
}
