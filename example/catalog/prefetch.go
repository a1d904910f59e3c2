package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/modelmesh/recordset-go/recordset"
)

// RelationTracks is the relation name the TrackPrefetcher understands.
const RelationTracks = "tracks"

// TrackPrefetcher implements recordset.Prefetcher for the album->tracks
// relation. It batches all tracks by album identity once, then caches a
// prefetched Set on every album record it is handed.
type TrackPrefetcher struct {
	tracksByAlbum map[uuid.UUID]recordset.Records
}

// NewTrackPrefetcher indexes the given tracks by their album's identity.
// Tracks without a saved album are not reachable through a relation walk and
// are skipped.
func NewTrackPrefetcher(tracks ...*Track) *TrackPrefetcher {
	index := make(map[uuid.UUID]recordset.Records)

	for _, track := range tracks {
		if track.Album == nil || track.Album.ID == uuid.Nil {
			continue
		}
		index[track.Album.ID] = append(index[track.Album.ID], track)
	}

	return &TrackPrefetcher{tracksByAlbum: index}
}

// PrefetchRelated caches each album's tracks as a Set on the album record.
func (p *TrackPrefetcher) PrefetchRelated(records recordset.Records, relations ...string) error {
	for _, relation := range relations {
		if relation != RelationTracks {
			return fmt.Errorf("unknown relation %q", relation)
		}

		for _, rec := range records {
			album, isAlbum := rec.(*Album)
			if !isAlbum {
				return fmt.Errorf("relation %q needs Album records, got %T", relation, rec)
			}

			tracks, err := recordset.New(TrackModel, p.tracksByAlbum[album.ID])
			if err != nil {
				return err
			}

			album.setPrefetchedTracks(tracks)
		}
	}

	return nil
}
