// Package tracks flattens playlist items into EnrichedTrack records and holds
// the sort and filter operations the reorganize flows run over them.
package tracks

import (
	"context"

	log "github.com/sirupsen/logrus"
	spotifyclient "github.com/zmb3/spotify/v2"
)

// EnrichedTrack is one playlist track with the metadata the flows sort and
// filter on. Genres come from the primary artist.
type EnrichedTrack struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artist      string   `json:"artist"`
	Popularity  int      `json:"popularity"`
	ReleaseDate string   `json:"release_date"`
	Genres      []string `json:"genres"`
}

// Fetcher loads full track and artist detail.
type Fetcher interface {
	GetTrack(ctx context.Context, trackID string) (*spotifyclient.FullTrack, error)
	GetArtist(ctx context.Context, artistID string) (*spotifyclient.FullArtist, error)
}

// Enrich fetches detail for every item that carries a track id, in order.
// Artist genres are looked up once per distinct artist within this call.
func Enrich(ctx context.Context, fetcher Fetcher, items []spotifyclient.PlaylistItem) ([]EnrichedTrack, error) {
	logger := log.WithField("component", "tracks")

	artistGenres := make(map[spotifyclient.ID][]string)
	enriched := make([]EnrichedTrack, 0, len(items))
	skipped := 0

	for _, item := range items {
		t := item.Track.Track
		if t == nil || t.ID == "" {
			skipped++
			continue
		}

		full, err := fetcher.GetTrack(ctx, string(t.ID))
		if err != nil {
			return nil, err
		}

		record := EnrichedTrack{
			ID:          string(t.ID),
			Name:        full.Name,
			Popularity:  int(full.Popularity),
			ReleaseDate: full.Album.ReleaseDate,
		}

		if len(full.Artists) > 0 {
			primary := full.Artists[0]
			record.Artist = primary.Name

			genres, seen := artistGenres[primary.ID]
			if !seen {
				artist, err := fetcher.GetArtist(ctx, string(primary.ID))
				if err != nil {
					return nil, err
				}
				genres = artist.Genres
				artistGenres[primary.ID] = genres
			}
			record.Genres = genres
		}

		enriched = append(enriched, record)
	}

	logger.Debugf("Enriched %d tracks (%d artists, %d items skipped)", len(enriched), len(artistGenres), skipped)
	return enriched, nil
}
