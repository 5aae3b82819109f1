package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	spotifyclient "github.com/zmb3/spotify/v2"

	"sortify/sentryhelper"
)

const (
	// AddTracksBatchSize is the most items the catalog accepts per add call.
	AddTracksBatchSize = 100

	playlistsPageSize = 50
	itemsPageSize     = 100
	trackURIPrefix    = "spotify:track:"
)

// Catalog is everything the request flows need from the music catalog.
type Catalog interface {
	CurrentUserPlaylists(ctx context.Context) ([]PlaylistSummary, error)
	PlaylistItems(ctx context.Context, playlistID string) ([]spotifyclient.PlaylistItem, error)
	GetTrack(ctx context.Context, trackID string) (*spotifyclient.FullTrack, error)
	GetArtist(ctx context.Context, artistID string) (*spotifyclient.FullArtist, error)
	SearchTrackURI(ctx context.Context, query string) (string, error)
	CreatePlaylist(ctx context.Context, name, description string) (string, error)
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}

var _ Catalog = (*Client)(nil)

// PlaylistSummary is the slice of a playlist the selection pages show.
type PlaylistSummary struct {
	ID          string
	Name        string
	Owner       string
	TotalTracks int
}

// Client wraps the catalog API for a single authenticated user.
type Client struct {
	api *spotifyclient.Client
}

// NewClient builds a Client over an HTTP client that already carries the
// user's OAuth token.
func NewClient(httpClient *http.Client, opts ...spotifyclient.ClientOption) *Client {
	return &Client{api: spotifyclient.New(httpClient, opts...)}
}

// CurrentUserPlaylists follows the paging cursor until every playlist is loaded.
func (c *Client) CurrentUserPlaylists(ctx context.Context) ([]PlaylistSummary, error) {
	log.Trace("Fetching current user's playlists from Spotify API")

	span := sentryhelper.StartSpan(ctx, "spotify.current_user_playlists", "List current user's playlists")
	defer span.Finish()

	page, err := c.api.CurrentUsersPlaylists(span.Context(), spotifyclient.Limit(playlistsPageSize))
	if err != nil {
		err = fmt.Errorf("listing playlists: %w", err)
		log.Errorf("Failed to fetch Spotify playlists: %v", err)
		sentryhelper.FinishSpan(span, err)
		return nil, err
	}

	var playlists []PlaylistSummary
	for {
		for _, p := range page.Playlists {
			playlists = append(playlists, PlaylistSummary{
				ID:          string(p.ID),
				Name:        p.Name,
				Owner:       p.Owner.DisplayName,
				TotalTracks: int(p.Tracks.Total),
			})
		}

		err = c.api.NextPage(span.Context(), page)
		if errors.Is(err, spotifyclient.ErrNoMorePages) {
			break
		}
		if err != nil {
			err = fmt.Errorf("listing playlists (offset %d): %w", len(playlists), err)
			log.Errorf("Failed to fetch Spotify playlists page: %v", err)
			sentryhelper.FinishSpan(span, err)
			return nil, err
		}
	}

	log.Debugf("Fetched %d playlists", len(playlists))
	span.SetData("playlists_count", len(playlists))
	sentryhelper.FinishSpan(span, nil)
	return playlists, nil
}

// PlaylistItems returns every raw item of a playlist. Items may hold no track
// (removed tracks, episodes); callers decide what to skip.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string) ([]spotifyclient.PlaylistItem, error) {
	log.Tracef("Fetching playlist items from Spotify API: %s", playlistID)

	span := sentryhelper.StartSpan(ctx, "spotify.get_playlist_items", "Get playlist items from Spotify API")
	span.SetTag("playlist_id", playlistID)
	defer span.Finish()

	page, err := c.api.GetPlaylistItems(span.Context(), spotifyclient.ID(playlistID), spotifyclient.Limit(itemsPageSize))
	if err != nil {
		err = fmt.Errorf("getting items of playlist %s: %w", playlistID, err)
		log.Errorf("Failed to fetch Spotify playlist items: %v", err)
		sentryhelper.FinishSpan(span, err)
		return nil, err
	}

	var items []spotifyclient.PlaylistItem
	for {
		items = append(items, page.Items...)

		err = c.api.NextPage(span.Context(), page)
		if errors.Is(err, spotifyclient.ErrNoMorePages) {
			break
		}
		if err != nil {
			err = fmt.Errorf("getting items of playlist %s (offset %d): %w", playlistID, len(items), err)
			log.Errorf("Failed to fetch Spotify playlist items page: %v", err)
			sentryhelper.FinishSpan(span, err)
			return nil, err
		}
	}

	log.Debugf("Fetched %d items from playlist %s", len(items), playlistID)
	span.SetData("items_count", len(items))
	sentryhelper.FinishSpan(span, nil)
	return items, nil
}

func (c *Client) GetTrack(ctx context.Context, trackID string) (*spotifyclient.FullTrack, error) {
	log.Tracef("Fetching track from Spotify API: %s", trackID)

	span := sentryhelper.StartSpan(ctx, "spotify.get_track", "Get track from Spotify API")
	span.SetTag("track_id", trackID)
	defer span.Finish()

	track, err := c.api.GetTrack(span.Context(), spotifyclient.ID(trackID))
	if err != nil {
		err = fmt.Errorf("getting track %s: %w", trackID, err)
		log.Errorf("Failed to fetch Spotify track: %v", err)
		sentryhelper.FinishSpan(span, err)
		return nil, err
	}

	sentryhelper.FinishSpan(span, nil)
	return track, nil
}

func (c *Client) GetArtist(ctx context.Context, artistID string) (*spotifyclient.FullArtist, error) {
	log.Tracef("Fetching artist from Spotify API: %s", artistID)

	span := sentryhelper.StartSpan(ctx, "spotify.get_artist", "Get artist from Spotify API")
	span.SetTag("artist_id", artistID)
	defer span.Finish()

	artist, err := c.api.GetArtist(span.Context(), spotifyclient.ID(artistID))
	if err != nil {
		err = fmt.Errorf("getting artist %s: %w", artistID, err)
		log.Errorf("Failed to fetch Spotify artist: %v", err)
		sentryhelper.FinishSpan(span, err)
		return nil, err
	}

	sentryhelper.FinishSpan(span, nil)
	return artist, nil
}

// SearchTrackURI returns the URI of the top track hit for query, or "" when
// the search finds nothing.
func (c *Client) SearchTrackURI(ctx context.Context, query string) (string, error) {
	span := sentryhelper.StartSpan(ctx, "spotify.search", "Search Spotify API")
	span.SetTag("query", query)
	defer span.Finish()

	results, err := c.api.Search(span.Context(), query, spotifyclient.SearchTypeTrack, spotifyclient.Limit(1))
	if err != nil {
		err = fmt.Errorf("searching %q: %w", query, err)
		sentryhelper.FinishSpan(span, err)
		return "", err
	}

	sentryhelper.FinishSpan(span, nil)
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		log.Debugf("No Spotify match for %q", query)
		return "", nil
	}
	return string(results.Tracks.Tracks[0].URI), nil
}

// CreatePlaylist creates a private playlist owned by the authenticated user
// and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	span := sentryhelper.StartSpan(ctx, "spotify.create_playlist", "Create playlist for current user")
	span.SetTag("playlist_name", name)
	defer span.Finish()

	user, err := c.api.CurrentUser(span.Context())
	if err != nil {
		err = fmt.Errorf("resolving current user: %w", err)
		sentryhelper.FinishSpan(span, err)
		return "", err
	}

	playlist, err := c.api.CreatePlaylistForUser(span.Context(), user.ID, name, description, false, false)
	if err != nil {
		err = fmt.Errorf("creating playlist: %w", err)
		log.Errorf("Failed to create playlist '%s': %v", name, err)
		sentryhelper.FinishSpan(span, err)
		return "", err
	}

	log.Infof("Created playlist '%s' (%s) for user %s", name, playlist.ID, user.ID)
	sentryhelper.FinishSpan(span, nil)
	return string(playlist.ID), nil
}

// AddTracks appends tracks in consecutive batches of AddTracksBatchSize.
// Batches already sent stay added when a later one fails.
func (c *Client) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	span := sentryhelper.StartSpan(ctx, "spotify.add_tracks", "Add tracks to playlist")
	span.SetTag("playlist_id", playlistID)
	span.SetData("tracks_count", len(trackIDs))
	defer span.Finish()

	ids := make([]spotifyclient.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotifyclient.ID(strings.TrimPrefix(id, trackURIPrefix))
	}

	for i := 0; i < len(ids); i += AddTracksBatchSize {
		end := min(i+AddTracksBatchSize, len(ids))

		if _, err := c.api.AddTracksToPlaylist(span.Context(), spotifyclient.ID(playlistID), ids[i:end]...); err != nil {
			err = fmt.Errorf("adding tracks (batch %d-%d): %w", i+1, end, err)
			log.Errorf("Failed to add tracks to playlist %s: %v", playlistID, err)
			sentryhelper.FinishSpan(span, err)
			return err
		}
	}

	log.Debugf("Added %d tracks to playlist %s", len(ids), playlistID)
	sentryhelper.FinishSpan(span, nil)
	return nil
}
