// Package recommend asks a generative model for playlist suggestions and
// resolves the suggested songs back to catalog URIs.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"sortify/sentryhelper"
	"sortify/tracks"
)

const (
	MaxSongs     = 50
	DefaultSongs = 10

	// PlaylistSongs is how many songs a playlist-driven recommendation asks for.
	PlaylistSongs = 20

	NamePrefix         = "AI - "
	DefaultDescription = "Generated by AI"
)

// ErrMalformedReply marks a model reply that does not fit the playlist schema.
var ErrMalformedReply = errors.New("malformed model reply")

// Prompt is what gets sent to the model.
type Prompt struct {
	System string
	User   string
}

// Song is one recommended song as named by the model.
type Song struct {
	SongName string   `json:"songname"`
	Artists  []string `json:"artists"`
}

// Suggestion is a validated model reply.
type Suggestion struct {
	PlaylistName        string `json:"playlist_name"`
	PlaylistDescription string `json:"playlist_description"`
	Songs               []Song `json:"songs"`
}

// Generator produces a playlist suggestion for a prompt.
type Generator interface {
	GeneratePlaylist(ctx context.Context, prompt Prompt) (*Suggestion, error)
}

// Searcher resolves a free-text query to the URI of the best matching track.
// An empty URI with a nil error means no match.
type Searcher interface {
	SearchTrackURI(ctx context.Context, query string) (string, error)
}

// Result is a suggestion resolved against the catalog.
type Result struct {
	PlaylistName        string
	PlaylistDescription string
	SongURIs            []string
	// Unresolved counts suggested songs the catalog search did not find.
	Unresolved int
}

type Recommender struct {
	model    Generator
	searcher Searcher
}

func New(model Generator, searcher Searcher) *Recommender {
	return &Recommender{model: model, searcher: searcher}
}

// ClampSongCount bounds a requested song count to [1, MaxSongs]; anything
// below one becomes DefaultSongs.
func ClampSongCount(n int) int {
	if n < 1 {
		return DefaultSongs
	}
	if n > MaxSongs {
		return MaxSongs
	}
	return n
}

// FromDescription asks for numSongs songs matching a free-text description.
func (r *Recommender) FromDescription(ctx context.Context, numSongs int, description string) (*Result, error) {
	return r.recommend(ctx, DescriptionPrompt(ClampSongCount(numSongs), description))
}

// FromPlaylist asks for songs in the spirit of an existing playlist.
func (r *Recommender) FromPlaylist(ctx context.Context, playlist []tracks.EnrichedTrack) (*Result, error) {
	prompt, err := PlaylistPrompt(playlist)
	if err != nil {
		return nil, err
	}
	return r.recommend(ctx, prompt)
}

func (r *Recommender) recommend(ctx context.Context, prompt Prompt) (*Result, error) {
	logger := log.WithField("component", "recommend")

	suggestion, err := r.model.GeneratePlaylist(ctx, prompt)
	if err != nil {
		return nil, err
	}
	sentryhelper.AddBreadcrumb(ctx, "recommend", fmt.Sprintf("model suggested %d songs", len(suggestion.Songs)))

	result := &Result{
		PlaylistName:        NamePrefix + suggestion.PlaylistName,
		PlaylistDescription: suggestion.PlaylistDescription,
		SongURIs:            []string{},
	}
	if strings.TrimSpace(result.PlaylistDescription) == "" {
		result.PlaylistDescription = DefaultDescription
	}

	for _, song := range suggestion.Songs {
		uri, err := r.searcher.SearchTrackURI(ctx, SearchQuery(song))
		if err != nil {
			return nil, err
		}
		if uri == "" {
			result.Unresolved++
			continue
		}
		result.SongURIs = append(result.SongURIs, uri)
	}

	logger.Debugf("Resolved %d of %d suggested songs", len(result.SongURIs), len(suggestion.Songs))
	return result, nil
}

// SearchQuery is the catalog query for a suggested song: its name followed by
// the comma-separated artists.
func SearchQuery(song Song) string {
	return fmt.Sprintf("%s %s", song.SongName, strings.Join(song.Artists, ", "))
}

// ParseSuggestion decodes and validates a raw JSON model reply.
func ParseSuggestion(raw string) (*Suggestion, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var s Suggestion
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the fields the schema marks as required.
func (s *Suggestion) Validate() error {
	if strings.TrimSpace(s.PlaylistName) == "" {
		return fmt.Errorf("%w: missing playlist_name", ErrMalformedReply)
	}
	if s.Songs == nil {
		return fmt.Errorf("%w: missing songs", ErrMalformedReply)
	}
	for i, song := range s.Songs {
		if strings.TrimSpace(song.SongName) == "" {
			return fmt.Errorf("%w: song %d has no songname", ErrMalformedReply, i)
		}
		if song.Artists == nil {
			return fmt.Errorf("%w: song %d has no artists", ErrMalformedReply, i)
		}
	}
	return nil
}
