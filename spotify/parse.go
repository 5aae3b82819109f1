package spotify

import (
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
)

var ErrInvalidPlaylist = errors.New("invalid Spotify playlist")

// ParsePlaylistID accepts a bare playlist id, a spotify:playlist: URI or an
// open.spotify.com playlist link and returns the id.
func ParsePlaylistID(input string) (string, error) {
	input = strings.TrimSpace(input)

	switch {
	case input == "":
		return "", ErrInvalidPlaylist

	case strings.HasPrefix(input, "https://open.spotify.com/"):
		parts := strings.Split(input, "/")
		if len(parts) < 5 {
			log.Warnf("Invalid Spotify URL format (too few parts): %s", input)
			return "", ErrInvalidPlaylist
		}
		if parts[3] != "playlist" {
			log.Warnf("Spotify URL is not a playlist: %s", input)
			return "", ErrInvalidPlaylist
		}

		// Strip query parameters from ID (e.g., ?si=tracking_id)
		id := strings.Split(parts[4], "?")[0]
		if id == "" {
			return "", ErrInvalidPlaylist
		}
		log.Tracef("Parsed Spotify playlist URL: %s", id)
		return id, nil

	case strings.HasPrefix(input, "spotify:playlist:"):
		id := strings.TrimPrefix(input, "spotify:playlist:")
		if id == "" {
			return "", ErrInvalidPlaylist
		}
		return id, nil

	case strings.ContainsAny(input, ":/?"):
		log.Warnf("Unrecognised playlist reference: %s", input)
		return "", ErrInvalidPlaylist
	}

	return input, nil
}
