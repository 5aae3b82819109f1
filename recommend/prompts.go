package recommend

import (
	"encoding/json"
	"fmt"

	"sortify/tracks"
)

const (
	descriptionSystem = "You are MusicGPT, the world's best music recommendation AI. You will recommend songs based on a user's description."
	playlistSystem    = "You are MusicGPT, the best music recommendation AI."
)

type briefTrack struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artist     string   `json:"artist"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

// DescriptionPrompt asks for numSongs songs fitting description under a
// creative playlist name.
func DescriptionPrompt(numSongs int, description string) Prompt {
	return Prompt{
		System: descriptionSystem,
		User: fmt.Sprintf(
			"Create a playlist with %d songs that fits the following description: '''%s'''. "+
				"Come up with a creative and unique name for the playlist.",
			numSongs, description),
	}
}

// PlaylistPrompt embeds a compact projection of the tracks and asks for
// PlaylistSongs recommendations.
func PlaylistPrompt(playlist []tracks.EnrichedTrack) (Prompt, error) {
	brief := make([]briefTrack, len(playlist))
	for i, t := range playlist {
		genres := t.Genres
		if genres == nil {
			genres = []string{}
		}
		brief[i] = briefTrack{
			ID:         t.ID,
			Name:       t.Name,
			Artist:     t.Artist,
			Genres:     genres,
			Popularity: t.Popularity,
		}
	}

	data, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		return Prompt{}, fmt.Errorf("encoding playlist for prompt: %w", err)
	}

	return Prompt{
		System: playlistSystem,
		User: "You are an assistant that makes music recommendations. " +
			"Below is a list of tracks (with name, artist, genres, and popularity) from a user's playlist:\n" +
			string(data) + "\n\n" +
			fmt.Sprintf("Based on these tracks, recommend %d songs. Give the playlist a name and a short description.", PlaylistSongs),
	}, nil
}
