package gemini

import "google.golang.org/genai"

// PlaylistSchema is the response schema matching recommend.Suggestion.
func PlaylistSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"playlist_name":        {Type: genai.TypeString},
			"playlist_description": {Type: genai.TypeString},
			"songs": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"songname": {Type: genai.TypeString},
						"artists": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"songname", "artists"},
				},
			},
		},
		Required:         []string{"songs", "playlist_name"},
		PropertyOrdering: []string{"playlist_name", "playlist_description", "songs"},
	}
}
