package pages

import (
	"bytes"
	"strings"
	"testing"
)

type playlist struct {
	ID          string
	Name        string
	TotalTracks int
}

type genre struct {
	Genre string
	Count int
}

func TestTemplatesRender(t *testing.T) {
	playlists := []playlist{{ID: "pl1", Name: "Road <Trip>", TotalTracks: 12}}

	tests := []struct {
		view string
		data interface{}
		want []string
	}{
		{Index, nil, []string{`action="/choose"`, `value="3"`, `href="/login"`}},
		{ChooseOption, map[string]interface{}{"Playlists": playlists}, []string{`value="pl1"`, "Road &lt;Trip&gt; (12 tracks)", `value="genre"`, `name="playlist_link"`}},
		{Option1Genre, map[string]interface{}{
			"TopGenres":       []genre{{"indie", 3}, {"rock", 1}},
			"PlaylistID":      "pl1",
			"NewPlaylistName": "Mine",
		}, []string{"indie (3)", "rock (1)", `name="playlist_id" value="pl1"`, `value="Mine"`}},
		{Option1Genre, map[string]interface{}{"PlaylistID": "pl1"}, []string{"No genres found"}},
		{Option2Form, map[string]interface{}{"DefaultSongCount": 10}, []string{`action="/option2"`, `value="10"`, `name="description"`}},
		{Option3Select, map[string]interface{}{"Playlists": playlists}, []string{`action="/option3"`, `value="pl1"`}},
		{Success, map[string]interface{}{"Message": "New playlist created: A & B"}, []string{"New playlist created: A &amp; B"}},
	}

	tmpl := Templates()
	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tmpl.ExecuteTemplate(&buf, tt.view, tt.data); err != nil {
				t.Fatalf("ExecuteTemplate(%s) error = %v", tt.view, err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("%s output missing %q:\n%s", tt.view, want, out)
				}
			}
		})
	}
}
