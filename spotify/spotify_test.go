package spotify

import (
	"testing"
)

func TestParsePlaylistID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare id",
			input: "37i9dQZF1DXcBWIGoYBM5M",
			want:  "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:  "bare id with whitespace",
			input: "  37i9dQZF1DXcBWIGoYBM5M\n",
			want:  "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:  "playlist url",
			input: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			want:  "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:  "playlist url with si query",
			input: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			want:  "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:  "playlist uri",
			input: "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			want:  "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:    "track url",
			input:   "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b",
			wantErr: true,
		},
		{
			name:    "missing id",
			input:   "https://open.spotify.com/playlist/",
			wantErr: true,
		},
		{
			name:    "too few parts",
			input:   "https://open.spotify.com/playlist",
			wantErr: true,
		},
		{
			name:    "other domain",
			input:   "https://example.com/playlist/abc",
			wantErr: true,
		},
		{
			name:    "empty uri id",
			input:   "spotify:playlist:",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlaylistID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePlaylistID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("ParsePlaylistID() = %v, want %v", got, tt.want)
			}
		})
	}
}
