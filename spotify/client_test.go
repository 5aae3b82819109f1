package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	spotifyclient "github.com/zmb3/spotify/v2"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), spotifyclient.WithBaseURL(srv.URL+"/"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCurrentUserPlaylistsFollowsNextPage(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/me/playlists", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "2" {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "p3", "name": "Third", "tracks": map[string]interface{}{"total": 7}},
				},
				"next": "",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": "p1", "name": "First", "owner": map[string]interface{}{"display_name": "me"}, "tracks": map[string]interface{}{"total": 3}},
				{"id": "p2", "name": "Second", "tracks": map[string]interface{}{"total": 0}},
			},
			"next": srvURL + "/me/playlists?offset=2&limit=2",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL
	client := NewClient(srv.Client(), spotifyclient.WithBaseURL(srv.URL+"/"))

	got, err := client.CurrentUserPlaylists(context.Background())
	if err != nil {
		t.Fatalf("CurrentUserPlaylists() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("CurrentUserPlaylists() returned %d playlists, want 3", len(got))
	}
	want := []PlaylistSummary{
		{ID: "p1", Name: "First", Owner: "me", TotalTracks: 3},
		{ID: "p2", Name: "Second"},
		{ID: "p3", Name: "Third", TotalTracks: 7},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("playlist %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPlaylistItemsFollowsNextPage(t *testing.T) {
	var srvURL string
	track := func(id string) map[string]interface{} {
		return map[string]interface{}{"id": id, "name": "Song " + id, "type": "track", "track": true}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/playlists/pl1/tracks", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "100" {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"items": []map[string]interface{}{{"track": track("t3")}},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items": []map[string]interface{}{
				{"track": track("t1")},
				{"track": nil},
				{"track": track("t2")},
			},
			"next": srvURL + "/playlists/pl1/tracks?offset=100&limit=100",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL
	client := NewClient(srv.Client(), spotifyclient.WithBaseURL(srv.URL+"/"))

	items, err := client.PlaylistItems(context.Background(), "pl1")
	if err != nil {
		t.Fatalf("PlaylistItems() error = %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("PlaylistItems() returned %d items, want 4", len(items))
	}
	if items[1].Track.Track != nil {
		t.Errorf("item 1 should carry no track, got %+v", items[1].Track.Track)
	}
	if items[3].Track.Track == nil || items[3].Track.Track.ID != "t3" {
		t.Errorf("item 3 = %+v, want track t3", items[3].Track.Track)
	}
}

func TestSearchTrackURI(t *testing.T) {
	var gotQuery, gotLimit string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		if strings.Contains(gotQuery, "nothing") {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"tracks": map[string]interface{}{"items": []interface{}{}},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"tracks": map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "abc", "uri": "spotify:track:abc", "name": "Hey Jude"},
				},
			},
		})
	}))

	uri, err := client.SearchTrackURI(context.Background(), "Hey Jude The Beatles")
	if err != nil {
		t.Fatalf("SearchTrackURI() error = %v", err)
	}
	if uri != "spotify:track:abc" {
		t.Errorf("SearchTrackURI() = %q, want spotify:track:abc", uri)
	}
	if gotQuery != "Hey Jude The Beatles" || gotLimit != "1" {
		t.Errorf("search sent q=%q limit=%q", gotQuery, gotLimit)
	}

	uri, err = client.SearchTrackURI(context.Background(), "nothing here")
	if err != nil {
		t.Fatalf("SearchTrackURI() error = %v", err)
	}
	if uri != "" {
		t.Errorf("SearchTrackURI() = %q, want empty", uri)
	}
}

type playlistRecorder struct {
	mu      sync.Mutex
	created map[string]interface{}
	batches [][]string
	failAt  int
}

func (p *playlistRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/me":
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": "user1", "display_name": "User"})

	case r.Method == http.MethodPost && r.URL.Path == "/users/user1/playlists":
		_ = json.NewDecoder(r.Body).Decode(&p.created)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"id": "newpl", "name": p.created["name"]})

	case r.Method == http.MethodPost && r.URL.Path == "/playlists/newpl/tracks":
		if p.failAt > 0 && len(p.batches)+1 == p.failAt {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error": map[string]interface{}{"status": 400, "message": "bad batch"},
			})
			return
		}
		var body struct {
			URIs []string `json:"uris"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		p.batches = append(p.batches, body.URIs)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"snapshot_id": fmt.Sprintf("snap%d", len(p.batches))})

	default:
		http.NotFound(w, r)
	}
}

func TestCreatePlaylistIsPrivate(t *testing.T) {
	rec := &playlistRecorder{}
	client := newTestClient(t, rec)

	id, err := client.CreatePlaylist(context.Background(), "Sorted", "Sorted by popularity")
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}
	if id != "newpl" {
		t.Errorf("CreatePlaylist() = %q, want newpl", id)
	}
	if rec.created["name"] != "Sorted" || rec.created["description"] != "Sorted by popularity" {
		t.Errorf("created body = %v", rec.created)
	}
	if rec.created["public"] != false {
		t.Errorf("public = %v, want false", rec.created["public"])
	}
}

func TestAddTracksBatchesOf100(t *testing.T) {
	rec := &playlistRecorder{}
	client := newTestClient(t, rec)

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%03d", i)
	}

	if err := client.AddTracks(context.Background(), "newpl", ids); err != nil {
		t.Fatalf("AddTracks() error = %v", err)
	}

	if len(rec.batches) != 3 {
		t.Fatalf("AddTracks() sent %d batches, want 3", len(rec.batches))
	}
	for i, want := range []int{100, 100, 50} {
		if len(rec.batches[i]) != want {
			t.Errorf("batch %d size = %d, want %d", i, len(rec.batches[i]), want)
		}
	}
	if rec.batches[0][0] != "spotify:track:t000" || rec.batches[2][49] != "spotify:track:t249" {
		t.Errorf("batches out of order: first=%s last=%s", rec.batches[0][0], rec.batches[2][49])
	}
}

func TestAddTracksAcceptsURIs(t *testing.T) {
	rec := &playlistRecorder{}
	client := newTestClient(t, rec)

	err := client.AddTracks(context.Background(), "newpl", []string{"spotify:track:abc", "def"})
	if err != nil {
		t.Fatalf("AddTracks() error = %v", err)
	}
	if len(rec.batches) != 1 {
		t.Fatalf("AddTracks() sent %d batches, want 1", len(rec.batches))
	}
	if rec.batches[0][0] != "spotify:track:abc" || rec.batches[0][1] != "spotify:track:def" {
		t.Errorf("batch = %v", rec.batches[0])
	}
}

func TestAddTracksKeepsEarlierBatchesOnFailure(t *testing.T) {
	rec := &playlistRecorder{failAt: 2}
	client := newTestClient(t, rec)

	ids := make([]string, 150)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%03d", i)
	}

	err := client.AddTracks(context.Background(), "newpl", ids)
	if err == nil {
		t.Fatal("AddTracks() should fail on the second batch")
	}
	if !strings.Contains(err.Error(), "batch 101-150") {
		t.Errorf("error = %v, want batch range", err)
	}
	if len(rec.batches) != 1 || len(rec.batches[0]) != 100 {
		t.Errorf("first batch should stay added, got %d batches", len(rec.batches))
	}
}

func TestAddTracksEmpty(t *testing.T) {
	rec := &playlistRecorder{}
	client := newTestClient(t, rec)

	if err := client.AddTracks(context.Background(), "newpl", nil); err != nil {
		t.Fatalf("AddTracks(nil) error = %v", err)
	}
	if len(rec.batches) != 0 {
		t.Errorf("AddTracks(nil) sent %d batches", len(rec.batches))
	}
}
