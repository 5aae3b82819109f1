package handlers

// handlers are the gin routes behind the playlist forms. Each one collects
// form input, runs the catalog and model calls synchronously and renders a page.

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"sortify/config"
	"sortify/helpers"
	"sortify/pages"
	"sortify/recommend"
	"sortify/sentryhelper"
	"sortify/spotify"
	"sortify/tracks"
)

const (
	defaultCopyName   = "New Playlist"
	defaultGenreName  = "Genre Filtered Playlist"
	defaultAIName     = "AI Playlist"
	defaultRecommName = "Recommended Playlist"

	descriptionByRelease    = "Sorted by release date"
	descriptionByPopularity = "Sorted by popularity"
	descriptionByGenre      = "Filtered by Genre"

	noDescriptionTracks = "No tracks found or returned by the model"
	noPlaylistTracks    = "No recommended tracks found"
)

var ErrNoModel = errors.New("no recommendation model configured")

// Session is the catalog login shared by every request.
type Session interface {
	AuthURL() string
	Complete(ctx context.Context, r *http.Request) error
	Logout() error
	Catalog() (spotify.Catalog, error)
}

type Manager struct {
	Session          Session
	Model            recommend.Generator
	DefaultSongCount int
}

// NewManager wires the handlers. model may be nil, in which case the
// generation flows fail with ErrNoModel.
func NewManager(session Session, model recommend.Generator, opts *config.Options) *Manager {
	songs := recommend.DefaultSongs
	if opts != nil && opts.DefaultSongCount > 0 {
		songs = opts.DefaultSongCount
	}
	return &Manager{
		Session:          session,
		Model:            model,
		DefaultSongCount: songs,
	}
}

// Register installs the views and every route on router.
func (m *Manager) Register(router *gin.Engine) {
	router.SetHTMLTemplate(pages.Templates())

	router.GET("/", m.handleIndex)
	router.GET("/login", m.handleLogin)
	router.GET("/callback", m.handleCallback)
	router.GET("/logout", m.handleLogout)

	router.POST("/choose", m.handleChoose)
	router.POST("/option1", m.handleOption1)
	router.POST("/option1genre", m.handleOption1Genre)
	router.POST("/option2", m.handleOption2)
	router.POST("/option3", m.handleOption3)
}

func (m *Manager) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, pages.Index, nil)
}

func (m *Manager) handleLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, m.Session.AuthURL())
}

func (m *Manager) handleCallback(c *gin.Context) {
	if err := m.Session.Complete(c.Request.Context(), c.Request); err != nil {
		if errors.Is(err, spotify.ErrStateMismatch) {
			log.Warnf("Rejected OAuth callback: %v", err)
			c.String(http.StatusBadRequest, "Invalid login state.")
			return
		}
		m.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (m *Manager) handleLogout(c *gin.Context) {
	if err := m.Session.Logout(); err != nil {
		m.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (m *Manager) handleChoose(c *gin.Context) {
	var view string
	switch c.PostForm("option") {
	case "1":
		view = pages.ChooseOption
	case "2":
		c.HTML(http.StatusOK, pages.Option2Form, gin.H{"DefaultSongCount": m.DefaultSongCount})
		return
	case "3":
		view = pages.Option3Select
	default:
		c.String(http.StatusOK, "Invalid choice.")
		return
	}

	catalog, ok := m.catalog(c)
	if !ok {
		return
	}
	playlists, err := catalog.CurrentUserPlaylists(c.Request.Context())
	if err != nil {
		m.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, view, gin.H{"Playlists": playlists})
}

func (m *Manager) handleOption1(c *gin.Context) {
	action := c.PostForm("action")
	switch action {
	case "release", "popularity", "genre":
	default:
		c.String(http.StatusOK, "Invalid action.")
		return
	}

	catalog, ok := m.catalog(c)
	if !ok {
		return
	}
	playlistID, ok := m.playlistID(c)
	if !ok {
		return
	}
	name := helpers.OrDefault(c.DefaultPostForm("new_playlist_name", defaultCopyName), defaultCopyName)

	ctx := c.Request.Context()
	enriched, err := m.loadTracks(ctx, catalog, playlistID)
	if err != nil {
		m.fail(c, err)
		return
	}

	var ids []string
	var description string
	switch action {
	case "release":
		ids, err = tracks.SortByReleaseDate(enriched)
		if err != nil {
			m.fail(c, err)
			return
		}
		description = descriptionByRelease
	case "popularity":
		ids = tracks.SortByPopularity(enriched)
		description = descriptionByPopularity
	case "genre":
		c.HTML(http.StatusOK, pages.Option1Genre, gin.H{
			"TopGenres":       tracks.TopGenres(enriched, tracks.TopGenreCount),
			"PlaylistID":      playlistID,
			"NewPlaylistName": name,
		})
		return
	}

	if err := m.copyPlaylist(ctx, catalog, name, description, ids); err != nil {
		m.fail(c, err)
		return
	}
	m.success(c, name, 0)
}

func (m *Manager) handleOption1Genre(c *gin.Context) {
	catalog, ok := m.catalog(c)
	if !ok {
		return
	}
	playlistID, ok := m.playlistID(c)
	if !ok {
		return
	}
	name := helpers.OrDefault(c.DefaultPostForm("new_playlist_name", defaultGenreName), defaultGenreName)
	chosen := helpers.ParseGenres(c.PostForm("genres"))

	ctx := c.Request.Context()
	enriched, err := m.loadTracks(ctx, catalog, playlistID)
	if err != nil {
		m.fail(c, err)
		return
	}

	ids := tracks.FilterByGenre(enriched, chosen)
	log.Debugf("Genre filter %v kept %d of %d tracks", chosen, len(ids), len(enriched))

	if err := m.copyPlaylist(ctx, catalog, name, descriptionByGenre, ids); err != nil {
		m.fail(c, err)
		return
	}
	m.success(c, name, 0)
}

func (m *Manager) handleOption2(c *gin.Context) {
	catalog, ok := m.catalog(c)
	if !ok {
		return
	}
	numSongs := helpers.ParseSongCount(c.PostForm("num_songs"), recommend.DefaultSongs, recommend.MaxSongs)
	description := c.PostForm("description")
	override := c.DefaultPostForm("new_playlist_name", defaultAIName)

	ctx := c.Request.Context()
	recommender, err := m.recommender(catalog)
	if err != nil {
		m.fail(c, err)
		return
	}
	result, err := recommender.FromDescription(ctx, numSongs, description)
	if err != nil {
		m.fail(c, err)
		return
	}

	m.createFromResult(c, catalog, result, override, noDescriptionTracks)
}

func (m *Manager) handleOption3(c *gin.Context) {
	catalog, ok := m.catalog(c)
	if !ok {
		return
	}
	playlistID, ok := m.playlistID(c)
	if !ok {
		return
	}
	override := c.DefaultPostForm("new_playlist_name", defaultRecommName)

	ctx := c.Request.Context()
	enriched, err := m.loadTracks(ctx, catalog, playlistID)
	if err != nil {
		m.fail(c, err)
		return
	}

	recommender, err := m.recommender(catalog)
	if err != nil {
		m.fail(c, err)
		return
	}
	result, err := recommender.FromPlaylist(ctx, enriched)
	if err != nil {
		m.fail(c, err)
		return
	}

	m.createFromResult(c, catalog, result, override, noPlaylistTracks)
}

// createFromResult creates the generated playlist, or reports emptyMessage
// when no suggested song resolved. A non-blank override replaces the model's name.
func (m *Manager) createFromResult(c *gin.Context, catalog spotify.Catalog, result *recommend.Result, override, emptyMessage string) {
	if len(result.SongURIs) == 0 {
		c.HTML(http.StatusOK, pages.Success, gin.H{"Message": emptyMessage})
		return
	}

	name := helpers.OrDefault(override, result.PlaylistName)
	if err := m.copyPlaylist(c.Request.Context(), catalog, name, result.PlaylistDescription, result.SongURIs); err != nil {
		m.fail(c, err)
		return
	}
	m.success(c, name, result.Unresolved)
}

func (m *Manager) copyPlaylist(ctx context.Context, catalog spotify.Catalog, name, description string, ids []string) error {
	playlistID, err := catalog.CreatePlaylist(ctx, name, description)
	if err != nil {
		return err
	}
	sentryhelper.AddBreadcrumb(ctx, "playlist", fmt.Sprintf("created %s with %d tracks", playlistID, len(ids)))
	return catalog.AddTracks(ctx, playlistID, ids)
}

func (m *Manager) loadTracks(ctx context.Context, catalog spotify.Catalog, playlistID string) ([]tracks.EnrichedTrack, error) {
	items, err := catalog.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	return tracks.Enrich(ctx, catalog, items)
}

func (m *Manager) recommender(catalog spotify.Catalog) (*recommend.Recommender, error) {
	if m.Model == nil {
		return nil, ErrNoModel
	}
	return recommend.New(m.Model, catalog), nil
}

// catalog returns the logged-in catalog, redirecting to the login page when
// there is none.
func (m *Manager) catalog(c *gin.Context) (spotify.Catalog, bool) {
	catalog, err := m.Session.Catalog()
	if err != nil {
		if errors.Is(err, spotify.ErrNotAuthenticated) {
			c.Redirect(http.StatusSeeOther, "/login")
			return nil, false
		}
		m.fail(c, err)
		return nil, false
	}
	return catalog, true
}

// playlistID takes a pasted link over the selected playlist.
func (m *Manager) playlistID(c *gin.Context) (string, bool) {
	raw := c.PostForm("playlist_link")
	if raw == "" {
		raw = c.PostForm("playlist_id")
	}
	id, err := spotify.ParsePlaylistID(raw)
	if err != nil {
		log.Debugf("Rejected playlist %q: %v", raw, err)
		c.String(http.StatusBadRequest, "Invalid playlist.")
		return "", false
	}
	return id, true
}

func (m *Manager) success(c *gin.Context, name string, unresolved int) {
	message := fmt.Sprintf("New playlist created: %s", name)
	if unresolved > 0 {
		message += fmt.Sprintf(" (%d suggested songs were not found)", unresolved)
	}
	c.HTML(http.StatusOK, pages.Success, gin.H{"Message": message})
}

func (m *Manager) fail(c *gin.Context, err error) {
	log.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	sentryhelper.CaptureException(c.Request.Context(), err)
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}
