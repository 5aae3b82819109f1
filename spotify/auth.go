package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	spotifyclient "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"sortify/config"
)

const tokenProvider = "spotify"

var (
	ErrNotAuthenticated = errors.New("not logged in to Spotify")
	ErrStateMismatch    = errors.New("oauth state mismatch")
)

// Scopes cover reading private playlists and creating or editing playlists.
var Scopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopePlaylistModifyPublic,
}

// TokenStore persists the user's token between restarts.
type TokenStore interface {
	SaveToken(provider string, token *oauth2.Token) error
	LoadToken(provider string) (*oauth2.Token, error)
	DeleteToken(provider string) error
}

// Session is the process-wide login to the catalog. It is the only state the
// request handlers share.
type Session struct {
	auth       *spotifyauth.Authenticator
	store      TokenStore
	clientOpts []spotifyclient.ClientOption

	mu     sync.RWMutex
	state  string
	client *Client
}

// NewSession prepares the authorization-code flow. store may be nil, in which
// case the token lives only as long as the process.
func NewSession(cfg *config.SpotifyConfig, store TokenStore, opts ...spotifyclient.ClientOption) *Session {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(Scopes...),
	)
	return &Session{
		auth:       auth,
		store:      store,
		clientOpts: opts,
	}
}

// Restore installs a previously stored token, if there is one. A missing
// token is not an error.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	token, err := s.store.LoadToken(tokenProvider)
	if err != nil {
		log.Debugf("No stored Spotify token: %v", err)
		return nil
	}

	s.install(ctx, token)
	log.Info("Restored Spotify session from stored token")
	return nil
}

// AuthURL starts a login and returns the authorize URL to redirect to.
func (s *Session) AuthURL() string {
	state := uuid.NewString()

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	return s.auth.AuthURL(state)
}

// Complete handles the redirect back from the authorize page.
func (s *Session) Complete(ctx context.Context, r *http.Request) error {
	s.mu.RLock()
	expected := s.state
	s.mu.RUnlock()

	if expected == "" || r.FormValue("state") != expected {
		return ErrStateMismatch
	}

	token, err := s.auth.Token(ctx, expected, r)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	if s.store != nil {
		if err := s.store.SaveToken(tokenProvider, token); err != nil {
			log.Warnf("Failed to persist Spotify token: %v", err)
		}
	}

	s.install(ctx, token)

	s.mu.Lock()
	s.state = ""
	s.mu.Unlock()

	log.Info("Spotify login completed")
	return nil
}

// Catalog returns the authenticated catalog client.
func (s *Session) Catalog() (Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.client == nil {
		return nil, ErrNotAuthenticated
	}
	return s.client, nil
}

// Logout drops the authenticated client and forgets the stored token.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.client = nil
	s.state = ""
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.DeleteToken(tokenProvider); err != nil {
		return fmt.Errorf("forgetting Spotify token: %w", err)
	}
	log.Info("Spotify session cleared")
	return nil
}

func (s *Session) install(ctx context.Context, token *oauth2.Token) {
	// The token source refreshes with this context long after the request ends.
	httpClient := s.auth.Client(context.WithoutCancel(ctx), token)
	client := NewClient(httpClient, s.clientOpts...)

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
}
