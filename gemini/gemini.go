// Package gemini implements recommend.Generator on top of the Gemini API,
// constraining replies to the playlist JSON schema.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"sortify/config"
	"sortify/recommend"
	"sortify/sentryhelper"
)

var ErrNotConfigured = errors.New("gemini api key is not set")

type Client struct {
	models *genai.Models
	model  string
}

var _ recommend.Generator = (*Client)(nil)

// Option adjusts the underlying client config.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(url string) Option {
	return func(cc *genai.ClientConfig) {
		cc.HTTPOptions.BaseURL = url
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(cc *genai.ClientConfig) {
		cc.HTTPClient = c
	}
}

func New(ctx context.Context, cfg *config.GeminiConfig, opts ...Option) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, ErrNotConfigured
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	log.WithField("component", "gemini").Infof("Using model %s", cfg.Model)
	return &Client{models: client.Models, model: cfg.Model}, nil
}

// GeneratePlaylist sends one structured generation request and validates the reply.
func (c *Client) GeneratePlaylist(ctx context.Context, prompt recommend.Prompt) (*recommend.Suggestion, error) {
	logger := log.WithField("component", "gemini")
	span := sentryhelper.StartSpan(ctx, "gemini.generate", c.model)
	defer span.Finish()

	generation := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](1),
		ResponseMIMEType: "application/json",
		ResponseSchema:   PlaylistSchema(),
	}
	if prompt.System != "" {
		generation.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	logger.Tracef("Generating playlist with %s", c.model)
	resp, err := c.models.GenerateContent(span.Context(), c.model, genai.Text(prompt.User), generation)
	if err != nil {
		err = fmt.Errorf("generating playlist: %w", err)
		logger.Errorf("%v", err)
		sentryhelper.FinishSpan(span, err)
		return nil, err
	}

	suggestion, err := recommend.ParseSuggestion(resp.Text())
	if err != nil {
		logger.Errorf("Model reply rejected: %v", err)
		sentryhelper.FinishSpan(span, err)
		return nil, err
	}

	logger.Debugf("Model suggested %q with %d songs", suggestion.PlaylistName, len(suggestion.Songs))
	sentryhelper.FinishSpan(span, nil)
	return suggestion, nil
}
