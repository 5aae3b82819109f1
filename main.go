package main

import (
	"context"
	"errors"
	"net/http"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"sortify/config"
	"sortify/database"
	"sortify/gemini"
	"sortify/handlers"
	"sortify/recommend"
	"sortify/sentry"
	"sortify/spotify"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warnf("Error loading .env file: %v", err)
	}
	cfg := config.NewConfig()
	setupLogging(&cfg.Options)

	sentry.Init(&cfg.Sentry)
	defer sentry.Flush()

	if err := run(context.Background(), cfg); err != nil {
		log.Fatal(err)
	}
}

func setupLogging(opts *config.Options) {
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		FieldsOrder:     []string{"component"},
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", opts.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func run(ctx context.Context, cfg *config.ConfigStruct) error {
	if !cfg.Spotify.IsConfigured() {
		log.Warn("SPOTIFY_CLIENT_ID or SPOTIFY_CLIENT_SECRET not set, login will fail")
	}

	var store spotify.TokenStore
	if cfg.Session.IsPersistent() {
		db, err := database.New(cfg.Session.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
	}

	session := spotify.NewSession(&cfg.Spotify, store)
	if err := session.Restore(ctx); err != nil {
		return err
	}

	var model recommend.Generator
	client, err := gemini.New(ctx, &cfg.Gemini)
	switch {
	case err == nil:
		model = client
	case errors.Is(err, gemini.ErrNotConfigured):
		log.Warn("GEMINI_API_KEY not set, playlist generation is disabled")
	default:
		return err
	}

	router := gin.Default()
	router.Use(sentry.Middleware())
	handlers.NewManager(session, model, &cfg.Options).Register(router)

	port := cfg.Options.Port
	log.Infof("Starting server on :%s", port)
	return http.ListenAndServe(":"+port, router)
}
