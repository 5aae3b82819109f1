package sentry

import (
	"time"

	sentry "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"sortify/config"
)

// Init configures the global Sentry client. With no DSN configured the SDK
// still initialises but drops every event.
func Init(cfg *config.SentryConfig) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Release:          cfg.Release,
		EnableTracing:    cfg.IsEnabled(),
		TracesSampleRate: 1.0,
	}); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	if !cfg.IsEnabled() {
		log.Debug("Sentry DSN not set, error reporting disabled")
	}
}

// Flush waits for buffered events before shutdown.
func Flush() {
	sentry.Flush(2 * time.Second)
}

// Middleware clones a hub per request and installs it on the request context.
func Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}
