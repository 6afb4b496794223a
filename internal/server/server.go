// Package server exposes the Workdeck store over a local JSON HTTP API,
// the surface the desktop shell talks to.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workdeck/workdeck/internal/db"
	"gorm.io/gorm"
)

// Opts holds configuration for the API server.
type Opts struct {
	DB   *gorm.DB
	Host string
	Port int
	// MaxCardBytes caps file card content; zero means the built-in default.
	MaxCardBytes int
	// Watcher, when set, backs the external-change endpoints.
	Watcher *db.Watcher
	Out     io.Writer
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts Opts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.Port <= 0 {
		opts.Port = 7333
	}

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(opts)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Workdeck API running at http://%s:%d\n", opts.Host, opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// newRouter builds the Gin router with all API routes. Split out from
// Start so tests can drive it with httptest.
func newRouter(opts Opts) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, opts)
	return router
}
