// Package httpapi exposes the upload pipeline over HTTP: multipart uploads,
// the uploaded-files listing, direct-upload presigning and the notification
// feed.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/knowhyco/knowyfile/internal/logging"
	sc "github.com/knowhyco/knowyfile/internal/server/config"
	"github.com/knowhyco/knowyfile/internal/server/listing"
	"github.com/knowhyco/knowyfile/internal/server/notify"
	"github.com/knowhyco/knowyfile/internal/server/uploads"
)

// Coordinator drives one upload batch.
type Coordinator interface {
	UploadAll(ctx context.Context, items []*uploads.Item, onProgress uploads.ProgressFunc) []uploads.Failure
}

// Lister reconstructs the uploaded-files view.
type Lister interface {
	List(ctx context.Context) ([]listing.Entry, error)
}

// Presigner issues direct-upload URLs.
type Presigner interface {
	PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Notifications exposes the currently visible notifications.
type Notifications interface {
	Active() []notify.Notification
}

type Server struct {
	address       string
	coordinator   Coordinator
	lister        Lister
	presigner     Presigner
	notifications Notifications
	config        *sc.Config
	logger        logging.Logger
}

func NewServer(a string, l logging.Logger, c Coordinator, ls Lister, p Presigner, n Notifications, cfg *sc.Config) *Server {
	return &Server{
		address:       a,
		logger:        l.With("module", "http_server"),
		coordinator:   c,
		lister:        ls,
		presigner:     p,
		notifications: n,
		config:        cfg,
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(s.requestLogger)

	r.Post("/api/upload", s.handleUpload)
	r.Get("/api/files", s.handleListFiles)
	r.Post("/api/presign", s.handlePresignPut)
	r.Get("/api/notifications", s.handleNotifications)

	return r
}

// requestLogger records one line per request after it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
