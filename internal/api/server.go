package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
)

// Server timeouts
const (
	ReadTimeout     = 30 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 10 * time.Second
)

// MetadataResolver looks up metadata before a download is created
type MetadataResolver interface {
	Resolve(ctx context.Context, url string) (*model.Metadata, error)
}

// PlaylistExpander lists the entries of a playlist URL
type PlaylistExpander interface {
	Parse(ctx context.Context, url string) (*model.Playlist, error)
}

// Server is the HTTP presentation surface of the coordinator
type Server struct {
	downloads download.Downloader
	resolver  MetadataResolver
	playlists PlaylistExpander
	defaults  model.Options
	hub       *Hub
	router    *mux.Router
	log       zerolog.Logger
}

// NewServer wires the routes. defaults are used for requests without
// options; playlists may be nil to disable playlist expansion.
func NewServer(downloads download.Downloader, resolver MetadataResolver, playlists PlaylistExpander, defaults model.Options) *Server {
	s := &Server{
		downloads: downloads,
		resolver:  resolver,
		playlists: playlists,
		defaults:  defaults,
		hub:       NewHub(downloads),
		router:    mux.NewRouter(),
		log:       logger.Get("api"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/downloads", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/downloads", s.handleSubmit).Methods(http.MethodPost)
	api.HandleFunc("/downloads/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/downloads/{id}", s.handleRemove).Methods(http.MethodDelete)
	api.HandleFunc("/downloads/{id}/retry", s.handleRetry).Methods(http.MethodPost)
	api.HandleFunc("/downloads/{id}/cancel", s.handleCancel).Methods(http.MethodPost)
	api.HandleFunc("/downloads/{id}/location", s.handleLocation).Methods(http.MethodGet)
	api.HandleFunc("/playlists", s.handlePlaylist).Methods(http.MethodPost)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/resolve", s.handleResolve).Methods(http.MethodPost)
	api.HandleFunc("/ws", s.hub.ServeWS).Methods(http.MethodGet)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes websocket clients
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: ReadTimeout,
		IdleTimeout: IdleTimeout,
	}

	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	s.log.Info().Msg("api shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
	})
}
