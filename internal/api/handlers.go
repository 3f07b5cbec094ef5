package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/model"
)

// SubmitRequest creates a download. Metadata is resolved when absent unless
// SkipResolve is set; Options default to the server's settings.
type SubmitRequest struct {
	URL         string          `json:"url"`
	Metadata    *model.Metadata `json:"metadata,omitempty"`
	Options     *model.Options  `json:"options,omitempty"`
	SkipResolve bool            `json:"skipResolve,omitempty"`
}

// ResolveRequest asks for metadata only
type ResolveRequest struct {
	URL string `json:"url"`
}

// PlaylistRequest expands a playlist and enqueues every entry
type PlaylistRequest struct {
	URL     string         `json:"url"`
	Options *model.Options `json:"options,omitempty"`
}

type submitResponse struct {
	ID       string          `json:"id"`
	Download *model.Download `json:"download,omitempty"`
}

type playlistResponse struct {
	Playlist *model.Playlist `json:"playlist"`
	IDs      []string        `json:"ids"`
}

type locationResponse struct {
	Path string `json:"path"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) options(o *model.Options) model.Options {
	if o == nil {
		return s.defaults
	}
	return *o
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.downloads.List())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	meta := req.Metadata
	if meta == nil && !req.SkipResolve {
		resolved, err := s.resolver.Resolve(r.Context(), req.URL)
		if err != nil {
			writeError(w, err)
			return
		}
		meta = resolved
	}

	id, err := s.downloads.Enqueue(req.URL, meta, s.options(req.Options))
	if err != nil {
		writeError(w, err)
		return
	}
	d, _ := s.downloads.Get(id)
	writeJSON(w, http.StatusCreated, submitResponse{ID: id, Download: d})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	d, ok := s.downloads.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, download.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.downloads.Remove(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.transition(w, mux.Vars(r)["id"], s.downloads.Retry)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.transition(w, mux.Vars(r)["id"], s.downloads.Cancel)
}

// transition applies op and answers with the updated record
func (s *Server) transition(w http.ResponseWriter, id string, op func(string) error) {
	if err := op(id); err != nil {
		writeError(w, err)
		return
	}
	d, ok := s.downloads.Get(id)
	if !ok {
		writeError(w, download.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	path, err := s.downloads.OutputLocation(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locationResponse{Path: path})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.downloads.Stats())
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	meta, err := s.resolver.Resolve(r.Context(), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	if s.playlists == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "playlist expansion is disabled"})
		return
	}
	var req PlaylistRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	pl, err := s.playlists.Parse(r.Context(), req.URL)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	ids, err := s.downloads.EnqueuePlaylist(pl, s.options(req.Options))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlistResponse{Playlist: pl, IDs: ids})
}
