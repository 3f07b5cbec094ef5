package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/engine"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps coordinator and engine errors onto HTTP status codes
func statusFor(err error) int {
	var vErr *engine.ValidationError
	var rErr *engine.ResolutionError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &rErr):
		return http.StatusBadGateway
	case errors.Is(err, download.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, download.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, download.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, download.ErrEmptyPlaylist):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}
