package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/model"
)

// stubEngine keeps every transfer running until it is cancelled
type stubEngine struct{}

func (stubEngine) ResolveMetadata(ctx context.Context, url string) (*model.Metadata, error) {
	if strings.Contains(url, "unavailable") {
		return nil, &engine.ResolutionError{URL: url, Message: "Video unavailable"}
	}
	return &model.Metadata{Title: "Resolved Title"}, nil
}

func (stubEngine) Transfer(ctx context.Context, req engine.TransferRequest) (<-chan engine.Event, error) {
	events := make(chan engine.Event, 1)
	go func() {
		<-ctx.Done()
		events <- engine.Event{Type: engine.EventError, Error: ctx.Err().Error()}
		close(events)
	}()
	return events, nil
}

type stubPlaylists struct{}

func (stubPlaylists) Parse(ctx context.Context, url string) (*model.Playlist, error) {
	if !model.IsPlaylistURL(url) {
		return nil, errors.New("not a playlist")
	}
	return &model.Playlist{ID: "PL1", Entries: []model.PlaylistEntry{
		{VideoID: "a", URL: "https://www.youtube.com/watch?v=a"},
		{VideoID: "b", URL: "https://www.youtube.com/watch?v=b"},
	}}, nil
}

func newTestServer(t *testing.T) (*Server, *download.Service) {
	t.Helper()
	svc := download.NewService(stubEngine{}, "/tmp/out")
	t.Cleanup(svc.Close)
	srv := NewServer(svc, download.NewResolver(stubEngine{}), stubPlaylists{}, model.Options{Quality: "720p"})
	t.Cleanup(srv.hub.Close)
	return srv, svc
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSubmitDownload(t *testing.T) {
	srv, svc := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/downloads", SubmitRequest{URL: "https://youtu.be/abc"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Download == nil || resp.Download.Status != model.StatusDownloading {
		t.Errorf("Expected downloading record, got %+v", resp.Download)
	}
	if resp.Download.GetDisplayTitle() != "Resolved Title" {
		t.Errorf("Expected resolved metadata, got %q", resp.Download.GetDisplayTitle())
	}
	if resp.Download.Options.Quality != "720p" {
		t.Errorf("Expected server default options, got %+v", resp.Download.Options)
	}
	if len(svc.List()) != 1 {
		t.Errorf("Expected one download, got %d", len(svc.List()))
	}
}

func TestSubmitDownload_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"malformed body", "{", http.StatusBadRequest},
		{"invalid url", SubmitRequest{URL: "not a url"}, http.StatusBadRequest},
		{"resolution failure", SubmitRequest{URL: "https://youtu.be/unavailable"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, svc := newTestServer(t)
			rec := do(t, srv, http.MethodPost, "/api/downloads", tt.body)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if len(svc.List()) != 0 {
				t.Error("Expected no download to be created")
			}
		})
	}
}

func TestSubmitDownload_SkipResolve(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/downloads", SubmitRequest{URL: "https://youtu.be/unavailable", SkipResolve: true})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransitions(t *testing.T) {
	srv, svc := newTestServer(t)
	id, err := svc.Enqueue("https://youtu.be/abc", nil, model.Options{})
	if err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}

	if rec := do(t, srv, http.MethodPost, "/api/downloads/"+id+"/retry", nil); rec.Code != http.StatusConflict {
		t.Errorf("Retry of downloading record: expected 409, got %d", rec.Code)
	}

	rec := do(t, srv, http.MethodPost, "/api/downloads/"+id+"/cancel", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Cancel: expected 200, got %d", rec.Code)
	}
	var d model.Download
	json.Unmarshal(rec.Body.Bytes(), &d)
	if d.Status != model.StatusFailed || d.Error != download.MsgCancelledByUser {
		t.Errorf("Unexpected record after cancel %+v", d)
	}

	if rec := do(t, srv, http.MethodPost, "/api/downloads/"+id+"/retry", nil); rec.Code != http.StatusOK {
		t.Errorf("Retry: expected 200, got %d", rec.Code)
	}

	if rec := do(t, srv, http.MethodGet, "/api/downloads/"+id+"/location", nil); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/tmp/out") {
		t.Errorf("Location: got %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, srv, http.MethodDelete, "/api/downloads/"+id, nil); rec.Code != http.StatusNoContent {
		t.Errorf("Remove: expected 204, got %d", rec.Code)
	}
	for _, path := range []string{"/api/downloads/" + id, "/api/downloads/" + id + "/location"} {
		if rec := do(t, srv, http.MethodGet, path, nil); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s after remove: expected 404, got %d", path, rec.Code)
		}
	}
	if rec := do(t, srv, http.MethodPost, "/api/downloads/"+id+"/cancel", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Cancel after remove: expected 404, got %d", rec.Code)
	}
}

func TestListAndStats(t *testing.T) {
	srv, svc := newTestServer(t)
	svc.Enqueue("https://youtu.be/a", nil, model.Options{})
	svc.Enqueue("https://youtu.be/b", nil, model.Options{})

	rec := do(t, srv, http.MethodGet, "/api/downloads", nil)
	var list []model.Download
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 2 {
		t.Fatalf("Expected two downloads, got %s (%v)", rec.Body.String(), err)
	}
	if list[0].URL != "https://youtu.be/a" {
		t.Errorf("Expected insertion order, got %s first", list[0].URL)
	}

	rec = do(t, srv, http.MethodGet, "/api/stats", nil)
	var st model.Stats
	json.Unmarshal(rec.Body.Bytes(), &st)
	if st.Active != 2 || st.Total != 2 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestResolve(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/resolve", ResolveRequest{URL: "https://youtu.be/a"})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Resolved Title") {
		t.Errorf("Resolve: got %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, srv, http.MethodPost, "/api/resolve", ResolveRequest{URL: ""}); rec.Code != http.StatusBadRequest {
		t.Errorf("Resolve empty url: expected 400, got %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodPost, "/api/resolve", ResolveRequest{URL: "https://youtu.be/unavailable"}); rec.Code != http.StatusBadGateway {
		t.Errorf("Resolve failure: expected 502, got %d", rec.Code)
	}
}

func TestPlaylist(t *testing.T) {
	srv, svc := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/playlists", PlaylistRequest{URL: "https://www.youtube.com/playlist?list=PL1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.List()) != 2 {
		t.Errorf("Expected two downloads, got %d", len(svc.List()))
	}
	if rec := do(t, srv, http.MethodPost, "/api/playlists", PlaylistRequest{URL: "https://youtu.be/a"}); rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 for non-playlist, got %d", rec.Code)
	}
}

func TestWebsocketStreamsEvents(t *testing.T) {
	srv, svc := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snap snapshotMessage
	if err := conn.ReadJSON(&snap); err != nil || snap.Kind != KindSnapshot {
		t.Fatalf("Expected snapshot first, got %+v (%v)", snap, err)
	}

	// writePump starts after registration, so the snapshot proves the
	// client is subscribed.
	id, err := svc.Enqueue("https://youtu.be/ws", nil, model.Options{})
	if err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}
	var ev download.Event
	for ev.Kind != download.EventAdded {
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("ReadJSON() error: %v", err)
		}
		if ev.ID != id {
			t.Fatalf("Unexpected event for %s", ev.ID)
		}
	}
	if ev.Kind != download.EventAdded || ev.Download == nil || ev.Download.URL != "https://youtu.be/ws" {
		t.Errorf("Expected downloadAdded event, got %+v", ev)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{engine.ValidateURL(""), http.StatusBadRequest},
		{&engine.ResolutionError{Message: "x"}, http.StatusBadGateway},
		{download.ErrNotFound, http.StatusNotFound},
		{download.ErrInvalidTransition, http.StatusConflict},
		{download.ErrClosed, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.status {
			t.Errorf("statusFor(%v) = %d, expected %d", tt.err, got, tt.status)
		}
	}
}
