package engine

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/ytget/yt-queue/internal/model"
)

// EventType discriminates engine event lines
type EventType string

const (
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// IsTerminal reports whether the event ends a dispatch
func (t EventType) IsTerminal() bool {
	return t == EventComplete || t == EventError
}

// Event is one newline-delimited JSON object emitted during a transfer
type Event struct {
	Type     EventType `json:"type"`
	Percent  float64   `json:"progress,omitempty"`
	Speed    string    `json:"speed,omitempty"`
	ETA      string    `json:"eta,omitempty"`
	Filename string    `json:"filename,omitempty"`
	Error    string    `json:"error,omitempty"`
	Details  string    `json:"details,omitempty"`
}

// ProgressPercent returns the progress rounded and clamped to 0..100
func (e Event) ProgressPercent() int {
	if math.IsNaN(e.Percent) {
		return 0
	}
	p := int(math.Round(e.Percent))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Message returns the human readable cause of an error event
func (e Event) Message() string {
	msg := strings.TrimSpace(e.Error)
	details := strings.TrimSpace(e.Details)
	switch {
	case msg == "" && details == "":
		return MsgProcessFailed
	case details == "":
		return msg
	case msg == "":
		return details
	default:
		return msg + ": " + details
	}
}

// ParseEvent decodes one protocol line. Blank lines, non-JSON text and JSON
// without a known type are not events and return false.
func ParseEvent(line string) (Event, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != '{' {
		return Event{}, false
	}
	var ev Event
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return Event{}, false
	}
	switch ev.Type {
	case EventProgress, EventComplete, EventError:
		return ev, true
	default:
		return Event{}, false
	}
}

// TransferRequest is the JSON payload handed to the engine's download command
type TransferRequest struct {
	URL            string `json:"url"`
	OutputFolder   string `json:"outputFolder"`
	Format         string `json:"format"`
	Quality        string `json:"quality"`
	AudioOnly      bool   `json:"audioOnly"`
	AudioTrack     string `json:"audioTrack"`
	EmbedThumbnail bool   `json:"embedThumbnail"`
	EmbedMetadata  bool   `json:"embedMetadata"`
}

// NewTransferRequest translates an options snapshot into the engine payload
func NewTransferRequest(url string, opts model.Options) TransferRequest {
	opts = opts.WithDefaults()
	return TransferRequest{
		URL:            url,
		OutputFolder:   opts.OutputFolder,
		Format:         opts.Format,
		Quality:        opts.Quality,
		AudioOnly:      opts.AudioOnly(),
		AudioTrack:     opts.AudioTrack,
		EmbedThumbnail: opts.EmbedThumbnail,
		EmbedMetadata:  opts.EmbedMetadata,
	}
}

// MetadataResponse is the single JSON object printed by the engine's
// get-info command
type MetadataResponse struct {
	Success     bool               `json:"success"`
	Title       string             `json:"title,omitempty"`
	Thumbnail   string             `json:"thumbnail,omitempty"`
	Duration    float64            `json:"duration,omitempty"`
	Uploader    string             `json:"uploader,omitempty"`
	AudioTracks []model.AudioTrack `json:"audioTracks,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// ToMetadata converts a successful response into the domain model
func (r *MetadataResponse) ToMetadata() *model.Metadata {
	m := &model.Metadata{
		Title:           r.Title,
		Thumbnail:       r.Thumbnail,
		DurationSeconds: r.Duration,
		Uploader:        r.Uploader,
	}
	if len(r.AudioTracks) > 0 {
		m.AudioTracks = make([]model.AudioTrack, len(r.AudioTracks))
		copy(m.AudioTracks, r.AudioTracks)
	}
	return m
}
