package model

import (
	"fmt"
	"strings"
	"time"
)

// Progress text fragments
const (
	QueuedText       = "Queued..."
	CompletedText    = "Download complete"
	UnknownErrorText = "Unknown error"
	textSeparator    = " • "
)

// AudioTrack is one selectable audio stream reported by the engine
type AudioTrack struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

// Metadata describes the media behind a URL. Any field may be empty when
// resolution failed or was skipped.
type Metadata struct {
	Title           string       `json:"title,omitempty"`
	Thumbnail       string       `json:"thumbnail,omitempty"`
	DurationSeconds float64      `json:"duration,omitempty"`
	Uploader        string       `json:"uploader,omitempty"`
	AudioTracks     []AudioTrack `json:"audioTracks,omitempty"`
}

// HasTrackChoice reports whether track selection is meaningful.
// A single track (usually "auto") is not a choice.
func (m *Metadata) HasTrackChoice() bool {
	return m != nil && len(m.AudioTracks) > 1
}

// Clone returns a deep copy of the metadata
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	c := *m
	if m.AudioTracks != nil {
		c.AudioTracks = make([]AudioTrack, len(m.AudioTracks))
		copy(c.AudioTracks, m.AudioTracks)
	}
	return &c
}

// Download represents one requested unit of work
type Download struct {
	ID         string         `json:"id"`
	URL        string         `json:"url"`
	Metadata   *Metadata      `json:"metadata,omitempty"`
	Status     DownloadStatus `json:"status"`
	Progress   int            `json:"progress"`        // 0 to 100
	Speed      string         `json:"speed,omitempty"` // human readable, e.g. "1.2MiB/s"
	ETA        string         `json:"eta,omitempty"`   // human readable, e.g. "00:42"
	Error      string         `json:"error,omitempty"`
	Filename   string         `json:"filename,omitempty"` // reported by the engine on completion
	Options    Options        `json:"options"`
	Attempt    int            `json:"attempt"` // dispatch cycle, incremented per dispatch
	CreatedAt  time.Time      `json:"createdAt"`
	StartedAt  time.Time      `json:"startedAt,omitempty"`
	FinishedAt time.Time      `json:"finishedAt,omitempty"`
}

// Clone returns a deep copy safe to hand out of the store
func (d *Download) Clone() *Download {
	if d == nil {
		return nil
	}
	c := *d
	c.Metadata = d.Metadata.Clone()
	return &c
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (d *Download) GetDisplayTitle() string {
	if d.Metadata != nil && d.Metadata.Title != "" {
		return d.Metadata.Title
	}

	if d.Filename != "" {
		parts := strings.FieldsFunc(d.Filename, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			name := parts[len(parts)-1]
			if idx := strings.LastIndex(name, "."); idx > 0 {
				name = name[:idx]
			}
			return name
		}
	}

	return d.URL
}

// ProgressText returns the one-line status shown under the progress bar
func (d *Download) ProgressText() string {
	switch d.Status {
	case StatusCompleted:
		return CompletedText
	case StatusFailed:
		msg := d.Error
		if msg == "" {
			msg = UnknownErrorText
		}
		return "Error: " + msg
	case StatusDownloading:
		parts := []string{fmt.Sprintf("%d%%", d.Progress)}
		if d.Speed != "" {
			parts = append(parts, d.Speed)
		}
		if d.ETA != "" {
			parts = append(parts, d.ETA)
		}
		return strings.Join(parts, textSeparator)
	default:
		return QueuedText
	}
}

// Stats summarizes the queue for the presentation layer
type Stats struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}
