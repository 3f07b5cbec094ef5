package download

import "github.com/ytget/yt-queue/internal/model"

// EventKind names a coordinator notification
type EventKind string

const (
	EventAdded      EventKind = "downloadAdded"
	EventDispatched EventKind = "downloadDispatched"
	EventProgress   EventKind = "progressUpdated"
	EventCompleted  EventKind = "downloadCompleted"
	EventFailed     EventKind = "downloadFailed"
	EventRemoved    EventKind = "downloadRemoved"
)

// Event is delivered to subscribers after every state change. Download is a
// snapshot taken right after the change (nil for removals).
type Event struct {
	Kind     EventKind       `json:"kind"`
	ID       string          `json:"id"`
	Download *model.Download `json:"download,omitempty"`
	Percent  int             `json:"percent,omitempty"`
	Speed    string          `json:"speed,omitempty"`
	ETA      string          `json:"eta,omitempty"`
	Message  string          `json:"message,omitempty"`
}
