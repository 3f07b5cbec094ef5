package engine

import (
	"encoding/json"
	"testing"

	"github.com/ytget/yt-queue/internal/model"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantType EventType
	}{
		{"progress", `{"type":"progress","progress":12,"speed":"1MiB/s","eta":"00:10"}`, true, EventProgress},
		{"complete", `{"type":"complete","filename":"/tmp/a.mp4"}`, true, EventComplete},
		{"error", `{"type":"error","error":"Download failed","details":"HTTP 403"}`, true, EventError},
		{"surrounding spaces", `   {"type":"complete"}  `, true, EventComplete},
		{"plain text", `[download] Destination: a.mp4`, false, ""},
		{"broken json", `{"type":"progress"`, false, ""},
		{"missing type", `{"error":"No URL specified"}`, false, ""},
		{"unknown type", `{"type":"debug"}`, false, ""},
		{"blank", ``, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := ParseEvent(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseEvent(%q) ok = %v, expected %v", tt.line, ok, tt.wantOK)
			}
			if ok && ev.Type != tt.wantType {
				t.Errorf("type = %s, expected %s", ev.Type, tt.wantType)
			}
		})
	}
}

func TestEvent_ProgressPercent(t *testing.T) {
	tests := []struct {
		percent  float64
		expected int
	}{
		{0, 0},
		{49.6, 50},
		{100, 100},
		{140, 100},
		{-3, 0},
	}

	for _, test := range tests {
		ev := Event{Type: EventProgress, Percent: test.percent}
		if got := ev.ProgressPercent(); got != test.expected {
			t.Errorf("ProgressPercent(%v) = %d, expected %d", test.percent, got, test.expected)
		}
	}
}

func TestEvent_Message(t *testing.T) {
	tests := []struct {
		ev       Event
		expected string
	}{
		{Event{Error: "Download failed", Details: "HTTP Error 403"}, "Download failed: HTTP Error 403"},
		{Event{Error: "Download failed"}, "Download failed"},
		{Event{Details: "only details"}, "only details"},
		{Event{}, MsgProcessFailed},
	}

	for _, test := range tests {
		if got := test.ev.Message(); got != test.expected {
			t.Errorf("Message() = %q, expected %q", got, test.expected)
		}
	}
}

func TestNewTransferRequest(t *testing.T) {
	opts := model.Options{
		OutputFolder:   "/out",
		DownloadType:   model.DownloadTypeAudio,
		Format:         "m4a",
		EmbedThumbnail: true,
	}

	req := NewTransferRequest("https://youtu.be/x", opts)

	if !req.AudioOnly || req.Format != "m4a" || req.Quality != "192" || req.AudioTrack != "auto" {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.OutputFolder != "/out" || !req.EmbedThumbnail || req.EmbedMetadata {
		t.Errorf("unexpected request flags: %+v", req)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"url", "outputFolder", "format", "quality", "audioOnly", "audioTrack", "embedThumbnail", "embedMetadata"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("wire payload is missing %q", key)
		}
	}
}

func TestMetadataResponse_ToMetadata(t *testing.T) {
	var resp MetadataResponse
	body := `{"success":true,"title":"Song","thumbnail":"https://i.ytimg.com/a.jpg","duration":212,"audioTracks":[{"id":"auto","language":"Auto (Default)","description":"Default audio track"},{"id":"en","language":"EN","description":"en audio"}]}`
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	meta := resp.ToMetadata()
	if meta.Title != "Song" || meta.DurationSeconds != 212 || meta.Thumbnail == "" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if !meta.HasTrackChoice() || meta.AudioTracks[1].ID != "en" {
		t.Errorf("unexpected tracks: %+v", meta.AudioTracks)
	}
}
