package bridge

import (
	"strconv"
	"strings"

	"github.com/ytget/yt-queue/internal/engine"
)

// ParseLine interprets one line of yt-dlp stdout. It returns a progress event,
// a final file path, or neither for unrelated output.
func ParseLine(line string) (ev engine.Event, path string, ok bool) {
	line = strings.TrimSpace(line)
	if body, found := strings.CutPrefix(line, progressMarker); found {
		return parseProgress(body)
	}
	if body, found := strings.CutPrefix(line, fileMarker); found {
		path = strings.TrimSpace(body)
		return engine.Event{}, path, path != ""
	}
	return engine.Event{}, "", false
}

func parseProgress(body string) (engine.Event, string, bool) {
	fields := strings.Split(body, fieldSeparator)
	if len(fields) == 0 {
		return engine.Event{}, "", false
	}
	percent, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(fields[0]), "%"), 64)
	if err != nil {
		return engine.Event{}, "", false
	}
	ev := engine.Event{Type: engine.EventProgress, Percent: percent}
	if len(fields) > 1 {
		ev.Speed = cleanField(fields[1])
	}
	if len(fields) > 2 {
		ev.ETA = cleanField(fields[2])
	}
	return ev, "", true
}

// cleanField drops yt-dlp's placeholders for unknown values
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "N/A", "NA", "Unknown", "Unknown B/s", "Unknown ETA":
		return ""
	}
	return s
}
