package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/yt-queue/internal/model"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write list: %v", err)
	}
	return path
}

func TestReadDownloadList(t *testing.T) {
	path := writeList(t, `
- link: https://youtu.be/a
- link: https://youtu.be/b
  type: audio
  format: opus
  quality: "128"
  op: /music
`)

	entries, err := ReadDownloadList(path)
	if err != nil {
		t.Fatalf("ReadDownloadList() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Type != "audio" || entries[1].Quality != "128" || entries[1].Output != "/music" {
		t.Errorf("unexpected entry %+v", entries[1])
	}
}

func TestReadDownloadList_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing link", "- type: audio\n", "missing link for entry 1"},
		{"unknown type", "- link: https://youtu.be/a\n  type: podcast\n", "unknown type"},
		{"not yaml list", "link: [", "error parsing YAML file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDownloadList(writeList(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := ReadDownloadList(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestListEntry_Options(t *testing.T) {
	base := model.Options{OutputFolder: "/out", Format: "mkv", Quality: "720p"}.WithDefaults()

	same := ListEntry{Link: "x"}.Options(base)
	if same != base {
		t.Errorf("empty entry changed options: %+v", same)
	}

	audio := ListEntry{Link: "x", Type: "audio"}.Options(base).WithDefaults()
	if !audio.AudioOnly() || audio.Format != model.DefaultAudioFormat || audio.Quality != model.DefaultAudioQuality {
		t.Errorf("type switch should reset format and quality: %+v", audio)
	}
	if audio.OutputFolder != "/out" {
		t.Errorf("output folder lost: %+v", audio)
	}

	custom := ListEntry{Link: "x", Format: "webm", Track: "de", Output: "/other"}.Options(base)
	if custom.Format != "webm" || custom.Quality != "720p" || custom.AudioTrack != "de" || custom.OutputFolder != "/other" {
		t.Errorf("unexpected merged options %+v", custom)
	}
}

func TestCollectJobs(t *testing.T) {
	jobs, err := collectJobs([]string{"https://youtu.be/a", "https://youtu.be/b"}, "")
	if err != nil {
		t.Fatalf("collectJobs() error: %v", err)
	}
	if len(jobs) != 2 || jobs[1].URL != "https://youtu.be/b" {
		t.Errorf("unexpected jobs %+v", jobs)
	}
	if jobs[0].Options.Format != model.DefaultVideoFormat {
		t.Errorf("expected defaults applied, got %+v", jobs[0].Options)
	}

	if _, err := collectJobs([]string{"https://youtu.be/a"}, "list.yaml"); err == nil {
		t.Error("expected error when combining urls and --list")
	}

	path := writeList(t, "- link: https://youtu.be/c\n  type: audio\n")
	jobs, err = collectJobs(nil, path)
	if err != nil {
		t.Fatalf("collectJobs() error: %v", err)
	}
	if len(jobs) != 1 || !jobs[0].Options.AudioOnly() || jobs[0].Options.Format != model.DefaultAudioFormat {
		t.Errorf("unexpected list jobs %+v", jobs)
	}
}
