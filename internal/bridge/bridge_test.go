package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/yt-queue/internal/engine"
)

// helperBridge points the bridge at the test binary acting as yt-dlp
func helperBridge(t *testing.T, mode string) (*Bridge, *bytes.Buffer) {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("YTDLP_HELPER_MODE", mode)
	var out bytes.Buffer
	return New(&out, os.Args[0], "-test.run=^TestHelperProcess$", "--"), &out
}

func decodeEvents(t *testing.T, out *bytes.Buffer) []engine.Event {
	t.Helper()
	var events []engine.Event
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		ev, ok := engine.ParseEvent(scanner.Text())
		if !ok {
			t.Fatalf("bridge wrote a non-event line %q", scanner.Text())
		}
		events = append(events, ev)
	}
	return events
}

func TestBridge_GetInfo(t *testing.T) {
	b, out := helperBridge(t, "info")
	if err := b.GetInfo(context.Background(), "https://youtu.be/x"); err != nil {
		t.Fatalf("GetInfo() error: %v", err)
	}

	var resp engine.MetadataResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("output is not a metadata response: %v", err)
	}
	if !resp.Success || resp.Title != "Sample" || len(resp.AudioTracks) != 3 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestBridge_GetInfoFailure(t *testing.T) {
	b, out := helperBridge(t, "fail")
	if err := b.GetInfo(context.Background(), "https://youtu.be/x"); err == nil {
		t.Fatal("expected an error")
	}

	var resp engine.MetadataResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("output is not a metadata response: %v", err)
	}
	if resp.Success || resp.Error != "Video unavailable" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestBridge_Download(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	b, out := helperBridge(t, "download")

	payload, _ := json.Marshal(engine.TransferRequest{URL: "https://youtu.be/x", OutputFolder: dir})
	if err := b.Download(context.Background(), string(payload)); err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected output folder to be created: %v", err)
	}

	events := decodeEvents(t, out)
	if len(events) < 3 {
		t.Fatalf("expected progress and complete events, got %+v", events)
	}
	var sawStdout, sawStderr bool
	for _, ev := range events[:len(events)-1] {
		if ev.Type != engine.EventProgress {
			t.Errorf("unexpected non-progress event %+v", ev)
		}
		sawStdout = sawStdout || (ev.Percent == 12.5 && ev.Speed == "2.00MiB/s")
		sawStderr = sawStderr || ev.Percent == 60
	}
	if !sawStdout || !sawStderr {
		t.Errorf("expected progress from both streams, got %+v", events)
	}
	last := events[len(events)-1]
	if last.Type != engine.EventComplete || last.Filename != "/out/Sample.mp4" {
		t.Errorf("unexpected last event %+v", last)
	}
}

func TestBridge_DownloadFailure(t *testing.T) {
	b, out := helperBridge(t, "fail")

	payload := fmt.Sprintf(`{"url":"https://youtu.be/x","outputFolder":%q}`, t.TempDir())
	if err := b.Download(context.Background(), payload); err == nil {
		t.Fatal("expected an error")
	}

	events := decodeEvents(t, out)
	if len(events) != 1 {
		t.Fatalf("expected a single error event, got %+v", events)
	}
	if events[0].Type != engine.EventError || events[0].Message() != "Download failed: Video unavailable" {
		t.Errorf("unexpected event %+v", events[0])
	}
}

func TestBridge_DownloadInvalidPayload(t *testing.T) {
	var out bytes.Buffer
	b := New(&out, "/nonexistent/yt-dlp")

	for _, payload := range []string{"{not json", `{"format":"mp4"}`} {
		out.Reset()
		if err := b.Download(context.Background(), payload); err == nil {
			t.Errorf("Download(%q) expected an error", payload)
		}
		events := decodeEvents(t, &out)
		if len(events) != 1 || events[0].Error != ErrTextInvalidOptions {
			t.Errorf("Download(%q) events = %+v", payload, events)
		}
	}
}

func TestNormalize(t *testing.T) {
	req := normalize(engine.TransferRequest{URL: " https://youtu.be/x ", AudioOnly: true})
	if req.URL != "https://youtu.be/x" || req.Format != "mp3" || req.Quality != "192" || req.OutputFolder != DefaultOutputFolder {
		t.Errorf("unexpected normalized request %+v", req)
	}
}

// TestHelperProcess stands in for yt-dlp when re-executed by the tests above
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	switch os.Getenv("YTDLP_HELPER_MODE") {
	case "info":
		fmt.Println(strings.ReplaceAll(sampleInfo, "\n", " "))
	case "download":
		if len(args) == 0 || !strings.HasPrefix(args[len(args)-1], "https://") {
			fmt.Fprintln(os.Stderr, "ERROR: missing url")
			os.Exit(2)
		}
		fmt.Println("[youtube] x: Downloading webpage")
		fmt.Println("[progress]  12.5%|2.00MiB/s|00:30")
		fmt.Fprintln(os.Stderr, "[progress]  60.0%|2.10MiB/s|00:10")
		fmt.Println("[file] /out/Sample.mp4")
	case "fail":
		fmt.Fprintln(os.Stderr, "WARNING: something minor")
		fmt.Fprintln(os.Stderr, "ERROR: Video unavailable")
		os.Exit(1)
	}
}
