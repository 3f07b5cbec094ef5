package ui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/model"
)

// idleEngine keeps transfers running until cancelled
type idleEngine struct{}

func (idleEngine) ResolveMetadata(ctx context.Context, url string) (*model.Metadata, error) {
	return &model.Metadata{Title: "Title"}, nil
}

func (idleEngine) Transfer(ctx context.Context, req engine.TransferRequest) (<-chan engine.Event, error) {
	events := make(chan engine.Event, 1)
	go func() {
		<-ctx.Done()
		events <- engine.Event{Type: engine.EventError, Error: ctx.Err().Error()}
		close(events)
	}()
	return events, nil
}

type stubResolver struct {
	err   error
	calls int
}

func (r *stubResolver) Resolve(ctx context.Context, url string) (*model.Metadata, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &model.Metadata{
		Title:       "Resolved",
		AudioTracks: []model.AudioTrack{{ID: "auto", Description: "Auto"}, {ID: "de", Description: "DE (German)"}},
	}, nil
}

func newTestRootUI(t *testing.T, resolver *stubResolver) (*RootUI, *download.Service) {
	t.Helper()
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "en_US.UTF-8")

	app := test.NewApp()
	t.Cleanup(app.Quit)
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	svc := download.NewService(idleEngine{}, t.TempDir())
	t.Cleanup(svc.Close)
	settings := config.NewSettings(app)
	settings.SetOutputFolder(t.TempDir())

	return NewRootUI(w, svc, resolver, nil, settings), svc
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (ui *RootUI) rowCount() int {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return len(ui.rows)
}

func TestStatusFilter_Matches(t *testing.T) {
	all := []*model.Download{
		{ID: "q", Status: model.StatusQueued},
		{ID: "d", Status: model.StatusDownloading},
		{ID: "c", Status: model.StatusCompleted},
		{ID: "f", Status: model.StatusFailed},
	}
	tests := []struct {
		filter   StatusFilter
		expected []string
	}{
		{FilterAll, []string{"q", "d", "c", "f"}},
		{FilterActive, []string{"q", "d"}},
		{FilterCompleted, []string{"c"}},
		{FilterFailed, []string{"f"}},
	}
	for _, tt := range tests {
		got := filterDownloads(all, tt.filter)
		if len(got) != len(tt.expected) {
			t.Fatalf("filter %d: got %d rows, expected %d", tt.filter, len(got), len(tt.expected))
		}
		for i, id := range tt.expected {
			if got[i].ID != id {
				t.Errorf("filter %d row %d = %s, expected %s", tt.filter, i, got[i].ID, id)
			}
		}
	}
}

func TestRootUI_StatsFollowCoordinator(t *testing.T) {
	ui, svc := newTestRootUI(t, &stubResolver{})

	if ui.statsLabel.Text != "0 active • 0 completed" {
		t.Errorf("initial stats = %q", ui.statsLabel.Text)
	}

	id, err := svc.Enqueue("https://youtu.be/a", nil, model.Options{})
	if err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}
	waitFor(t, "active stats", func() bool { return ui.statsLabel.Text == "1 active • 0 completed" })

	svc.OnComplete(id, "/out/a.mp4")
	waitFor(t, "completed stats", func() bool { return ui.statsLabel.Text == "0 active • 1 completed" })

	ui.onFilterChanged(FilterFailed)
	if ui.rowCount() != 0 {
		t.Errorf("failed filter shows %d rows", ui.rowCount())
	}
	ui.onFilterChanged(FilterCompleted)
	if ui.rowCount() != 1 {
		t.Errorf("completed filter shows %d rows", ui.rowCount())
	}
}

func TestRootUI_AddRejectsInvalidURL(t *testing.T) {
	resolver := &stubResolver{}
	ui, svc := newTestRootUI(t, resolver)

	ui.urlEntry.SetText("not a url")
	ui.onAddClick()

	if !ui.notificationContainer.Visible() {
		t.Error("expected a notification for the invalid URL")
	}
	if resolver.calls != 0 || len(svc.List()) != 0 {
		t.Error("invalid URL must not reach the resolver or the coordinator")
	}

	ui.urlEntry.SetText("")
	ui.onAddClick()
	if ui.notificationLabel.Text != ui.localization.GetText(KeyPleaseEnterURL) {
		t.Errorf("notification = %q", ui.notificationLabel.Text)
	}
}

func TestRootUI_AddUsesPreviewTrack(t *testing.T) {
	ui, svc := newTestRootUI(t, &stubResolver{})

	url := "https://youtu.be/tracks"
	ui.urlEntry.SetText(url)
	meta, _ := ui.resolver.Resolve(context.Background(), url)
	ui.showPreview(url, meta)
	if !ui.trackSelect.Visible() {
		t.Fatal("track selector should be visible for two tracks")
	}
	ui.trackSelect.SetSelected("DE (German)")

	ui.onAddClick()

	list := svc.List()
	if len(list) != 1 {
		t.Fatalf("expected one download, got %d", len(list))
	}
	if list[0].Options.AudioTrack != "de" {
		t.Errorf("audio track = %q, expected de", list[0].Options.AudioTrack)
	}
	if list[0].GetDisplayTitle() != "Resolved" {
		t.Errorf("title = %q", list[0].GetDisplayTitle())
	}
	if ui.urlEntry.Text != "" {
		t.Error("URL entry should be cleared after adding")
	}
}

func TestRootUI_ResolutionFailureCreatesNothing(t *testing.T) {
	resolver := &stubResolver{err: &engine.ResolutionError{Message: "Video unavailable"}}
	ui, svc := newTestRootUI(t, resolver)

	ui.urlEntry.SetText("https://youtu.be/gone")
	ui.onAddClick()

	waitFor(t, "resolver call", func() bool {
		return ui.notificationLabel.Text != ui.localization.GetText(KeyFetchingInfo)
	})
	if len(svc.List()) != 0 {
		t.Error("resolution failure must not create a download")
	}
	if resolver.calls != 1 {
		t.Errorf("resolver called %d times, expected 1", resolver.calls)
	}
}
