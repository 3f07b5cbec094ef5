package download

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/model"
)

const waitTimeout = 2 * time.Second

// fakeEngine records transfers and lets tests push events into them
type fakeEngine struct {
	started chan *fakeTransfer

	mu           sync.Mutex
	startErr     error
	meta         *model.Metadata
	resolveErr   error
	resolveCalls int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{started: make(chan *fakeTransfer, 32)}
}

func (f *fakeEngine) ResolveMetadata(ctx context.Context, url string) (*model.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolveCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.meta.Clone(), nil
}

func (f *fakeEngine) Transfer(ctx context.Context, req engine.TransferRequest) (<-chan engine.Event, error) {
	f.mu.Lock()
	err := f.startErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	tr := &fakeTransfer{req: req, ctx: ctx, events: make(chan engine.Event, 64)}
	go func() {
		<-ctx.Done()
		tr.emit(engine.Event{Type: engine.EventError, Error: ctx.Err().Error()})
	}()
	f.started <- tr
	return tr.events, nil
}

// next returns the most recently started transfer
func (f *fakeEngine) next(t *testing.T) *fakeTransfer {
	t.Helper()
	select {
	case tr := <-f.started:
		return tr
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a transfer to start")
		return nil
	}
}

type fakeTransfer struct {
	req    engine.TransferRequest
	ctx    context.Context
	events chan engine.Event

	mu     sync.Mutex
	closed bool
}

// emit delivers ev unless the transfer already ended; terminal events close
// the stream
func (tr *fakeTransfer) emit(ev engine.Event) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.closed {
		return
	}
	tr.events <- ev
	if ev.Type.IsTerminal() {
		tr.closed = true
		close(tr.events)
	}
}

func (tr *fakeTransfer) cancelled() bool {
	select {
	case <-tr.ctx.Done():
		return true
	default:
		return false
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func statusOf(s *Service, id string) model.DownloadStatus {
	d, ok := s.Get(id)
	if !ok {
		return ""
	}
	return d.Status
}
