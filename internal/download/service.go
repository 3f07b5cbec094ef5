package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
)

// MsgCancelledByUser is recorded on downloads stopped through Cancel
const MsgCancelledByUser = "Cancelled by user"

// IDPrefix starts every download id
const IDPrefix = "dl-"

var (
	ErrNotFound          = errors.New("download not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrClosed            = errors.New("download service is closed")
	ErrEmptyPlaylist     = errors.New("playlist has no entries")
)

type dispatch struct {
	attempt int
	cancel  context.CancelFunc
}

type subscription struct {
	id int
	fn func(Event)
}

// Service is the download coordinator. It owns every download record,
// dispatches transfers to the engine and folds engine events back into the
// records. All methods are safe for concurrent use.
type Service struct {
	mu         sync.Mutex
	store      *Store
	dispatches map[string]dispatch
	closed     bool

	subMu       sync.RWMutex
	subscribers []subscription
	nextSub     int

	engine    engine.Engine
	outputDir string

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// NewService creates a coordinator that dispatches to eng. outputDir is used
// for downloads whose options carry no folder.
func NewService(eng engine.Engine, outputDir string) *Service {
	ctx, stop := context.WithCancel(context.Background())
	return &Service{
		store:      NewStore(),
		dispatches: make(map[string]dispatch),
		engine:     eng,
		outputDir:  outputDir,
		ctx:        ctx,
		stop:       stop,
		log:        logger.Get("coordinator"),
		now:        time.Now,
		newID:      generateDownloadID,
	}
}

// Subscribe registers fn for every coordinator event. Callbacks run on the
// goroutine that caused the change and must not block.
func (s *Service) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Enqueue validates url, records a new download and dispatches it at once.
// Metadata may be nil. The options are copied, later settings changes do not
// affect this download.
func (s *Service) Enqueue(url string, metadata *model.Metadata, options model.Options) (string, error) {
	if err := engine.ValidateURL(url); err != nil {
		return "", err
	}

	opts := options.WithDefaults()
	if opts.OutputFolder == "" {
		opts.OutputFolder = s.outputDir
	}
	d := &model.Download{
		ID:        s.newID(),
		URL:       strings.TrimSpace(url),
		Metadata:  metadata.Clone(),
		Status:    model.StatusQueued,
		Options:   opts,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}
	if !s.store.Append(d) {
		s.mu.Unlock()
		return "", fmt.Errorf("duplicate download id %s", d.ID)
	}
	added := d.Clone()
	s.mu.Unlock()

	s.log.Info().Str("id", d.ID).Str("url", d.URL).Msg("download added")
	s.notify(Event{Kind: EventAdded, ID: d.ID, Download: added})

	if err := s.Dispatch(d.ID); err != nil {
		s.log.Warn().Err(err).Str("id", d.ID).Msg("dispatch after enqueue failed")
	}
	return d.ID, nil
}

// EnqueuePlaylist enqueues every entry of an expanded playlist with the same
// options. Entries with unusable URLs are skipped and logged.
func (s *Service) EnqueuePlaylist(playlist *model.Playlist, options model.Options) ([]string, error) {
	if playlist.Len() == 0 {
		return nil, ErrEmptyPlaylist
	}

	ids := make([]string, 0, playlist.Len())
	for _, entry := range playlist.Entries {
		var meta *model.Metadata
		if entry.Title != "" {
			meta = &model.Metadata{Title: entry.Title}
		}
		id, err := s.Enqueue(entry.URL, meta, options)
		if errors.Is(err, ErrClosed) {
			return ids, err
		}
		if err != nil {
			s.log.Warn().Err(err).Str("playlist", playlist.ID).Str("entry", entry.VideoID).Msg("skipping playlist entry")
			continue
		}
		ids = append(ids, id)
	}
	s.log.Info().Str("playlist", playlist.ID).Int("enqueued", len(ids)).Int("entries", playlist.Len()).Msg("playlist enqueued")
	return ids, nil
}

// Dispatch hands a Queued download to the engine and marks it Downloading.
func (s *Service) Dispatch(id string) error {
	s.mu.Lock()
	d, ok := s.store.Get(id)
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !startDispatch(d, s.now()) {
		status := d.Status
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot dispatch %s download", ErrInvalidTransition, status)
	}
	return s.startLocked(d)
}

// startLocked launches the transfer goroutine for a record that has just
// entered Downloading. It releases s.mu.
func (s *Service) startLocked(d *model.Download) error {
	ctx, cancel := context.WithCancel(s.ctx)
	s.dispatches[d.ID] = dispatch{attempt: d.Attempt, cancel: cancel}
	req := engine.NewTransferRequest(d.URL, d.Options)
	id, attempt := d.ID, d.Attempt
	snap := d.Clone()
	s.wg.Add(1)
	s.mu.Unlock()

	s.log.Info().Str("id", id).Int("attempt", attempt).Msg("download dispatched")
	s.notify(Event{Kind: EventDispatched, ID: id, Download: snap})

	go s.run(ctx, id, attempt, req)
	return nil
}

func (s *Service) run(ctx context.Context, id string, attempt int, req engine.TransferRequest) {
	defer s.wg.Done()
	defer s.finishDispatch(id, attempt)

	events, err := s.engine.Transfer(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("engine failed to start")
		s.applyEvent(id, attempt, engine.Event{Type: engine.EventError, Error: err.Error()})
		return
	}
	for ev := range events {
		s.applyEvent(id, attempt, ev)
	}
}

func (s *Service) finishDispatch(id string, attempt int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dp, ok := s.dispatches[id]; ok && dp.attempt == attempt {
		dp.cancel()
		delete(s.dispatches, id)
	}
}

// applyEvent folds one engine event into the record. Events from an older
// dispatch cycle are dropped.
func (s *Service) applyEvent(id string, attempt int, ev engine.Event) {
	switch ev.Type {
	case engine.EventProgress:
		s.progress(id, attempt, ev.ProgressPercent(), ev.Speed, ev.ETA)
	case engine.EventComplete:
		s.complete(id, attempt, ev.Filename)
	case engine.EventError:
		s.fail(id, attempt, ev.Message())
	}
}

// OnProgress records progress for the current dispatch. It is a no-op unless
// the download is Downloading; progress never decreases.
func (s *Service) OnProgress(id string, percent int, speed, eta string) {
	s.progress(id, 0, percent, speed, eta)
}

// OnComplete marks the current dispatch Completed
func (s *Service) OnComplete(id string, filename string) {
	s.complete(id, 0, filename)
}

// OnError marks the current dispatch Failed with message
func (s *Service) OnError(id string, message string) {
	s.fail(id, 0, message)
}

func (s *Service) progress(id string, attempt int, percent int, speed, eta string) {
	s.mutate(id, attempt, func(d *model.Download) (Event, bool) {
		if !applyProgress(d, percent, speed, eta) {
			return Event{}, false
		}
		return Event{Kind: EventProgress, Percent: d.Progress, Speed: d.Speed, ETA: d.ETA}, true
	})
}

func (s *Service) complete(id string, attempt int, filename string) {
	ok := s.mutate(id, attempt, func(d *model.Download) (Event, bool) {
		if !applyComplete(d, filename, s.now()) {
			return Event{}, false
		}
		return Event{Kind: EventCompleted, Percent: 100}, true
	})
	if ok {
		s.log.Info().Str("id", id).Str("file", filename).Msg("download completed")
	}
}

func (s *Service) fail(id string, attempt int, message string) {
	ok := s.mutate(id, attempt, func(d *model.Download) (Event, bool) {
		if !applyFailure(d, message, s.now()) {
			return Event{}, false
		}
		return Event{Kind: EventFailed, Message: message}, true
	})
	if ok {
		s.log.Warn().Str("id", id).Str("error", message).Msg("download failed")
	}
}

// mutate runs fn on the live record and notifies subscribers when fn reports
// a change. attempt 0 targets the current dispatch cycle.
func (s *Service) mutate(id string, attempt int, fn func(d *model.Download) (Event, bool)) bool {
	s.mu.Lock()
	d, ok := s.store.Get(id)
	if !ok || (attempt != 0 && d.Attempt != attempt) {
		s.mu.Unlock()
		return false
	}
	ev, changed := fn(d)
	if !changed {
		s.mu.Unlock()
		return false
	}
	ev.ID = id
	ev.Download = d.Clone()
	s.mu.Unlock()

	s.notify(ev)
	return true
}

// Retry moves a Failed download back to Queued and dispatches it again
func (s *Service) Retry(id string) error {
	s.mu.Lock()
	d, ok := s.store.Get(id)
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !resetForRetry(d) {
		status := d.Status
		s.mu.Unlock()
		return fmt.Errorf("%w: only failed downloads can be retried, got %s", ErrInvalidTransition, status)
	}
	s.log.Info().Str("id", id).Msg("retrying download")
	startDispatch(d, s.now())
	return s.startLocked(d)
}

// Cancel stops an active download and marks it Failed. The running engine
// transfer is interrupted on a best-effort basis.
func (s *Service) Cancel(id string) error {
	s.mu.Lock()
	d, ok := s.store.Get(id)
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if !applyCancel(d, s.now()) {
		status := d.Status
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot cancel %s download", ErrInvalidTransition, status)
	}
	if dp, ok := s.dispatches[id]; ok {
		dp.cancel()
	}
	snap := d.Clone()
	s.mu.Unlock()

	s.log.Info().Str("id", id).Msg("download cancelled")
	s.notify(Event{Kind: EventFailed, ID: id, Download: snap, Message: MsgCancelledByUser})
	return nil
}

// Remove deletes the record in any status. An in-flight transfer is
// interrupted and its later events are ignored.
func (s *Service) Remove(id string) error {
	s.mu.Lock()
	if !s.store.Remove(id) {
		s.mu.Unlock()
		return ErrNotFound
	}
	if dp, ok := s.dispatches[id]; ok {
		dp.cancel()
		delete(s.dispatches, id)
	}
	s.mu.Unlock()

	s.log.Info().Str("id", id).Msg("download removed")
	s.notify(Event{Kind: EventRemoved, ID: id})
	return nil
}

// Get returns a snapshot of one download
func (s *Service) Get(id string) (*model.Download, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.store.Get(id)
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

// List returns snapshots of all downloads in insertion order
func (s *Service) List() []*model.Download {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Stats counts downloads by status
func (s *Service) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Stats()
}

// OutputLocation returns the file a completed download produced, or the
// folder it writes to when the file is not known yet. An empty id returns the
// default output folder.
func (s *Service) OutputLocation(id string) (string, error) {
	if id == "" {
		return s.outputDir, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.store.Get(id)
	if !ok {
		return "", ErrNotFound
	}
	if d.Status == model.StatusCompleted && d.Filename != "" {
		return d.Filename, nil
	}
	if d.Options.OutputFolder == "" {
		return s.outputDir, nil
	}
	return d.Options.OutputFolder, nil
}

// Close interrupts all transfers and waits for their goroutines. Records are
// kept and remain readable.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.stop()
	s.wg.Wait()
	s.log.Debug().Msg("coordinator closed")
}

func (s *Service) notify(ev Event) {
	s.subMu.RLock()
	subs := make([]func(Event), len(s.subscribers))
	for i, sub := range s.subscribers {
		subs[i] = sub.fn
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func generateDownloadID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%s%d", IDPrefix, time.Now().UnixNano())
	}
	return IDPrefix + id.String()
}
