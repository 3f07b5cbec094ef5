package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ytget/yt-queue/internal/api"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
)

// progressStep is the percent interval between printed progress lines
const progressStep = 25

// Job is one URL to download with its options snapshot
type Job struct {
	URL     string
	Options model.Options
}

// Report is the outcome of a headless run
type Report struct {
	Downloads []*model.Download
	// Rejected are jobs that never became downloads, keyed by URL
	Rejected map[string]string
}

// Failed counts downloads and jobs that did not complete
func (r Report) Failed() int {
	n := len(r.Rejected)
	for _, d := range r.Downloads {
		if d.Status != model.StatusCompleted {
			n++
		}
	}
	return n
}

// Rows formats the report for summaryTable
func (r Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Downloads)+len(r.Rejected))
	for _, d := range r.Downloads {
		location := d.Filename
		if d.Status != model.StatusCompleted {
			location = d.Error
		}
		rows = append(rows, []string{d.GetDisplayTitle(), d.Status.String(), location})
	}
	for url, msg := range r.Rejected {
		rows = append(rows, []string{url, "Rejected", msg})
	}
	return rows
}

// Runner drives a coordinator without a GUI: it resolves, enqueues and
// prints progress until every download has finished
type Runner struct {
	engine    engine.Engine
	playlists api.PlaylistExpander
	outputDir string
	out       io.Writer
	log       zerolog.Logger

	mu      sync.Mutex
	printed map[string]int
}

// NewRunner creates a runner printing to out. playlists may be nil, in which
// case playlist URLs are downloaded as single videos.
func NewRunner(eng engine.Engine, playlists api.PlaylistExpander, outputDir string, out io.Writer) *Runner {
	return &Runner{
		engine:    eng,
		playlists: playlists,
		outputDir: outputDir,
		out:       out,
		log:       logger.Get("runner"),
		printed:   make(map[string]int),
	}
}

// Run downloads every job. It returns early with ctx's error when cancelled;
// the report then reflects the state at that moment.
func (r *Runner) Run(ctx context.Context, jobs []Job) (Report, error) {
	svc := download.NewService(r.engine, r.outputDir)
	defer svc.Close()
	resolver := download.NewResolver(r.engine)

	finished := make(chan struct{}, 1)
	unsubscribe := svc.Subscribe(func(ev download.Event) {
		r.print(ev)
		if ev.Kind == download.EventCompleted || ev.Kind == download.EventFailed {
			select {
			case finished <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	report := Report{Rejected: make(map[string]string)}
	for _, job := range jobs {
		if err := r.submit(ctx, svc, resolver, job); err != nil {
			r.log.Warn().Err(err).Str("url", job.URL).Msg("job rejected")
			r.println(FError(job.URL + ": " + err.Error()))
			report.Rejected[job.URL] = err.Error()
		}
	}

	var err error
wait:
	for svc.Stats().Active > 0 {
		select {
		case <-finished:
		case <-ctx.Done():
			err = ctx.Err()
			break wait
		}
	}
	report.Downloads = svc.List()
	return report, err
}

func (r *Runner) submit(ctx context.Context, svc *download.Service, resolver *download.Resolver, job Job) error {
	if r.playlists != nil && model.IsPlaylistURL(job.URL) {
		playlist, err := r.playlists.Parse(ctx, job.URL)
		if err != nil {
			return err
		}
		ids, err := svc.EnqueuePlaylist(playlist, job.Options)
		if err != nil {
			return err
		}
		r.println(FInfo(fmt.Sprintf("Playlist %s: %d videos", playlist.Title, len(ids))))
		return nil
	}

	meta, err := resolver.Resolve(ctx, job.URL)
	if err != nil {
		return err
	}
	_, err = svc.Enqueue(job.URL, meta, job.Options)
	return err
}

// print renders one coordinator event; progress is printed per step
func (r *Runner) print(ev download.Event) {
	if ev.Download == nil {
		return
	}
	title := ev.Download.GetDisplayTitle()
	switch ev.Kind {
	case download.EventDispatched:
		r.mu.Lock()
		r.printed[ev.ID] = 0
		r.mu.Unlock()
		r.println(FPending("Downloading " + title))
	case download.EventProgress:
		r.mu.Lock()
		step := ev.Percent / progressStep * progressStep
		due := step > r.printed[ev.ID] && ev.Percent < 100
		if due {
			r.printed[ev.ID] = step
		}
		r.mu.Unlock()
		if due {
			r.println(FDetail(fmt.Sprintf("  %s  %s", title, ev.Download.ProgressText())))
		}
	case download.EventCompleted:
		r.println(FSuccess(title + " → " + ev.Download.Filename))
	case download.EventFailed:
		r.println(FError(title + ": " + ev.Message))
	}
}

func (r *Runner) println(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, line)
}
