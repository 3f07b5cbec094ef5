package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
)

// Error texts reported in protocol error events
const (
	ErrTextDownloadFailed = "Download failed"
	ErrTextInvalidOptions = "Invalid JSON options"
	DefaultOutputFolder   = "downloads"
)

// Bridge answers engine protocol commands by running yt-dlp
type Bridge struct {
	command []string
	log     zerolog.Logger

	mu  sync.Mutex
	out io.Writer
}

// New creates a bridge writing protocol output to out. command is the yt-dlp
// executable optionally followed by fixed leading arguments.
func New(out io.Writer, command ...string) *Bridge {
	return &Bridge{
		command: command,
		out:     out,
		log:     logger.Get("bridge"),
	}
}

// NewDefault locates yt-dlp and writes protocol output to stdout
func NewDefault() (*Bridge, error) {
	path, err := LocateYtdlp()
	if err != nil {
		return nil, err
	}
	return New(os.Stdout, path), nil
}

func (b *Bridge) cmd(ctx context.Context, args []string) *exec.Cmd {
	full := append(append([]string{}, b.command[1:]...), args...)
	return exec.CommandContext(ctx, b.command[0], full...)
}

// GetInfo prints a single metadata response for url. The response is written
// even on failure; the returned error only drives the exit status.
func (b *Bridge) GetInfo(ctx context.Context, url string) error {
	cmd := b.cmd(ctx, InfoArgs(url))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	b.log.Debug().Str("op", "bridge/get-info").Msgf("Executing yt-dlp command: %s", cmd.String())
	if err := cmd.Run(); err != nil {
		msg := errorLine(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		b.log.Error().Str("op", "bridge/get-info").Err(err).Msg(msg)
		b.write(engine.MetadataResponse{Error: msg})
		return fmt.Errorf("yt-dlp failed: %w", err)
	}

	resp, err := ParseInfo(stdout.Bytes())
	if err != nil {
		b.write(engine.MetadataResponse{Error: err.Error()})
		return err
	}
	b.write(resp)
	return nil
}

// Download runs a transfer described by the JSON payload and streams
// progress, complete and error events. A failed transfer returns an error
// after its error event has been written.
func (b *Bridge) Download(ctx context.Context, payload string) error {
	var req engine.TransferRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		b.emitError(ErrTextInvalidOptions, err.Error())
		return fmt.Errorf("invalid transfer request: %w", err)
	}
	if strings.TrimSpace(req.URL) == "" {
		b.emitError(ErrTextInvalidOptions, "url is required")
		return errors.New("transfer request has no url")
	}
	req = normalize(req)

	if err := os.MkdirAll(req.OutputFolder, 0o755); err != nil {
		b.emitError(ErrTextDownloadFailed, err.Error())
		return fmt.Errorf("error creating output folder: %w", err)
	}

	cmd := b.cmd(ctx, DownloadArgs(req))
	b.log.Debug().Str("op", "bridge/download").Msgf("Executing yt-dlp command: %s", cmd.String())

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		b.emitError(ErrTextDownloadFailed, err.Error())
		return fmt.Errorf("error creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		b.emitError(ErrTextDownloadFailed, err.Error())
		return fmt.Errorf("error creating stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		b.emitError(ErrTextDownloadFailed, err.Error())
		return fmt.Errorf("error starting yt-dlp: %w", err)
	}

	var (
		wg      sync.WaitGroup
		lastErr string
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		lastErr = b.drainStderr(stderr)
	}()

	var filename string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		ev, path, ok := ParseLine(scanner.Text())
		switch {
		case !ok:
			b.log.Debug().Str("op", "bridge/download").Msg(scanner.Text())
		case path != "":
			filename = path
		default:
			b.emit(ev)
		}
	}
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		details := lastErr
		if details == "" {
			details = err.Error()
		}
		b.log.Error().Str("op", "bridge/download").Err(err).Msg(details)
		b.emitError(ErrTextDownloadFailed, details)
		return fmt.Errorf("yt-dlp failed: %w", err)
	}

	b.emit(engine.Event{Type: engine.EventProgress, Percent: 100})
	b.emit(engine.Event{Type: engine.EventComplete, Filename: filename})
	b.log.Info().Str("op", "bridge/download").Msgf("yt-dlp download completed for %s", req.URL)
	return nil
}

func (b *Bridge) drainStderr(r io.Reader) string {
	var last string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// yt-dlp moves progress to stderr in quiet mode
		if ev, _, ok := ParseLine(line); ok && ev.Type == engine.EventProgress {
			b.emit(ev)
			continue
		}
		b.log.Debug().Str("op", "bridge/stderr").Msg(line)
		if msg := errorLine(line); msg != "" {
			last = msg
		}
	}
	return last
}

func (b *Bridge) emit(ev engine.Event) {
	b.write(ev)
}

func (b *Bridge) emitError(msg, details string) {
	b.write(engine.Event{Type: engine.EventError, Error: msg, Details: details})
}

func (b *Bridge) write(v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := json.NewEncoder(b.out).Encode(v); err != nil {
		b.log.Error().Str("op", "bridge/write").Err(err).Msg("failed to write protocol output")
	}
}

// errorLine returns the text of the last "ERROR:" line in s
func errorLine(s string) string {
	var msg string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "ERROR:"); ok {
			msg = strings.TrimSpace(rest)
		}
	}
	return msg
}

// normalize fills request defaults the same way the coordinator does
func normalize(req engine.TransferRequest) engine.TransferRequest {
	opts := model.Options{
		OutputFolder:   req.OutputFolder,
		DownloadType:   model.DownloadTypeVideo,
		Format:         req.Format,
		Quality:        req.Quality,
		AudioTrack:     req.AudioTrack,
		EmbedThumbnail: req.EmbedThumbnail,
		EmbedMetadata:  req.EmbedMetadata,
	}
	if req.AudioOnly {
		opts.DownloadType = model.DownloadTypeAudio
	}
	if opts.OutputFolder == "" {
		opts.OutputFolder = DefaultOutputFolder
	}
	return engine.NewTransferRequest(strings.TrimSpace(req.URL), opts)
}
