package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
)

// Engine command names understood by the engine process
const (
	CommandGetInfo  = "get-info"
	CommandDownload = "download"
)

const (
	// DefaultResolveTimeout bounds a single metadata lookup
	DefaultResolveTimeout = 60 * time.Second
	readChunkSize         = 4096
	stopGracePeriod       = 5 * time.Second
	eventBufferSize       = 16
)

// ProcessEngine runs the download engine as a child process per request.
// Metadata resolution reads a single JSON object after the process exits;
// transfers stream newline-delimited JSON events from stdout.
type ProcessEngine struct {
	command        string
	args           []string
	resolveTimeout time.Duration
	log            zerolog.Logger
}

// NewProcessEngine creates an engine that invokes command with the given
// argument prefix followed by the engine sub-command
func NewProcessEngine(command string, args ...string) *ProcessEngine {
	return &ProcessEngine{
		command:        command,
		args:           args,
		resolveTimeout: DefaultResolveTimeout,
		log:            logger.Get("engine"),
	}
}

// SetResolveTimeout sets the timeout for metadata resolution
func (p *ProcessEngine) SetResolveTimeout(timeout time.Duration) {
	p.resolveTimeout = timeout
}

// Command returns the command line prefix used to start the engine
func (p *ProcessEngine) Command() []string {
	return append([]string{p.command}, p.args...)
}

func (p *ProcessEngine) commandArgs(extra ...string) []string {
	args := make([]string, 0, len(p.args)+len(extra))
	args = append(args, p.args...)
	return append(args, extra...)
}

// ResolveMetadata asks the engine for title, thumbnail and audio tracks.
// Every failure is reported as *ResolutionError.
func (p *ProcessEngine) ResolveMetadata(ctx context.Context, url string) (*model.Metadata, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	url = strings.TrimSpace(url)

	if p.resolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.resolveTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.command, p.commandArgs(CommandGetInfo, url)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	p.log.Debug().Str("op", "engine/resolve").Str("url", url).Msg("requesting metadata")
	runErr := cmd.Run()

	var resp MetadataResponse
	body := lastJSONObject(stdout.Bytes())
	if body == nil || json.Unmarshal(body, &resp) != nil {
		msg := "malformed response from engine"
		switch {
		case ctx.Err() != nil:
			msg = ctx.Err().Error()
		case strings.TrimSpace(stderr.String()) != "":
			msg = lastLine(stderr.String())
		case runErr != nil:
			msg = runErr.Error()
		}
		p.log.Warn().Str("op", "engine/resolve").Str("url", url).Err(runErr).Msg(msg)
		return nil, &ResolutionError{URL: url, Message: msg}
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "engine reported failure"
		}
		return nil, &ResolutionError{URL: url, Message: msg}
	}
	return resp.ToMetadata(), nil
}

// Transfer starts the engine's download command. Callers must drain the
// returned channel until it is closed. Cancelling ctx interrupts the
// process and kills it if it has not exited after stopGracePeriod.
func (p *ProcessEngine) Transfer(ctx context.Context, req TransferRequest) (<-chan Event, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer request: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.command, p.commandArgs(CommandDownload, string(payload))...)
	stopOnCancel(cmd)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}
	p.log.Debug().Str("op", "engine/transfer").Str("url", req.URL).Msgf("started %s", cmd.String())

	events := make(chan Event, eventBufferSize)
	go p.pump(req.URL, cmd, stdout, stderr, events)
	return events, nil
}

// pump forwards decoded events until the process exits, guaranteeing a
// single terminal event
func (p *ProcessEngine) pump(url string, cmd *exec.Cmd, stdout, stderr io.Reader, events chan<- Event) {
	defer close(events)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.logDiagnostics(url, stderr)
	}()

	terminal := false
	emit := func(ev Event) {
		if terminal {
			return
		}
		if ev.Type.IsTerminal() {
			terminal = true
		}
		events <- ev
	}

	dec := NewDecoder(func(line string) {
		p.log.Debug().Str("op", "engine/stdout").Str("url", url).Msg(line)
	})
	chunk := make([]byte, readChunkSize)
	for {
		n, err := stdout.Read(chunk)
		if n > 0 {
			for _, ev := range dec.Write(chunk[:n]) {
				emit(ev)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.log.Debug().Str("op", "engine/transfer").Str("url", url).Err(err).Msg("stdout closed")
			}
			break
		}
	}
	for _, ev := range dec.Close() {
		emit(ev)
	}

	wg.Wait()
	waitErr := cmd.Wait()
	if terminal {
		return
	}

	msg := MsgProcessIncomplete
	if waitErr != nil {
		msg = MsgProcessFailed
	}
	p.log.Warn().Str("op", "engine/transfer").Str("url", url).Err(waitErr).Msg(msg)
	emit(Event{Type: EventError, Error: msg})
}

func (p *ProcessEngine) logDiagnostics(url string, r io.Reader) {
	dec := NewDecoder(func(line string) {
		p.log.Debug().Str("op", "engine/stderr").Str("url", url).Msg(line)
	})
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			dec.Write(chunk[:n])
		}
		if err != nil {
			dec.Close()
			return
		}
	}
}

// lastJSONObject returns the last stdout line that looks like a JSON object
func lastJSONObject(out []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) > 0 && line[0] == '{' {
			return line
		}
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
