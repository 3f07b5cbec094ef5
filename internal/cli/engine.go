package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-queue/internal/bridge"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/logger"
)

// EngineCommandName is the hidden sub-command the process engine runs
const EngineCommandName = "engine"

var engineCmd = &cobra.Command{
	Use:    EngineCommandName,
	Short:  "Run the download engine protocol (used internally)",
	Hidden: true,
}

var engineInfoCmd = &cobra.Command{
	Use:   engine.CommandGetInfo + " <url>",
	Short: "Print metadata for a URL as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := newBridge().GetInfo(ctx, args[0]); err != nil {
			os.Exit(1)
		}
	},
}

var engineDownloadCmd = &cobra.Command{
	Use:   engine.CommandDownload + " <json>",
	Short: "Download a URL and stream progress events as JSON lines",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := newBridge().Download(ctx, args[0]); err != nil {
			os.Exit(1)
		}
	},
}

// newBridge falls back to the bare binary name when yt-dlp cannot be located
// so the failure is reported through the protocol
func newBridge() *bridge.Bridge {
	b, err := bridge.NewDefault()
	if err != nil {
		logger.Get("engine").Warn().Err(err).Msg("yt-dlp lookup failed")
		return bridge.New(os.Stdout, bridge.YtdlpBinary)
	}
	return b
}

// newProcessEngine builds the engine used by the coordinator. custom is a
// command line such as "python3 engine.py"; when empty the running
// executable's engine sub-command is used.
func newProcessEngine(custom string) (*engine.ProcessEngine, error) {
	if fields := strings.Fields(custom); len(fields) > 0 {
		return engine.NewProcessEngine(fields[0], fields[1:]...), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	return engine.NewProcessEngine(exe, EngineCommandName), nil
}

// firstNonEmpty picks the engine command by precedence
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func init() {
	engineCmd.AddCommand(engineInfoCmd, engineDownloadCmd)
}
