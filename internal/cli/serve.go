package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-queue/internal/api"
	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/platform"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the download queue over HTTP and websocket",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			PrintError(err.Error())
			os.Exit(1)
		}
	},
}

func runServe() error {
	eng, err := newProcessEngine(firstNonEmpty(engineFlag, env.EngineCommand))
	if err != nil {
		return err
	}
	eng.SetResolveTimeout(env.ResolveTimeout)

	opts := flagOptions()
	if err := platform.CreateDirectoryIfNotExists(opts.OutputFolder); err != nil {
		return err
	}

	svc := download.NewService(eng, opts.OutputFolder)
	defer svc.Close()
	resolver := download.NewResolver(eng)
	resolver.SetTimeout(env.ResolveTimeout)

	srv := api.NewServer(svc, resolver, platform.NewPlaylistParser(), opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := firstNonEmpty(listenAddr, env.ListenAddr)
	PrintInfo("Serving on http://" + addr + "/api")
	return srv.ListenAndServe(ctx, addr)
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "addr", "a", "", "Listen address (default "+config.DefaultListenAddr+")")
	addOptionFlags(serveCmd)
}
