package cli

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/platform"
	"github.com/ytget/yt-queue/internal/ui"
)

const (
	AppID   = "com.ytget.yt-queue"
	AppName = "YT Queue"
)

// runGUI opens the desktop window and blocks until it is closed
func runGUI(version string) error {
	log := logger.Get("app")
	log.Info().Str("version", version).Msg("YT Queue starting")

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(myApp)
	if output != "" {
		settings.SetOutputFolder(output)
	}
	outputDir := settings.GetOutputFolder()
	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		log.Warn().Err(err).Str("dir", outputDir).Msg("failed to ensure downloads dir")
	}

	eng, err := newProcessEngine(firstNonEmpty(engineFlag, env.EngineCommand, settings.GetEngineCommand()))
	if err != nil {
		return err
	}
	eng.SetResolveTimeout(env.ResolveTimeout)

	svc := download.NewService(eng, outputDir)
	defer svc.Close()
	resolver := download.NewResolver(eng)
	resolver.SetTimeout(env.ResolveTimeout)

	window := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))
	ui.NewRootUI(window, svc, resolver, platform.NewPlaylistParser(), settings)

	window.ShowAndRun()
	return nil
}
