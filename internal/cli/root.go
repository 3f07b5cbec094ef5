package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

var (
	debug      bool
	logFile    string
	engineFlag string
	output     string

	env config.Environment
)

var rootCmd = &cobra.Command{
	Use:   "yt-queue",
	Short: "YT Queue downloads online video through a progress-tracked queue",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env = config.LoadEnvironment()
		return logger.Init(logger.Config{
			Debug: debug || env.Debug,
			File:  firstNonEmpty(logFile, env.LogFile),
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGUI(cmd.Root().Version); err != nil {
			PrintError(err.Error())
			os.Exit(1)
		}
	},
}

// Execute runs the command line
func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// outputFolder resolves the download folder for the headless modes
func outputFolder() string {
	return firstNonEmpty(output, env.OutputFolder, platform.DefaultOutputDir(config.AppDirName))
}

// Output options shared by get and serve
var (
	audioOnly      bool
	format         string
	quality        string
	audioTrack     string
	embedThumbnail bool
	embedMetadata  bool
)

func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&audioOnly, "audio", "x", false, "Extract audio only")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (mp4, webm, mkv or mp3, m4a, opus, aac)")
	cmd.Flags().StringVarP(&quality, "quality", "q", "", "Quality (best, 1080p, 720p, ... or audio bitrate 320, 192, ...)")
	cmd.Flags().StringVar(&audioTrack, "track", "", "Audio track id (default auto)")
	cmd.Flags().BoolVar(&embedThumbnail, "embed-thumbnail", config.DefaultEmbedThumbnail, "Embed the thumbnail in the output file")
	cmd.Flags().BoolVar(&embedMetadata, "embed-metadata", config.DefaultEmbedMetadata, "Embed metadata in the output file")
}

// flagOptions builds the options snapshot from the command line
func flagOptions() model.Options {
	t := model.DownloadTypeVideo
	if audioOnly {
		t = model.DownloadTypeAudio
	}
	return model.Options{
		OutputFolder:   outputFolder(),
		DownloadType:   t,
		Format:         format,
		Quality:        quality,
		AudioTrack:     audioTrack,
		EmbedThumbnail: embedThumbnail,
		EmbedMetadata:  embedMetadata,
	}.WithDefaults()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this rotated file")
	rootCmd.PersistentFlags().StringVar(&engineFlag, "engine", "", "Custom engine command line (default: built-in engine)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output folder for downloads")

	rootCmd.AddCommand(getCmd, serveCmd, engineCmd)
}
