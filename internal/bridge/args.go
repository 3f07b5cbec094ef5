package bridge

import (
	"path/filepath"

	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/model"
)

// Markers prefixed to the lines yt-dlp prints for us
const (
	progressMarker = "[progress]"
	fileMarker     = "[file]"
	fieldSeparator = "|"
)

const (
	progressTemplate = "download:" + progressMarker + " %(progress._percent_str)s" + fieldSeparator +
		"%(progress._speed_str)s" + fieldSeparator + "%(progress._eta_str)s"
	filepathTemplate = "after_move:" + fileMarker + " %(filepath)s"
	outputTemplate   = "%(title)s.%(ext)s"
	bestFormat       = "bestvideo+bestaudio/best"
	audioFormat      = "bestaudio/best"
)

var videoQualities = map[string]string{
	"best":  bestFormat,
	"2160p": "bestvideo[height<=2160]+bestaudio/best",
	"1440p": "bestvideo[height<=1440]+bestaudio/best",
	"1080p": "bestvideo[height<=1080]+bestaudio/best",
	"720p":  "bestvideo[height<=720]+bestaudio/best",
	"480p":  "bestvideo[height<=480]+bestaudio/best",
	"360p":  "bestvideo[height<=360]+bestaudio/best",
}

// FormatSelector returns the yt-dlp -f expression for a video request.
// Unknown qualities fall back to the best streams.
func FormatSelector(quality, audioTrack string) string {
	selector, ok := videoQualities[quality]
	if !ok {
		selector = bestFormat
	}
	if audioTrack != "" && audioTrack != model.AutoAudioTrack {
		selector += "[language=" + audioTrack + "]"
	}
	return selector
}

// InfoArgs builds the yt-dlp arguments for a metadata lookup
func InfoArgs(url string) []string {
	return []string{"-J", "--no-warnings", "--skip-download", "--no-playlist", url}
}

// DownloadArgs builds the yt-dlp arguments for a transfer request
func DownloadArgs(req engine.TransferRequest) []string {
	args := []string{
		"--newline",
		"--progress",
		"--no-warnings",
		"--no-playlist",
		"--progress-template", progressTemplate,
		"--print", filepathTemplate,
		"-o", filepath.Join(req.OutputFolder, outputTemplate),
	}

	if req.AudioOnly {
		args = append(args,
			"-f", audioFormat,
			"-x",
			"--audio-format", req.Format,
			"--audio-quality", req.Quality+"K",
		)
	} else {
		args = append(args,
			"-f", FormatSelector(req.Quality, req.AudioTrack),
			"--merge-output-format", req.Format,
		)
	}

	if req.EmbedThumbnail {
		args = append(args, "--embed-thumbnail")
	}
	if req.EmbedMetadata {
		args = append(args, "--embed-metadata")
	}
	return append(args, req.URL)
}
