package bridge

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/model"
)

// Fallbacks used when yt-dlp omits a field
const (
	UnknownTitle    = "Unknown Title"
	UnknownUploader = "Unknown"
)

var autoTrack = model.AudioTrack{
	ID:          model.AutoAudioTrack,
	Language:    "Auto (Default)",
	Description: "Default audio track",
}

type ytdlpThumbnail struct {
	URL        string  `json:"url"`
	Preference float64 `json:"preference"`
}

type ytdlpFormat struct {
	ACodec   string `json:"acodec"`
	VCodec   string `json:"vcodec"`
	Language string `json:"language"`
}

// ytdlpInfo is the subset of `yt-dlp -J` output we read
type ytdlpInfo struct {
	Title      string           `json:"title"`
	Duration   float64          `json:"duration"`
	Uploader   string           `json:"uploader"`
	Thumbnail  string           `json:"thumbnail"`
	Thumbnails []ytdlpThumbnail `json:"thumbnails"`
	Formats    []ytdlpFormat    `json:"formats"`
}

// ParseInfo converts yt-dlp's JSON dump into the engine's metadata response
func ParseInfo(data []byte) (engine.MetadataResponse, error) {
	var info ytdlpInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return engine.MetadataResponse{}, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	resp := engine.MetadataResponse{
		Success:     true,
		Title:       info.Title,
		Duration:    info.Duration,
		Uploader:    info.Uploader,
		Thumbnail:   bestThumbnail(info),
		AudioTracks: audioTracks(info.Formats),
	}
	if resp.Title == "" {
		resp.Title = UnknownTitle
	}
	if resp.Uploader == "" {
		resp.Uploader = UnknownUploader
	}
	return resp, nil
}

func bestThumbnail(info ytdlpInfo) string {
	if len(info.Thumbnails) == 0 {
		return info.Thumbnail
	}
	thumbs := make([]ytdlpThumbnail, len(info.Thumbnails))
	copy(thumbs, info.Thumbnails)
	sort.SliceStable(thumbs, func(i, j int) bool {
		return thumbs[i].Preference > thumbs[j].Preference
	})
	if thumbs[0].URL == "" {
		return info.Thumbnail
	}
	return thumbs[0].URL
}

// audioTracks lists the distinct languages of audio-only formats, always
// starting with the automatic track
func audioTracks(formats []ytdlpFormat) []model.AudioTrack {
	tracks := []model.AudioTrack{autoTrack}
	seen := make(map[string]bool)
	for _, f := range formats {
		if f.ACodec == "none" || f.VCodec != "none" {
			continue
		}
		lang := strings.TrimSpace(f.Language)
		if lang == "" || lang == "unknown" || seen[lang] {
			continue
		}
		seen[lang] = true
		tracks = append(tracks, model.AudioTrack{
			ID:          lang,
			Language:    languageLabel(lang),
			Description: lang + " audio",
		})
	}
	return tracks
}

func languageLabel(lang string) string {
	if len(lang) == 2 {
		return strings.ToUpper(lang)
	}
	return strings.ToUpper(lang[:1]) + lang[1:]
}
