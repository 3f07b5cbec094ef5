package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

// AppDirName is the folder created under the user's Downloads
const AppDirName = "YTQueue"

// Settings keys for Fyne preferences
const (
	KeyOutputFolder   = "output_folder"
	KeyDownloadType   = "download_type"
	KeyFormat         = "format"
	KeyQuality        = "quality"
	KeyAudioTrack     = "audio_track"
	KeyEmbedThumbnail = "embed_thumbnail"
	KeyEmbedMetadata  = "embed_metadata"
	KeyLanguage       = "app_language"
	KeyEngineCommand  = "engine_command"
)

// Default values
const (
	DefaultDownloadType   = model.DownloadTypeVideo
	DefaultEmbedThumbnail = false
	DefaultEmbedMetadata  = true
	DefaultLanguage       = "system"
)

// Settings manages the user's output preferences. New downloads capture them
// through Snapshot; changing a setting never affects downloads already queued.
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

func (s *Settings) prefs() fyne.Preferences {
	return s.app.Preferences()
}

// GetOutputFolder returns the configured output folder
func (s *Settings) GetOutputFolder() string {
	dir := s.prefs().String(KeyOutputFolder)
	if dir == "" {
		dir = platform.DefaultOutputDir(AppDirName)
		s.SetOutputFolder(dir)
	}
	return dir
}

// SetOutputFolder sets the output folder
func (s *Settings) SetOutputFolder(dir string) {
	s.prefs().SetString(KeyOutputFolder, dir)
}

// GetDownloadType returns video or audio
func (s *Settings) GetDownloadType() model.DownloadType {
	if model.DownloadType(s.prefs().String(KeyDownloadType)) == model.DownloadTypeAudio {
		return model.DownloadTypeAudio
	}
	return DefaultDownloadType
}

// SetDownloadType switches between video and audio. Format and quality are
// reset to the new type's defaults since the old values do not apply.
func (s *Settings) SetDownloadType(t model.DownloadType) {
	if t != model.DownloadTypeAudio {
		t = model.DownloadTypeVideo
	}
	if t == s.GetDownloadType() && s.prefs().String(KeyDownloadType) != "" {
		return
	}
	s.prefs().SetString(KeyDownloadType, string(t))
	s.prefs().SetString(KeyFormat, model.DefaultFormat(t))
	s.prefs().SetString(KeyQuality, model.DefaultQuality(t))
}

// GetFormat returns the output format, valid for the current download type
func (s *Settings) GetFormat() string {
	t := s.GetDownloadType()
	format := s.prefs().String(KeyFormat)
	if !contains(model.FormatOptions(t), format) {
		return model.DefaultFormat(t)
	}
	return format
}

// SetFormat sets the output format
func (s *Settings) SetFormat(format string) {
	s.prefs().SetString(KeyFormat, format)
}

// GetQuality returns the quality tier, valid for the current download type
func (s *Settings) GetQuality() string {
	t := s.GetDownloadType()
	quality := s.prefs().String(KeyQuality)
	if !contains(model.QualityOptions(t), quality) {
		return model.DefaultQuality(t)
	}
	return quality
}

// SetQuality sets the quality tier
func (s *Settings) SetQuality(quality string) {
	s.prefs().SetString(KeyQuality, quality)
}

// GetAudioTrack returns the preferred audio track id
func (s *Settings) GetAudioTrack() string {
	return s.prefs().StringWithFallback(KeyAudioTrack, model.AutoAudioTrack)
}

// SetAudioTrack sets the preferred audio track id
func (s *Settings) SetAudioTrack(track string) {
	if track == "" {
		track = model.AutoAudioTrack
	}
	s.prefs().SetString(KeyAudioTrack, track)
}

// GetEmbedThumbnail returns whether the thumbnail is embedded in the file
func (s *Settings) GetEmbedThumbnail() bool {
	return s.prefs().BoolWithFallback(KeyEmbedThumbnail, DefaultEmbedThumbnail)
}

// SetEmbedThumbnail sets thumbnail embedding
func (s *Settings) SetEmbedThumbnail(embed bool) {
	s.prefs().SetBool(KeyEmbedThumbnail, embed)
}

// GetEmbedMetadata returns whether tags are embedded in the file
func (s *Settings) GetEmbedMetadata() bool {
	return s.prefs().BoolWithFallback(KeyEmbedMetadata, DefaultEmbedMetadata)
}

// SetEmbedMetadata sets metadata embedding
func (s *Settings) SetEmbedMetadata(embed bool) {
	s.prefs().SetBool(KeyEmbedMetadata, embed)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.prefs().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.prefs().SetString(KeyLanguage, lang)
}

// GetEngineCommand returns a custom engine executable, empty for the
// built-in one
func (s *Settings) GetEngineCommand() string {
	return s.prefs().String(KeyEngineCommand)
}

// SetEngineCommand sets a custom engine executable
func (s *Settings) SetEngineCommand(cmd string) {
	s.prefs().SetString(KeyEngineCommand, cmd)
}

// Snapshot captures the current output preferences as a value
func (s *Settings) Snapshot() model.Options {
	return model.Options{
		OutputFolder:   s.GetOutputFolder(),
		DownloadType:   s.GetDownloadType(),
		Format:         s.GetFormat(),
		Quality:        s.GetQuality(),
		AudioTrack:     s.GetAudioTrack(),
		EmbedThumbnail: s.GetEmbedThumbnail(),
		EmbedMetadata:  s.GetEmbedMetadata(),
	}
}

// GetFormatOptions returns the formats for the current download type
func (s *Settings) GetFormatOptions() []string {
	return model.FormatOptions(s.GetDownloadType())
}

// GetQualityOptions returns the quality tiers for the current download type
func (s *Settings) GetQualityOptions() []string {
	return model.QualityOptions(s.GetDownloadType())
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
