package model

// DownloadType selects between full video and audio-only extraction
type DownloadType string

const (
	DownloadTypeVideo DownloadType = "video"
	DownloadTypeAudio DownloadType = "audio"
)

// Default output choices per download type
const (
	DefaultVideoFormat  = "mp4"
	DefaultVideoQuality = "best"
	DefaultAudioFormat  = "mp3"
	DefaultAudioQuality = "192"
	AutoAudioTrack      = "auto"
)

// Options is the output configuration captured when a download is created.
// It holds only value fields, so assigning it copies the whole snapshot.
type Options struct {
	OutputFolder   string       `json:"outputFolder" yaml:"op"`
	DownloadType   DownloadType `json:"downloadType" yaml:"type"`
	Format         string       `json:"format" yaml:"format"`
	Quality        string       `json:"quality" yaml:"quality"`
	AudioTrack     string       `json:"audioTrack" yaml:"track"`
	EmbedThumbnail bool         `json:"embedThumbnail" yaml:"thumbnail"`
	EmbedMetadata  bool         `json:"embedMetadata" yaml:"metadata"`
}

// AudioOnly reports whether only the audio stream is requested
func (o Options) AudioOnly() bool {
	return o.DownloadType == DownloadTypeAudio
}

// WithDefaults fills empty fields with the defaults of the download type
func (o Options) WithDefaults() Options {
	if o.DownloadType != DownloadTypeAudio {
		o.DownloadType = DownloadTypeVideo
	}
	if o.Format == "" {
		o.Format = DefaultFormat(o.DownloadType)
	}
	if o.Quality == "" {
		o.Quality = DefaultQuality(o.DownloadType)
	}
	if o.AudioTrack == "" {
		o.AudioTrack = AutoAudioTrack
	}
	return o
}

// DefaultFormat returns the container/codec used when none was chosen
func DefaultFormat(t DownloadType) string {
	if t == DownloadTypeAudio {
		return DefaultAudioFormat
	}
	return DefaultVideoFormat
}

// DefaultQuality returns the quality tier used when none was chosen
func DefaultQuality(t DownloadType) string {
	if t == DownloadTypeAudio {
		return DefaultAudioQuality
	}
	return DefaultVideoQuality
}

// FormatOptions lists the selectable formats for a download type
func FormatOptions(t DownloadType) []string {
	if t == DownloadTypeAudio {
		return []string{"mp3", "m4a", "opus", "aac"}
	}
	return []string{"mp4", "webm", "mkv"}
}

// QualityOptions lists the selectable quality tiers for a download type.
// Audio tiers are bitrates in kbps.
func QualityOptions(t DownloadType) []string {
	if t == DownloadTypeAudio {
		return []string{"320", "256", "192", "128"}
	}
	return []string{"best", "2160p", "1440p", "1080p", "720p", "480p"}
}
