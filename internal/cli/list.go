package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
)

// ListEntry is one item of a batch list file. Empty fields inherit the
// command line options.
type ListEntry struct {
	Link    string `yaml:"link"`
	Type    string `yaml:"type,omitempty"`
	Format  string `yaml:"format,omitempty"`
	Quality string `yaml:"quality,omitempty"`
	Track   string `yaml:"track,omitempty"`
	Output  string `yaml:"op,omitempty"`
}

// Options merges the entry over base
func (e ListEntry) Options(base model.Options) model.Options {
	opts := base
	if e.Type != "" && model.DownloadType(e.Type) != opts.DownloadType {
		opts.DownloadType = model.DownloadType(e.Type)
		opts.Format = ""
		opts.Quality = ""
	}
	if e.Format != "" {
		opts.Format = e.Format
	}
	if e.Quality != "" {
		opts.Quality = e.Quality
	}
	if e.Track != "" {
		opts.AudioTrack = e.Track
	}
	if e.Output != "" {
		opts.OutputFolder = e.Output
	}
	return opts
}

// ReadDownloadList parses a YAML list of links
func ReadDownloadList(filePath string) ([]ListEntry, error) {
	log := logger.Get("config")
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}
	var entries []ListEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing YAML file: %w", err)
	}
	for i, entry := range entries {
		if entry.Link == "" {
			return nil, fmt.Errorf("missing link for entry %d", i+1)
		}
		switch model.DownloadType(entry.Type) {
		case "", model.DownloadTypeVideo, model.DownloadTypeAudio:
		default:
			return nil, fmt.Errorf("unknown type %q for entry %d", entry.Type, i+1)
		}
	}
	log.Debug().Int("count", len(entries)).Msg("Entries loaded from YAML")
	return entries, nil
}
