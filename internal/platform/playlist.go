package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
)

// DefaultPlaylistParseTimeout bounds a full playlist listing
const DefaultPlaylistParseTimeout = 60 * time.Second

// YouTubeVideoURLTemplate builds an entry URL from its video id
const YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"

// Playlist title heuristics
const (
	DefaultPlaylistTitle = "Untitled Playlist"
	PlaylistSuffix       = " Playlist"
	MinPrefixLength      = 10
	MaxTitleLength       = 50
	TitleTruncateSuffix  = "..."
)

// ErrNotPlaylist is returned for URLs without a list= parameter
var ErrNotPlaylist = errors.New("URL does not reference a playlist")

type fetchFunc func(ctx context.Context, playlistID string) ([]model.PlaylistEntry, error)

// PlaylistParser expands playlist URLs into their entries
type PlaylistParser struct {
	timeout time.Duration
	fetch   fetchFunc
	log     zerolog.Logger
}

// NewPlaylistParser creates a parser backed by the ytdlp library
func NewPlaylistParser() *PlaylistParser {
	return &PlaylistParser{
		timeout: DefaultPlaylistParseTimeout,
		fetch:   fetchWithYtdlp,
		log:     logger.Get("playlist"),
	}
}

// SetTimeout sets the timeout for playlist parsing
func (p *PlaylistParser) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Parse lists every entry of the playlist referenced by url
func (p *PlaylistParser) Parse(ctx context.Context, url string) (*model.Playlist, error) {
	playlistID := model.PlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotPlaylist, url)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	entries, err := p.fetch(ctx, playlistID)
	if err != nil {
		p.log.Error().Str("op", "playlist/parse").Str("playlist", playlistID).Err(err).Msg("failed to list playlist")
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}
	p.log.Info().Str("op", "playlist/parse").Str("playlist", playlistID).Int("entries", len(entries)).
		Dur("took", time.Since(start)).Msg("playlist expanded")

	return &model.Playlist{
		ID:      playlistID,
		Title:   playlistTitle(entries),
		URL:     strings.TrimSpace(url),
		Entries: entries,
	}, nil
}

func fetchWithYtdlp(ctx context.Context, playlistID string) ([]model.PlaylistEntry, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	entries := make([]model.PlaylistEntry, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		entries = append(entries, model.PlaylistEntry{
			VideoID: it.VideoID,
			Title:   it.Title,
			URL:     fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	return entries, nil
}

// playlistTitle derives a title from the entries since the listing API does
// not report one
func playlistTitle(entries []model.PlaylistEntry) string {
	if len(entries) == 0 || entries[0].Title == "" {
		return DefaultPlaylistTitle
	}
	if len(entries) > 1 {
		prefix := strings.TrimSpace(commonPrefix(entries[0].Title, entries[1].Title))
		if len(prefix) > MinPrefixLength {
			return prefix + PlaylistSuffix
		}
	}
	title := entries[0].Title
	if len(title) > MaxTitleLength {
		title = title[:MaxTitleLength] + TitleTruncateSuffix
	}
	return title + PlaylistSuffix
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
