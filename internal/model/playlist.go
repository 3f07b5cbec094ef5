package model

import (
	"net/url"
	"strings"
)

// PlaylistQueryParam marks a playlist URL
const PlaylistQueryParam = "list"

// PlaylistEntry is a single video of a playlist
type PlaylistEntry struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// Playlist is an expanded playlist whose entries are enqueued one by one
type Playlist struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	URL     string          `json:"url"`
	Entries []PlaylistEntry `json:"entries"`
}

// Len returns the number of entries
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Entries)
}

// PlaylistID extracts the list= parameter, or "" when absent
func PlaylistID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return u.Query().Get(PlaylistQueryParam)
}

// IsPlaylistURL checks whether the URL references a playlist
func IsPlaylistURL(rawURL string) bool {
	return PlaylistID(rawURL) != ""
}
