package download

import (
	"github.com/ytget/yt-queue/internal/model"
)

// Downloader defines the coordinator operations available to presentation
// layers.
type Downloader interface {
	Subscribe(func(Event)) (unsubscribe func())
	Enqueue(url string, metadata *model.Metadata, options model.Options) (string, error)
	EnqueuePlaylist(playlist *model.Playlist, options model.Options) ([]string, error)
	Dispatch(id string) error
	Retry(id string) error
	Cancel(id string) error
	Remove(id string) error
	Get(id string) (*model.Download, bool)
	List() []*model.Download
	Stats() model.Stats
	OutputLocation(id string) (string, error)
	Close()
}
