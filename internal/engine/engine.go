package engine

import (
	"context"

	"github.com/ytget/yt-queue/internal/model"
)

// Engine is the capability the coordinator dispatches work to.
//
// Transfer returns as soon as the transfer has started. The returned channel
// delivers events in arrival order and is closed after exactly one terminal
// event (complete or error).
type Engine interface {
	ResolveMetadata(ctx context.Context, url string) (*model.Metadata, error)
	Transfer(ctx context.Context, req TransferRequest) (<-chan Event, error)
}
