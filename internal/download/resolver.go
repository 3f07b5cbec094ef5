package download

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
)

// Resolver fetches metadata before a download is enqueued. A failed lookup
// never creates a download; the caller may retry or enqueue without
// metadata.
type Resolver struct {
	engine  engine.Engine
	timeout time.Duration
	log     zerolog.Logger
}

// NewResolver creates a resolver backed by eng
func NewResolver(eng engine.Engine) *Resolver {
	return &Resolver{
		engine:  eng,
		timeout: engine.DefaultResolveTimeout,
		log:     logger.Get("resolver"),
	}
}

// SetTimeout changes the lookup timeout; non-positive values disable it
func (r *Resolver) SetTimeout(d time.Duration) {
	r.timeout = d
}

// Resolve validates url and asks the engine for its metadata. Errors are
// *engine.ValidationError or *engine.ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, url string) (*model.Metadata, error) {
	if err := engine.ValidateURL(url); err != nil {
		return nil, err
	}
	url = strings.TrimSpace(url)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	meta, err := r.engine.ResolveMetadata(ctx, url)
	if err != nil {
		var resErr *engine.ResolutionError
		if !errors.As(err, &resErr) {
			err = &engine.ResolutionError{URL: url, Message: err.Error()}
		}
		r.log.Warn().Err(err).Str("url", url).Msg("metadata lookup failed")
		return nil, err
	}
	if meta == nil {
		meta = &model.Metadata{}
	}
	r.log.Debug().Str("url", url).Str("title", meta.Title).Dur("took", time.Since(start)).Msg("metadata resolved")
	return meta, nil
}
