package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nexmo-se/aws-recording-download-sample/internal/metrics"
	"github.com/nexmo-se/aws-recording-download-sample/internal/opentok"
	"github.com/nexmo-se/aws-recording-download-sample/pkg/storage"
)

// ErrNotReady means the archive exists but has not finished uploading to cold
// storage. It is a retryable condition, not a hard failure.
var ErrNotReady = errors.New("archive not yet uploaded")

// StatusReader reads the provider's current view of an archive.
type StatusReader interface {
	GetArchive(ctx context.Context, archiveID string) (opentok.Archive, error)
}

// URLSigner generates a time-limited signed read URL for a storage object.
type URLSigner interface {
	SignedDownloadURL(ctx context.Context, key string, expire time.Duration) (string, error)
}

// Media is a resolved download for an uploaded archive. It is recomputed on
// every resolution; the URL must not be reused past ExpiresAt.
type Media struct {
	ArchiveID string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"-"`
}

// Config tunes the resolution loop.
type Config struct {
	// APIKey is the provider project key; it prefixes every archive object in
	// the bucket.
	APIKey string
	// URLExpire is the signed URL lifetime.
	URLExpire time.Duration
	// PollInterval is the fixed backoff between readiness checks in Await.
	PollInterval time.Duration
	// MaxWait caps the total time Await will poll. Zero means poll forever,
	// matching the provider's own unbounded upload window.
	MaxWait time.Duration
}

// Resolver turns an uploaded archive into a signed download URL, waiting out
// the provider's asynchronous upload when asked to.
type Resolver struct {
	provider StatusReader
	store    URLSigner
	cfg      Config
	logger   *zap.Logger
}

// New creates a resolver.
func New(provider StatusReader, store URLSigner, cfg Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.URLExpire <= 0 {
		cfg.URLExpire = 5 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	return &Resolver{provider: provider, store: store, cfg: cfg, logger: logger}
}

// Resolve makes a single attempt: query status, and if the archive is
// uploaded, sign a download URL for it. A not-yet-uploaded archive yields
// ErrNotReady so the caller can decide to retry.
func (r *Resolver) Resolve(ctx context.Context, archiveID string) (Media, error) {
	metrics.ResolverPolls.Inc()
	archive, err := r.provider.GetArchive(ctx, archiveID)
	if err != nil {
		return Media{}, err
	}
	if !archive.Uploaded() {
		return Media{}, fmt.Errorf("archive %s is %s: %w", archiveID, archive.Status, ErrNotReady)
	}
	return r.sign(ctx, archiveID)
}

// Await polls until the archive is uploaded, then signs a download URL.
// Any status-query failure is folded into the retry path along with
// ErrNotReady; the provider controls upload timing, so readiness errors are
// indistinguishable from "not yet" here. The loop stops on ctx cancellation,
// on the MaxWait cap when one is configured, or on a signing failure once the
// archive is uploaded.
func (r *Resolver) Await(ctx context.Context, archiveID string) (Media, error) {
	if r.cfg.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.MaxWait)
		defer cancel()
	}

	for {
		metrics.ResolverPolls.Inc()
		archive, err := r.provider.GetArchive(ctx, archiveID)
		if err == nil && archive.Uploaded() {
			return r.sign(ctx, archiveID)
		}
		if err != nil {
			if ctx.Err() != nil {
				return Media{}, ctx.Err()
			}
			r.logger.Debug("archive status query failed, will retry",
				zap.String("archive_id", archiveID), zap.Error(err))
		} else {
			r.logger.Debug("archive not ready",
				zap.String("archive_id", archiveID), zap.String("status", archive.Status))
		}

		select {
		case <-ctx.Done():
			return Media{}, ctx.Err()
		case <-time.After(r.cfg.PollInterval):
		}
	}
}

func (r *Resolver) sign(ctx context.Context, archiveID string) (Media, error) {
	key := storage.ArchiveKey(r.cfg.APIKey, archiveID)
	url, err := r.store.SignedDownloadURL(ctx, key, r.cfg.URLExpire)
	if err != nil {
		return Media{}, fmt.Errorf("sign download url: %w", err)
	}
	metrics.ResolverResolved.Inc()
	return Media{
		ArchiveID: archiveID,
		URL:       url,
		ExpiresAt: time.Now().Add(r.cfg.URLExpire),
	}, nil
}
