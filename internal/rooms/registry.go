package rooms

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nexmo-se/aws-recording-download-sample/internal/metrics"
)

// SessionCreator creates a new provider session for a room.
type SessionCreator interface {
	CreateSession(ctx context.Context) (string, error)
}

// Registry maps room names to provider session ids. State is process-scoped:
// entries are created lazily on first lookup, never mutated afterwards, and
// cleared on restart. Concurrent first-joiners for the same brand-new room
// name share a single provider creation call, so exactly one session id ever
// becomes reachable under a given name.
type Registry struct {
	provider SessionCreator
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]string
	group    singleflight.Group
}

// NewRegistry creates an empty room registry.
func NewRegistry(provider SessionCreator, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		provider: provider,
		logger:   logger,
		sessions: make(map[string]string),
	}
}

// ResolveOrCreate returns the session id for roomName, creating a provider
// session on first access. Provider failures propagate without retry.
func (r *Registry) ResolveOrCreate(ctx context.Context, roomName string) (string, error) {
	r.mu.RLock()
	sessionID, ok := r.sessions[roomName]
	r.mu.RUnlock()
	if ok {
		return sessionID, nil
	}

	v, err, _ := r.group.Do(roomName, func() (interface{}, error) {
		// A racing creator may have finished while we waited for the group.
		r.mu.RLock()
		existing, ok := r.sessions[roomName]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		created, err := r.provider.CreateSession(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.sessions[roomName] = created
		r.mu.Unlock()

		metrics.SessionsCreated.Inc()
		r.logger.Info("session created", zap.String("room", roomName))
		return created, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Lookup returns the session id for roomName without creating one.
func (r *Registry) Lookup(roomName string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessionID, ok := r.sessions[roomName]
	return sessionID, ok
}
