package archives

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nexmo-se/aws-recording-download-sample/internal/metrics"
	"github.com/nexmo-se/aws-recording-download-sample/internal/opentok"
)

// ErrNoSession is returned when an archive is started for a room nobody has
// joined yet. Starting a recording is only meaningful for a live session, so
// the caller must have resolved the room first.
var ErrNoSession = errors.New("no session for room")

// SessionLookup resolves an existing room to its session id without creating one.
type SessionLookup interface {
	Lookup(roomName string) (string, bool)
}

// ArchiveAPI is the provider surface the controller drives.
type ArchiveAPI interface {
	StartArchive(ctx context.Context, sessionID, name string) (opentok.Archive, error)
	StopArchive(ctx context.Context, archiveID string) (opentok.Archive, error)
	GetArchive(ctx context.Context, archiveID string) (opentok.Archive, error)
}

// Controller drives the archive lifecycle against the provider. All state
// transitions are provider-owned; the controller only starts, stops and reads.
type Controller struct {
	sessions SessionLookup
	provider ArchiveAPI
	logger   *zap.Logger
}

// NewController creates an archive controller.
func NewController(sessions SessionLookup, provider ArchiveAPI, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{sessions: sessions, provider: provider, logger: logger}
}

// Start begins recording the session registered for roomName. The room must
// already exist; no session is created implicitly and no provider call is
// made when the precondition fails.
func (s *Controller) Start(ctx context.Context, roomName string) (opentok.Archive, error) {
	sessionID, ok := s.sessions.Lookup(roomName)
	if !ok {
		return opentok.Archive{}, fmt.Errorf("start archive for %q: %w", roomName, ErrNoSession)
	}
	archive, err := s.provider.StartArchive(ctx, sessionID, roomName)
	if err != nil {
		return opentok.Archive{}, err
	}
	metrics.ArchivesStarted.Inc()
	s.logger.Info("archive started",
		zap.String("room", roomName),
		zap.String("archive_id", archive.ID),
		zap.String("status", archive.Status),
	)
	return archive, nil
}

// Stop halts recording for the given archive id and forwards the provider's
// answer as-is.
func (s *Controller) Stop(ctx context.Context, archiveID string) (opentok.Archive, error) {
	archive, err := s.provider.StopArchive(ctx, archiveID)
	if err != nil {
		return opentok.Archive{}, err
	}
	metrics.ArchivesStopped.Inc()
	s.logger.Info("archive stopped",
		zap.String("archive_id", archive.ID),
		zap.String("status", archive.Status),
	)
	return archive, nil
}

// Status returns a fresh provider snapshot of the archive. Pure read, no
// caching: upload transitions happen asynchronously on the provider side.
func (s *Controller) Status(ctx context.Context, archiveID string) (opentok.Archive, error) {
	return s.provider.GetArchive(ctx, archiveID)
}
