package archives

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexmo-se/aws-recording-download-sample/internal/resolver"
	"github.com/nexmo-se/aws-recording-download-sample/pkg/response"
)

// MediaResolver turns an uploaded archive into a signed download URL.
type MediaResolver interface {
	Resolve(ctx context.Context, archiveID string) (resolver.Media, error)
	Await(ctx context.Context, archiveID string) (resolver.Media, error)
}

// Handler handles archive HTTP endpoints.
type Handler struct {
	controller *Controller
	media      MediaResolver
	logger     *zap.Logger
}

// NewHandler creates an archives handler.
func NewHandler(controller *Controller, media MediaResolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{controller: controller, media: media, logger: logger}
}

// Start handles POST /api/rooms/:room_name/archives.
func (h *Handler) Start(c *gin.Context) {
	roomName := c.Param("room_name")
	archive, err := h.controller.Start(c.Request.Context(), roomName)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			response.NotFound(c, "no session for room")
			return
		}
		h.logger.Error("start archive failed", zap.Error(err), zap.String("room", roomName))
		response.Internal(c, "failed to start archive")
		return
	}
	response.OK(c, Wire(archive))
}

// Stop handles DELETE /api/archives/:archive_id.
func (h *Handler) Stop(c *gin.Context) {
	archiveID := c.Param("archive_id")
	archive, err := h.controller.Stop(c.Request.Context(), archiveID)
	if err != nil {
		h.logger.Error("stop archive failed", zap.Error(err), zap.String("archive_id", archiveID))
		response.Internal(c, "failed to stop archive")
		return
	}
	response.OK(c, Wire(archive))
}

// Get handles GET /api/archives/:archive_id. Single resolution attempt: the
// caller owns the retry loop and is expected to poll this endpoint until the
// archive has uploaded.
func (h *Handler) Get(c *gin.Context) {
	archiveID := c.Param("archive_id")
	media, err := h.media.Resolve(c.Request.Context(), archiveID)
	if err != nil {
		if errors.Is(err, resolver.ErrNotReady) {
			response.Internal(c, "archive not ready")
			return
		}
		h.logger.Error("resolve archive failed", zap.Error(err), zap.String("archive_id", archiveID))
		response.Internal(c, "failed to resolve archive")
		return
	}
	response.OK(c, media)
}

// Await handles GET /api/archives/:archive_id/await. Long-poll variant of Get
// for callers that prefer the wait loop server-side: the response is held
// open until the archive uploads, the configured cap passes, or the client
// disconnects.
func (h *Handler) Await(c *gin.Context) {
	archiveID := c.Param("archive_id")
	media, err := h.media.Await(c.Request.Context(), archiveID)
	if err != nil {
		h.logger.Warn("await archive failed", zap.Error(err), zap.String("archive_id", archiveID))
		response.Internal(c, "failed to resolve archive")
		return
	}
	response.OK(c, media)
}
