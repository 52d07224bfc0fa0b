package rooms

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexmo-se/aws-recording-download-sample/internal/metrics"
	"github.com/nexmo-se/aws-recording-download-sample/pkg/response"
)

// TokenIssuer mints client credentials for a session.
type TokenIssuer interface {
	GenerateToken(sessionID string, expire time.Duration) (string, error)
	APIKey() string
}

// JoinPayload is the room join handshake returned to the browser.
type JoinPayload struct {
	APIKey    string `json:"api_key"`
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

// Handler handles room HTTP endpoints.
type Handler struct {
	registry    *Registry
	tokens      TokenIssuer
	tokenExpire time.Duration
	logger      *zap.Logger
}

// NewHandler creates a rooms handler.
func NewHandler(registry *Registry, tokens TokenIssuer, tokenExpire time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, tokens: tokens, tokenExpire: tokenExpire, logger: logger}
}

// Join handles GET /api/rooms/:room_name. Resolves or creates the session for
// the room and mints a fresh client token for it.
func (h *Handler) Join(c *gin.Context) {
	roomName := strings.TrimSpace(c.Param("room_name"))
	if roomName == "" {
		response.BadRequest(c, "room name required")
		return
	}

	sessionID, err := h.registry.ResolveOrCreate(c.Request.Context(), roomName)
	if err != nil {
		h.logger.Error("resolve room failed", zap.Error(err), zap.String("room", roomName))
		response.Internal(c, "failed to resolve room session")
		return
	}

	token, err := h.tokens.GenerateToken(sessionID, h.tokenExpire)
	if err != nil {
		h.logger.Error("issue token failed", zap.Error(err), zap.String("room", roomName))
		response.Internal(c, "failed to issue token")
		return
	}
	metrics.TokensIssued.Inc()

	response.OK(c, JoinPayload{
		APIKey:    h.tokens.APIKey(),
		SessionID: sessionID,
		Token:     token,
	})
}
