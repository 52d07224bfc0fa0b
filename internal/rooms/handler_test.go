package rooms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeIssuer struct{ fail bool }

func (f *fakeIssuer) GenerateToken(sessionID string, expire time.Duration) (string, error) {
	if f.fail {
		return "", assert.AnError
	}
	return "tok-" + sessionID, nil
}

func (f *fakeIssuer) APIKey() string { return "47000000" }

func newRoomsRouter(registry *Registry, issuer TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(registry, issuer, time.Hour, nil)
	router := gin.New()
	router.GET("/api/rooms/:room_name", h.Join)
	return router
}

func TestJoinReturnsHandshakePayload(t *testing.T) {
	registry := NewRegistry(&fakeProvider{}, nil)
	router := newRoomsRouter(registry, &fakeIssuer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms/demo", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var payload JoinPayload
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "47000000", payload.APIKey)
	assert.Equal(t, "session-1", payload.SessionID)
	assert.Equal(t, "tok-session-1", payload.Token)
}

func TestJoinReusesSessionAcrossRequests(t *testing.T) {
	registry := NewRegistry(&fakeProvider{}, nil)
	router := newRoomsRouter(registry, &fakeIssuer{})

	var first, second JoinPayload
	for _, out := range []*JoinPayload{&first, &second} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms/demo", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestJoinProviderFailureIsServerError(t *testing.T) {
	registry := NewRegistry(&fakeProvider{err: assert.AnError}, nil)
	router := newRoomsRouter(registry, &fakeIssuer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms/demo", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
