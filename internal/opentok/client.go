package opentok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// authExpire is the lifetime of the per-request project auth JWT.
	authExpire = 5 * time.Minute
	// requestTimeout bounds a single provider REST call.
	requestTimeout = 30 * time.Second
)

// Client is a REST client for the OpenTok/Vonage video API. Every request is
// authenticated with a short-lived project JWT in the X-OPENTOK-AUTH header.
type Client struct {
	apiKey    string
	apiSecret string
	baseURL   string
	http      *http.Client
	logger    *zap.Logger
}

// NewClient creates a provider client.
func NewClient(apiKey, apiSecret, baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: requestTimeout},
		logger:    logger,
	}
}

// APIKey returns the provider project key. The key is part of the public
// client handshake and of the storage object naming convention.
func (c *Client) APIKey() string { return c.apiKey }

// CreateSession creates a new routed session. Routed media is required so the
// provider can record the call server-side.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("p2p.preference", "disabled")
	form.Set("archiveMode", "manual")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/session/create", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var sessions []struct {
		SessionID string `json:"session_id"`
	}
	if err := c.do(req, &sessions); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if len(sessions) == 0 || sessions[0].SessionID == "" {
		return "", fmt.Errorf("create session: empty response")
	}
	return sessions[0].SessionID, nil
}

// StartArchive begins recording the given session.
func (c *Client) StartArchive(ctx context.Context, sessionID, name string) (Archive, error) {
	body, err := json.Marshal(map[string]string{
		"sessionId": sessionID,
		"name":      name,
	})
	if err != nil {
		return Archive{}, fmt.Errorf("start archive body: %w", err)
	}
	u := fmt.Sprintf("%s/v2/project/%s/archive", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return Archive{}, fmt.Errorf("start archive request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var archive Archive
	if err := c.do(req, &archive); err != nil {
		return Archive{}, fmt.Errorf("start archive: %w", err)
	}
	return archive, nil
}

// StopArchive asks the provider to halt recording. Stopping an archive that is
// no longer recording is the provider's call to judge; the answer is forwarded as-is.
func (c *Client) StopArchive(ctx context.Context, archiveID string) (Archive, error) {
	u := fmt.Sprintf("%s/v2/project/%s/archive/%s/stop", c.baseURL, c.apiKey, url.PathEscape(archiveID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return Archive{}, fmt.Errorf("stop archive request: %w", err)
	}

	var archive Archive
	if err := c.do(req, &archive); err != nil {
		return Archive{}, fmt.Errorf("stop archive: %w", err)
	}
	return archive, nil
}

// GetArchive returns a fresh snapshot of the archive from the provider.
// Status transitions (uploading → uploaded in particular) happen on the
// provider side, so the result is never cached.
func (c *Client) GetArchive(ctx context.Context, archiveID string) (Archive, error) {
	u := fmt.Sprintf("%s/v2/project/%s/archive/%s", c.baseURL, c.apiKey, url.PathEscape(archiveID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Archive{}, fmt.Errorf("get archive request: %w", err)
	}

	var archive Archive
	if err := c.do(req, &archive); err != nil {
		return Archive{}, fmt.Errorf("get archive: %w", err)
	}
	return archive, nil
}

// do signs and executes a request, decoding the JSON response into out.
func (c *Client) do(req *http.Request, out interface{}) error {
	auth, err := c.authToken()
	if err != nil {
		return fmt.Errorf("sign request: %w", err)
	}
	req.Header.Set("X-OPENTOK-AUTH", auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("provider request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authToken mints the project JWT used to authenticate REST calls.
func (c *Client) authToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": c.apiKey,
		"ist": "project",
		"iat": now.Unix(),
		"exp": now.Add(authExpire).Unix(),
		"jti": uuid.New().String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.apiSecret))
}
