package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/orotools/oro-mcp/internal/common"
)

// expiryMargin is subtracted from the upstream expires_in so a token is
// refreshed before it actually lapses mid-request.
const expiryMargin = 300 * time.Second

// AuthenticationError reports a failed token acquisition. The reason is
// safe to surface to callers; the wrapped error carries transport detail.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// TokenManager holds a single OAuth2 client-credentials token and
// refreshes it on demand. Safe for concurrent use.
type TokenManager struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *common.Logger
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewTokenManager(tokenURL, clientID, clientSecret string, httpClient *http.Client, logger *common.Logger) *TokenManager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TokenManager{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		logger:       logger,
		now:          time.Now,
	}
}

// EnsureValidToken returns the cached access token, refreshing it first
// when missing or within the expiry margin. A refresh failure leaves any
// prior token state untouched.
func (tm *TokenManager) EnsureValidToken(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.accessToken != "" && tm.now().Before(tm.expiresAt) {
		return tm.accessToken, nil
	}
	if err := tm.refreshLocked(ctx); err != nil {
		return "", err
	}
	return tm.accessToken, nil
}

func (tm *TokenManager) refreshLocked(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", tm.clientID)
	form.Set("client_secret", tm.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &AuthenticationError{Reason: "building token request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := tm.now()
	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return &AuthenticationError{Reason: "token endpoint unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &AuthenticationError{Reason: "reading token response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		tm.logger.Warn().
			Int("status", resp.StatusCode).
			Msg("Token endpoint returned an error")
		return &AuthenticationError{Reason: fmt.Sprintf("token endpoint returned status %d", resp.StatusCode)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return &AuthenticationError{Reason: "malformed token response", Err: err}
	}
	if tok.AccessToken == "" {
		return &AuthenticationError{Reason: "token response missing access_token"}
	}

	tm.accessToken = tok.AccessToken
	tm.expiresAt = tm.now().Add(time.Duration(tok.ExpiresIn)*time.Second - expiryMargin)

	tm.logger.Debug().
		Int64("expires_in", tok.ExpiresIn).
		Str("duration", tm.now().Sub(start).String()).
		Msg("Access token refreshed")
	return nil
}

// Invalidate drops the cached token so the next call refreshes.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.accessToken = ""
	tm.expiresAt = time.Time{}
}
