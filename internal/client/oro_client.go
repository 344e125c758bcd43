package client

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

	"github.com/google/uuid"

	"github.com/orotools/oro-mcp/internal/auth"
	"github.com/orotools/oro-mcp/internal/common"
	"github.com/orotools/oro-mcp/internal/swagger"
)

// CallArgs carries the caller-supplied inputs for one upstream request,
// already partitioned by parameter location.
type CallArgs struct {
	PathParams  map[string]string
	QueryParams map[string]string
	Body        any
}

// CallResult is the uniform outcome of an upstream call. Success is false
// for transport failures, authentication failures and 4xx/5xx responses.
type CallResult struct {
	Success     bool   `json:"success"`
	Data        any    `json:"data,omitempty"`
	Error       string `json:"error,omitempty"`
	HTTPStatus  int    `json:"http_status,omitempty"`
	Path        string `json:"path"`
	Method      string `json:"method"`
	OperationID string `json:"operation_id,omitempty"`
}

// OroClient executes catalog endpoints against the ORO REST API, attaching
// a bearer token from the token manager on every request.
type OroClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     *auth.TokenManager
	logger     *common.Logger
}

func NewOroClient(baseURL string, httpClient *http.Client, tokens *auth.TokenManager, logger *common.Logger) *OroClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 300 * time.Second}
	}
	return &OroClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
		logger:     logger,
	}
}

// Execute runs a catalogued endpoint with the supplied arguments.
func (c *OroClient) Execute(ctx context.Context, endpoint swagger.EndpointDescriptor, args CallArgs) CallResult {
	result := c.do(ctx, endpoint.Method, endpoint.Path, args)
	result.OperationID = endpoint.OperationID
	return result
}

// ExecuteRaw runs an arbitrary method and path against the API. Used by
// the escape-hatch tool for endpoints outside the catalog.
func (c *OroClient) ExecuteRaw(ctx context.Context, method, path string, args CallArgs) CallResult {
	return c.do(ctx, strings.ToUpper(method), path, args)
}

func (c *OroClient) do(ctx context.Context, method, path string, args CallArgs) CallResult {
	correlationID := uuid.New().String()
	log := c.logger.WithCorrelationId(correlationID)

	result := CallResult{Path: path, Method: method}

	resolved := path
	for name, value := range args.PathParams {
		resolved = strings.ReplaceAll(resolved, "{"+name+"}", url.PathEscape(value))
	}
	if strings.Contains(resolved, "{") {
		log.Warn().
			Str("path", resolved).
			Msg("Path still contains unresolved parameters")
	}

	fullURL := c.baseURL + resolved
	if len(args.QueryParams) > 0 {
		query := url.Values{}
		for name, value := range args.QueryParams {
			query.Set(name, value)
		}
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	attachBody := args.Body != nil && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch)
	if attachBody {
		payload, err := json.Marshal(args.Body)
		if err != nil {
			result.Error = fmt.Sprintf("encoding request body: %v", err)
			return result
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		result.Error = fmt.Sprintf("building request: %v", err)
		return result
	}
	req.Header.Set("Accept", "application/json")
	if attachBody {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.EnsureValidToken(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Token acquisition failed")
		result.Error = err.Error()
		return result
	}
	req.Header.Set("Authorization", "Bearer "+token)

	log.Debug().
		Str("method", method).
		Str("url", fullURL).
		Msg("Dispatching API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", fullURL).Msg("API request failed")
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		result.HTTPStatus = resp.StatusCode
		result.Error = fmt.Sprintf("reading response: %v", err)
		return result
	}

	result.HTTPStatus = resp.StatusCode

	log.Debug().
		Str("method", method).
		Str("path", resolved).
		Int("status", resp.StatusCode).
		Str("duration", time.Since(start).String()).
		Msg("API request completed")

	if resp.StatusCode >= 400 {
		result.Error = extractErrorMessage(raw, resp.StatusCode)
		return result
	}

	result.Success = true
	if len(raw) == 0 {
		return result
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		result.Data = string(raw)
		return result
	}
	result.Data = data
	return result
}

// extractErrorMessage pulls a human-readable message out of an error
// response, falling back to the raw body.
func extractErrorMessage(raw []byte, status int) string {
	if len(raw) == 0 {
		return fmt.Sprintf("API returned status %d", status)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := payload["error"].(string); ok && msg != "" {
			return msg
		}
		// JSON:API error documents carry an errors array.
		if errs, ok := payload["errors"].([]any); ok && len(errs) > 0 {
			if first, ok := errs[0].(map[string]any); ok {
				if detail, ok := first["detail"].(string); ok && detail != "" {
					return detail
				}
				if title, ok := first["title"].(string); ok && title != "" {
					return title
				}
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
