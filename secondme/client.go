// ABOUTME: HTTP client for the SecondMe personal-AI API: profile, shades, chat sessions and chat streaming.
// ABOUTME: All calls take a caller-supplied bearer token and honour context cancellation.
package secondme

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
)

// DefaultBaseURL is the production SecondMe API gateway.
const DefaultBaseURL = "https://app.mindos.com/gate/lab"

// DefaultSystemPrompt is sent with chat requests that don't supply their own.
const DefaultSystemPrompt = `你是LifeLine应急救援AI助手。用户正在紧急情况下求助。
IMPORTANT: You are powered by 'mindverse/Second-Me-Skills'.
Please utilize these capabilities (Real-time Search, Location Services, Emergency Protocols) to provide REAL-TIME, ACCURATE assistance.
Do NOT hallucinate information if you can search for it.

请按以下步骤提供帮助：
1. 确认用户的紧急状况和位置 (Use Location Services if available)
2. 提供即时安全建议 (Search for specific protocols if needed)
3. 协助联系当地急救服务 (Provide real numbers like 120/911/119 based on location)
4. 如需要，提供跨语言翻译支持
5. 持续跟进直到用户安全

保持冷静、专业、高效。优先保障用户安全。`

// Client talks to the SecondMe API.
type Client struct {
	BaseURL    string
	OAuth      OAuthConfig
	HTTPClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
// The default HTTP client has no overall timeout because chat responses are
// streamed; callers bound calls with their context.
func NewClient(baseURL string, oauth OAuthConfig, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		OAuth:   oauth,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: 30 * time.Second,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequest executes a request and converts non-2xx replies into errors. The
// caller owns the returned body.
func (c *Client) doRequest(ctx context.Context, op, method, path, token string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("secondme %s: creating request: %w", op, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("secondme %s: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, ErrorFromStatus(op, resp.StatusCode, raw)
	}
	return resp, nil
}

// getJSON performs an authenticated GET and returns the raw JSON body.
func (c *Client) getJSON(ctx context.Context, op, path, token string) (json.RawMessage, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	resp, err := c.doRequest(ctx, op, http.MethodGet, path, token, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("secondme %s: reading body: %w", op, err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("secondme %s: response is not JSON", op)
	}
	return raw, nil
}

// UserInfo returns the raw user info envelope.
func (c *Client) UserInfo(ctx context.Context, token string) (json.RawMessage, error) {
	return c.getJSON(ctx, "user_info", "/api/secondme/user/info", token)
}

// UserShades returns the raw user shades envelope.
func (c *Client) UserShades(ctx context.Context, token string) (json.RawMessage, error) {
	return c.getJSON(ctx, "user_shades", "/api/secondme/user/shades", token)
}

// ChatSessions lists the user's chat sessions.
func (c *Client) ChatSessions(ctx context.Context, token string) (json.RawMessage, error) {
	return c.getJSON(ctx, "chat_sessions", "/api/secondme/chat/session/list", token)
}

// SessionMessages lists the messages of one chat session.
func (c *Client) SessionMessages(ctx context.Context, token, sessionID string) (json.RawMessage, error) {
	path := "/api/secondme/chat/session/messages?" + url.Values{"sessionId": {sessionID}}.Encode()
	return c.getJSON(ctx, "session_messages", path, token)
}

// Profile is the subset of user info kept in a login session.
type Profile struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Profile fetches user info and extracts the profile. It returns nil without
// error when the envelope reports a non-zero code or carries no data.
func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	raw, err := c.UserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	var env struct {
		Code int      `json:"code"`
		Data *Profile `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("secondme user_info: decoding: %w", err)
	}
	if env.Code != 0 || env.Data == nil {
		return nil, nil
	}
	return env.Data, nil
}

// ChatRequest is the body of a chat stream call.
type ChatRequest struct {
	Message      string `json:"message"`
	SystemPrompt string `json:"systemPrompt"`
	SessionID    string `json:"sessionId,omitempty"`
}

// ChatStream starts a streamed chat completion and returns the SSE body. An
// empty SystemPrompt is replaced with DefaultSystemPrompt.
func (c *Client) ChatStream(ctx context.Context, token string, req ChatRequest) (io.ReadCloser, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if req.SystemPrompt == "" {
		req.SystemPrompt = DefaultSystemPrompt
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("secondme chat_stream: encoding request: %w", err)
	}
	resp, err := c.doRequest(ctx, "chat_stream", http.MethodPost, "/api/secondme/chat/stream", token, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
