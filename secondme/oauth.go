// ABOUTME: OAuth authorization-code flow against SecondMe: authorize URL, code exchange and refresh.
// ABOUTME: Token endpoints are form-encoded and may answer in an envelope or flat, camel or snake case.
package secondme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultAuthorizeURL is the SecondMe OAuth consent page.
const DefaultAuthorizeURL = "https://go.second.me/oauth/"

// DefaultTokenTTL is assumed when a token response omits its lifetime, in seconds.
const DefaultTokenTTL = 7200

// ErrOAuthNotConfigured is returned when client credentials are missing.
var ErrOAuthNotConfigured = errors.New("secondme: oauth client not configured")

// OAuthConfig holds the registered OAuth client.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthorizeURL string
}

// Configured reports whether client credentials are present.
func (o OAuthConfig) Configured() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

// Tokens is a normalized token response.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// AuthURL returns the consent URL for the given anti-forgery state.
func (c *Client) AuthURL(state string) string {
	base := c.OAuth.AuthorizeURL
	if base == "" {
		base = DefaultAuthorizeURL
	}
	params := url.Values{
		"client_id":     {c.OAuth.ClientID},
		"redirect_uri":  {c.OAuth.RedirectURI},
		"response_type": {"code"},
		"state":         {state},
	}
	return base + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Tokens, error) {
	return c.tokenRequest(ctx, "token_exchange", "/api/oauth/token/code", url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.OAuth.RedirectURI},
	})
}

// RefreshToken trades a refresh token for a new token pair.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*Tokens, error) {
	return c.tokenRequest(ctx, "token_refresh", "/api/oauth/token/refresh", url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})
}

func (c *Client) tokenRequest(ctx context.Context, op, path string, form url.Values) (*Tokens, error) {
	if !c.OAuth.Configured() {
		return nil, ErrOAuthNotConfigured
	}
	form.Set("client_id", c.OAuth.ClientID)
	form.Set("client_secret", c.OAuth.ClientSecret)

	resp, err := c.doRequest(ctx, op, http.MethodPost, path, "", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("secondme %s: reading body: %w", op, err)
	}
	tokens, err := decodeTokens(raw)
	if err != nil {
		return nil, fmt.Errorf("secondme %s: %w", op, err)
	}
	return tokens, nil
}

type tokenFields struct {
	AccessToken       string `json:"accessToken"`
	AccessTokenSnake  string `json:"access_token"`
	RefreshToken      string `json:"refreshToken"`
	RefreshTokenSnake string `json:"refresh_token"`
	ExpiresIn         int    `json:"expiresIn"`
	ExpiresInSnake    int    `json:"expires_in"`
}

// decodeTokens accepts {"data": {...}} or a flat object, in camel or snake case.
func decodeTokens(raw []byte) (*Tokens, error) {
	var env struct {
		Data *tokenFields `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	fields := env.Data
	if fields == nil {
		fields = &tokenFields{}
		if err := json.Unmarshal(raw, fields); err != nil {
			return nil, fmt.Errorf("decoding token response: %w", err)
		}
	}

	t := &Tokens{
		AccessToken:  firstNonEmpty(fields.AccessToken, fields.AccessTokenSnake),
		RefreshToken: firstNonEmpty(fields.RefreshToken, fields.RefreshTokenSnake),
		ExpiresIn:    fields.ExpiresIn,
	}
	if t.ExpiresIn == 0 {
		t.ExpiresIn = fields.ExpiresInSnake
	}
	if t.ExpiresIn == 0 {
		t.ExpiresIn = DefaultTokenTTL
	}
	if t.AccessToken == "" {
		return nil, errors.New("token response has no access token")
	}
	return t, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
