// ABOUTME: Login sessions carried in an HS256-signed JWT cookie holding the SecondMe token pair.
// ABOUTME: Also issues the short-lived oauth_state cookie used to check the OAuth callback.
package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/2389-research/lifeline/secondme"
)

const (
	SessionCookieName = "lifeline_session"
	StateCookieName   = "oauth_state"

	sessionTTL = 30 * 24 * time.Hour
	stateTTL   = 10 * time.Minute

	// refreshWindow is how close to expiry a token counts as expiring soon.
	refreshWindow = 5 * time.Minute
)

var ErrNoSession = errors.New("web: no valid session")

// Session is the data kept in the session cookie.
type Session struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	TokenExpiry  int64             `json:"expires_at"`
	User         *secondme.Profile `json:"user,omitempty"`
}

// ExpiringSoon reports whether the access token is within five minutes of expiry.
func (s *Session) ExpiringSoon(now time.Time) bool {
	return now.Unix() > s.TokenExpiry-int64(refreshWindow/time.Second)
}

type sessionClaims struct {
	Session
	jwt.RegisteredClaims
}

// SessionManager signs and verifies session cookies.
type SessionManager struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// NewSessionManager returns a manager signing with secret. secure marks
// cookies Secure for HTTPS deployments.
func NewSessionManager(secret string, secure bool) *SessionManager {
	return &SessionManager{secret: []byte(secret), secure: secure, now: time.Now}
}

// NewSession builds a session from a fresh token response.
func (m *SessionManager) NewSession(t *secondme.Tokens, user *secondme.Profile) Session {
	return Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenExpiry:  m.now().Unix() + int64(t.ExpiresIn),
		User:         user,
	}
}

// Encode signs s into a JWT valid for thirty days.
func (m *SessionManager) Encode(s Session) (string, error) {
	now := m.now()
	claims := sessionClaims{
		Session: s,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies a session JWT.
func (m *SessionManager) Decode(token string) (*Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return &claims.Session, nil
}

// FromRequest returns the session carried by r.
func (m *SessionManager) FromRequest(r *http.Request) (*Session, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	return m.Decode(c.Value)
}

// AccessToken returns the request's access token. Tokens close to expiry are
// still returned; refreshing is the client's job.
func (m *SessionManager) AccessToken(r *http.Request) (string, bool) {
	s, err := m.FromRequest(r)
	if err != nil || s.AccessToken == "" {
		return "", false
	}
	if s.ExpiringSoon(m.now()) {
		log.Printf("component=web action=session_expiring_soon")
	}
	return s.AccessToken, true
}

// Write stores s in the session cookie.
func (m *SessionManager) Write(w http.ResponseWriter, s Session) error {
	signed, err := m.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(SessionCookieName, signed, sessionTTL))
	return nil
}

// Clear deletes the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(SessionCookieName, "", -1))
}

// WriteState stores the OAuth anti-forgery state.
func (m *SessionManager) WriteState(w http.ResponseWriter, state string) {
	http.SetCookie(w, m.cookie(StateCookieName, state, stateTTL))
}

// ClearState deletes the OAuth state cookie.
func (m *SessionManager) ClearState(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(StateCookieName, "", -1))
}

func (m *SessionManager) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl / time.Second)
	}
	return c
}
