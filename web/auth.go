// ABOUTME: SecondMe OAuth routes: login redirect, code callback, token refresh and logout.
// ABOUTME: Failures redirect home with an error code; the session is a signed cookie, never server state.
package web

import (
	"log"
	"net/http"

	"github.com/google/uuid"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	s.cfg.Sessions.WriteState(w, state)
	http.Redirect(w, r, s.cfg.SecondMe.AuthURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	if code == "" {
		http.Redirect(w, r, "/?error=no_code", http.StatusFound)
		return
	}

	saved := ""
	if c, err := r.Cookie(StateCookieName); err == nil {
		saved = c.Value
	}
	state := q.Get("state")
	if saved == "" || state == "" || state != saved {
		log.Printf("component=web action=oauth_callback result=state_mismatch has_saved_state=%t", saved != "")
		http.Redirect(w, r, "/?error=state_mismatch", http.StatusFound)
		return
	}

	tokens, err := s.cfg.SecondMe.ExchangeCode(r.Context(), code)
	if err != nil {
		log.Printf("component=web action=oauth_callback result=exchange_failed err=%v", err)
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}

	// User info is optional; the session works without it.
	user, err := s.cfg.SecondMe.Profile(r.Context(), tokens.AccessToken)
	if err != nil {
		log.Printf("component=web action=oauth_callback result=profile_unavailable err=%v", err)
		user = nil
	}

	if err := s.cfg.Sessions.Write(w, s.cfg.Sessions.NewSession(tokens, user)); err != nil {
		log.Printf("component=web action=oauth_callback result=session_failed err=%v", err)
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}
	s.cfg.Sessions.ClearState(w)
	log.Printf("component=web action=oauth_callback result=ok has_profile=%t", user != nil)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sess, err := s.cfg.Sessions.FromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "No session")
		return
	}

	tokens, err := s.cfg.SecondMe.RefreshToken(r.Context(), sess.RefreshToken)
	if err != nil {
		log.Printf("component=web action=refresh result=failed err=%v", err)
		writeError(w, http.StatusUnauthorized, "Refresh failed")
		return
	}

	s.userInfo.Remove(sess.AccessToken)
	next := s.cfg.Sessions.NewSession(tokens, sess.User)
	if err := s.cfg.Sessions.Write(w, next); err != nil {
		log.Printf("component=web action=refresh result=session_failed err=%v", err)
		writeError(w, http.StatusUnauthorized, "Refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, err := s.cfg.Sessions.FromRequest(r); err == nil {
		s.userInfo.Remove(sess.AccessToken)
	}
	s.cfg.Sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
