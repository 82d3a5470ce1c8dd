// ABOUTME: HTML page handlers for the landing page and the coordination dashboard.
// ABOUTME: The dashboard works without a session; coordination then plays a fallback scenario.
package web

import (
	"log"
	"net/http"
)

func (s *Server) pageData(r *http.Request, title string) PageData {
	data := PageData{Title: title, QuickTags: QuickTags}
	if sess, err := s.cfg.Sessions.FromRequest(r); err == nil {
		data.LoggedIn = true
		data.User = sess.User
	}
	return data
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "home.html", s.pageData(r, "LifeLine"))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "dashboard.html", s.pageData(r, "LifeLine · 应急协调"))
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data PageData) {
	if err := s.pages.Render(w, name, data); err != nil {
		log.Printf("component=web action=render_page page=%s err=%v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
