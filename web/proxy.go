// ABOUTME: Authenticated pass-through routes to the SecondMe user and chat APIs.
// ABOUTME: User info is cached per access token; the chat stream is copied through while session ids are observed.
package web

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/2389-research/lifeline/secondme"
	"github.com/2389-research/lifeline/sse"
)

// ChatSessionTrailer carries the chat session id seen in a proxied stream.
const ChatSessionTrailer = "X-Chat-Session-Id"

// requireToken writes a 401 and reports false when r has no session.
func (s *Server) requireToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := s.cfg.Sessions.AccessToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return token, ok
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireToken(w, r)
	if !ok {
		return
	}
	if cached, ok := s.userInfo.Get(token); ok {
		writeRaw(w, cached)
		return
	}
	data, err := s.cfg.SecondMe.UserInfo(r.Context(), token)
	if err != nil {
		log.Printf("component=web action=user_info status=%d err=%v", secondme.StatusCode(err), err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch user info")
		return
	}
	s.userInfo.Add(token, data)
	writeRaw(w, data)
}

func (s *Server) handleUserShades(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireToken(w, r)
	if !ok {
		return
	}
	data, err := s.cfg.SecondMe.UserShades(r.Context(), token)
	if err != nil {
		log.Printf("component=web action=user_shades status=%d err=%v", secondme.StatusCode(err), err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch shades")
		return
	}
	writeRaw(w, data)
}

func (s *Server) handleChatSessions(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireToken(w, r)
	if !ok {
		return
	}
	var (
		data json.RawMessage
		err  error
	)
	if id := r.URL.Query().Get("sessionId"); id != "" {
		data, err = s.cfg.SecondMe.SessionMessages(r.Context(), token, id)
	} else {
		data, err = s.cfg.SecondMe.ChatSessions(r.Context(), token)
	}
	if err != nil {
		log.Printf("component=web action=chat_sessions status=%d err=%v", secondme.StatusCode(err), err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch sessions")
		return
	}
	writeRaw(w, data)
}

type chatStreamRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireToken(w, r)
	if !ok {
		return
	}
	var req chatStreamRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	log.Printf("component=web action=chat_stream message_len=%d has_session=%t", len(req.Message), req.SessionID != "")

	body, err := s.cfg.SecondMe.ChatStream(r.Context(), token, secondme.ChatRequest{
		Message:   req.Message,
		SessionID: req.SessionID,
	})
	if err != nil {
		log.Printf("component=web action=chat_stream status=%d err=%v", secondme.StatusCode(err), err)
		writeError(w, http.StatusInternalServerError, "Chat stream failed")
		return
	}
	defer body.Close()

	w.Header().Set("Trailer", ChatSessionTrailer)
	sw := sse.NewWriter(w)

	// Copy the upstream bytes through unchanged while a second reader watches
	// them for the session id.
	pr, pw := io.Pipe()
	sessionID := make(chan string, 1)
	go func() {
		defer pr.Close()
		var seen string
		_, stats, err := sse.Accumulate(r.Context(), pr, sse.WithSessionHook(func(id string) {
			if seen == "" {
				seen = id
			}
		}))
		if err != nil {
			log.Printf("component=web action=chat_stream_observe err=%v", err)
		}
		log.Printf("component=web action=chat_stream_done lines=%d fragments=%d discarded=%d",
			stats.Lines, stats.Fragments, stats.Discarded)
		sessionID <- seen
	}()

	_, copyErr := io.Copy(sw, io.TeeReader(body, pw))
	pw.CloseWithError(copyErr)
	if id := <-sessionID; id != "" {
		w.Header().Set(ChatSessionTrailer, id)
	}
	if copyErr != nil {
		log.Printf("component=web action=chat_stream_copy err=%v", copyErr)
	}
}

func writeRaw(w http.ResponseWriter, data json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
