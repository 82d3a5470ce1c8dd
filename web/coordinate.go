// ABOUTME: Plan routes: raw plan generation, full acquisition, server-side playback over SSE and reports.
// ABOUTME: Acquisition never fails the request; only the raw /api/chat/plan route surfaces generation errors.
package web

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/playback"
	"github.com/2389-research/lifeline/report"
	"github.com/2389-research/lifeline/sse"
)

type inputRequest struct {
	Input string `json:"input"`
}

// readInput takes the emergency description from the query string on GET
// and from a JSON body otherwise.
func readInput(r *http.Request) (string, error) {
	if r.Method == http.MethodGet {
		return strings.TrimSpace(r.URL.Query().Get("input")), nil
	}
	var req inputRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(req.Input), nil
}

// sessionToken returns the access token if the request has a session, or "".
func (s *Server) sessionToken(r *http.Request) string {
	token, _ := s.cfg.Sessions.AccessToken(r)
	return token
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireToken(w, r)
	if !ok {
		return
	}
	input, err := readInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input == "" {
		writeError(w, http.StatusBadRequest, "Input is required")
		return
	}

	raw, err := s.cfg.Planner.Generate(r.Context(), input, token)
	if err != nil {
		status, msg := planErrorResponse(err)
		log.Printf("component=web action=plan result=failed reason=%s err=%v", plan.Classify(err), err)
		writeError(w, status, msg)
		return
	}
	log.Printf("component=web action=plan result=ok shape=%s events=%d", raw.Shape, len(raw.Script))
	writeJSON(w, http.StatusOK, raw)
}

// planErrorResponse maps a generation failure to the route's status and message.
func planErrorResponse(err error) (int, string) {
	var pe *plan.ParseError
	switch {
	case errors.Is(err, plan.ErrInputRejected):
		return http.StatusBadRequest, "Input is required"
	case errors.Is(err, plan.ErrUnexpectedStructure):
		return http.StatusInternalServerError, "Unexpected response structure"
	case errors.As(err, &pe):
		return http.StatusInternalServerError, "Failed to parse AI plan"
	default:
		return http.StatusInternalServerError, "Plan generation failed"
	}
}

// CoordinateResponse is a completed acquisition as served to clients.
type CoordinateResponse struct {
	AttemptID string                    `json:"attemptId"`
	Plan      emergency.Plan            `json:"plan"`
	Events    []emergency.PlaybackEvent `json:"events"`
	Outcome   plan.Outcome              `json:"outcome"`
	Scenario  string                    `json:"scenario,omitempty"`
}

func newCoordinateResponse(res plan.Result) CoordinateResponse {
	return CoordinateResponse{
		AttemptID: res.AttemptID,
		Plan:      res.Plan,
		Events:    res.Events,
		Outcome:   res.Outcome,
		Scenario:  res.Scenario,
	}
}

// acquire reads the input and runs acquisition, writing a 400 for empty input.
func (s *Server) acquire(w http.ResponseWriter, r *http.Request) (plan.Result, bool) {
	input, err := readInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return plan.Result{}, false
	}
	if input == "" {
		writeError(w, http.StatusBadRequest, "Input is required")
		return plan.Result{}, false
	}
	return s.cfg.Planner.Acquire(r.Context(), input, s.sessionToken(r)), true
}

func (s *Server) handleCoordinate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.acquire(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newCoordinateResponse(res))
}

type streamStart struct {
	AttemptID string                 `json:"attemptId"`
	Outcome   plan.Outcome           `json:"outcome"`
	Total     int                    `json:"total"`
	Nodes     []emergency.VisualNode `json:"nodes"`
}

// handleCoordinateStream acquires a plan and plays it back as server-sent
// events: one "start", one "playback" per event, then "complete" with the plan.
// A client disconnect cancels the playback.
func (s *Server) handleCoordinateStream(w http.ResponseWriter, r *http.Request) {
	res, ok := s.acquire(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	updates := make(chan playback.Update, len(res.Events))
	completed := make(chan emergency.Plan, 1)
	engine := playback.NewEngine(playback.Config{
		Interval:    s.cfg.PlaybackInterval,
		SettleDelay: s.cfg.SettleDelay,
		Observer:    func(u playback.Update) { updates <- u },
		Metrics:     s.cfg.Metrics,
	})

	sw := sse.NewWriter(w)
	if err := sw.SendJSON("start", streamStart{
		AttemptID: res.AttemptID,
		Outcome:   res.Outcome,
		Total:     len(res.Events),
		Nodes:     []emergency.VisualNode{playback.MeNode},
	}); err != nil {
		return
	}

	if err := engine.Start(ctx, res.Events, res.Plan, func(p emergency.Plan) { completed <- p }); err != nil {
		log.Printf("component=web action=coordinate_stream err=%v", err)
		return
	}

	for {
		select {
		case u := <-updates:
			if err := sw.SendJSON("playback", u); err != nil {
				return
			}
		case p := <-completed:
			for drained := false; !drained; {
				select {
				case u := <-updates:
					if err := sw.SendJSON("playback", u); err != nil {
						return
					}
				default:
					drained = true
				}
			}
			_ = sw.SendJSON("complete", p)
			return
		case <-ctx.Done():
			<-engine.Done()
			log.Printf("component=web action=coordinate_stream result=client_gone emitted=%d", len(engine.Log()))
			return
		}
	}
}

// handleReport acquires a plan and renders it as an HTML report, or as
// Markdown when format=md.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.acquire(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("format") == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, report.Markdown(res.Plan, res.Events))
		return
	}
	page, err := report.HTML(res.Plan, res.Events)
	if err != nil {
		log.Printf("component=web action=report err=%v", err)
		writeError(w, http.StatusInternalServerError, "Report rendering failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}
