package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/candidlab/interviewd/internal/interview"
)

// healthResponse reports service status and credential wiring.
type healthResponse struct {
	Status           string `json:"status"`
	OpenAIKeyPresent bool   `json:"openai_key_present"`
}

type startRequest struct {
	UserID string `json:"user_id"`
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type sessionRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		OpenAIKeyPresent: s.keyPresent,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		s.log.Error().Err(err).Msg("embedded front end missing")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !readJSON(w, r, &req) {
		return
	}

	reply := s.conductor.Start(req.UserID)
	writeJSON(w, http.StatusOK, reply)
}

// handleChat always answers 200 with a structured reply. Completion failures
// travel inside the reply text so the front end can render them in the
// conversation instead of breaking the exchange.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !readJSON(w, r, &req) {
		return
	}

	reply := s.conductor.Advance(r.Context(), req.UserID, req.Message)
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleScoreInterview(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !readJSON(w, r, &req) {
		return
	}

	result, err := s.conductor.Score(r.Context(), req.UserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No interview found for this user"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"scoring_result": result})
}

func (s *Server) handleGetUniqueID(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !readJSON(w, r, &req) {
		return
	}

	id, err := s.conductor.UniqueID(req.UserID)
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No interview found for this user"})
	case errors.Is(err, interview.ErrIdentifierNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Unique ID not found"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"unique_id": id})
	}
}

func (s *Server) handleExportMapping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.conductor.ExportMapping())
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found", "path": r.URL.Path})
}

// readJSON decodes the request body into v, answering 400 on malformed input.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
