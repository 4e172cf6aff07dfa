package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/veridian-labs/docqa/internal/logger"
)

// runRequest is the answering request payload.
type runRequest struct {
	// Documents is the document URL. The field name is plural for
	// compatibility with clients of the original API shape.
	Documents string   `json:"documents"`
	Questions []string `json:"questions"`
}

// runResponse carries one answer per question, in question order.
type runResponse struct {
	Answers []string `json:"answers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Documents = strings.TrimSpace(req.Documents)
	if req.Documents == "" {
		writeError(w, http.StatusBadRequest, "documents is required")
		return
	}
	if len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "questions is required")
		return
	}
	if len(req.Questions) > s.cfg.MaxQuestions {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many questions: %d exceeds the limit of %d", len(req.Questions), s.cfg.MaxQuestions))
		return
	}
	for i, q := range req.Questions {
		if strings.TrimSpace(q) == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("question %d is empty", i+1))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	answers := s.svc.Answer(ctx, req.Documents, req.Questions)

	resp := runResponse{Answers: make([]string, len(answers))}
	for i, a := range answers {
		resp.Answers[i] = a.Answer
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearSession()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAuth enforces the bearer token when one is configured.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AuthToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AuthToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
