// Package server exposes the assignment engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/KotaKunori/GroupAssigner/internal/engine"
	"github.com/KotaKunori/GroupAssigner/internal/export"
	"github.com/KotaKunori/GroupAssigner/internal/importer"
	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// maxRequestBody bounds request payloads at 4 MiB.
const maxRequestBody = 4 << 20

// Server handles assignment requests.
type Server struct {
	settings engine.Settings
	router   chi.Router
}

// New builds a server running the given engine settings.
func New(settings engine.Settings) *Server {
	s := &Server{settings: settings}
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Post("/group_assignment", s.handleAssignment)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "group assigner\n")
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAssignment(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()[:8]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	program, err := importer.ParseProgram(body)
	if err != nil {
		log.Printf("[%s] parse error: %v", requestID, err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	assigner, err := engine.New(s.settings)
	if err != nil {
		log.Printf("[%s] settings error: %v", requestID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := engine.Execute(assigner, engine.AverageRepeatEvaluator{}, program)
	if err != nil {
		log.Printf("[%s] assignment error: %v", requestID, err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	report := export.BuildReport(result.Groups, program, result.Score)
	log.Printf("[%s] assigned %d sessions, score %.4f", requestID, len(program.Sessions), result.Score)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		log.Printf("[%s] write error: %v", requestID, err)
	}
}

// statusFor maps engine error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidIdentifier),
		errors.Is(err, model.ErrInfeasible):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
