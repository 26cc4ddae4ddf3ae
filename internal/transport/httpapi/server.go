// Package httpapi exposes the quote/confirm protocol and the user CRUD
// endpoints over chi.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/spendgate/internal/domain"
	confirmuc "github.com/kailas-cloud/spendgate/internal/usecase/confirm"
	healthuc "github.com/kailas-cloud/spendgate/internal/usecase/health"
	quoteuc "github.com/kailas-cloud/spendgate/internal/usecase/quote"
	useruc "github.com/kailas-cloud/spendgate/internal/usecase/user"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	quotes        *quoteuc.Service
	confirms      *confirmuc.Service
	users         *useruc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	quotes *quoteuc.Service,
	confirms *confirmuc.Service,
	users *useruc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		quotes:   quotes,
		confirms: confirms,
		users:    users,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest),
		sentinelHandler(domain.ErrPricingNotConfigured, http.StatusBadRequest),
		sentinelHandler(domain.ErrNotAccepted, http.StatusBadRequest),
		sentinelHandler(domain.ErrQuoteNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrUserExists, http.StatusConflict),
		sentinelHandler(domain.ErrUpstreamFailure, http.StatusBadGateway),
	}
	return s
}

// Register mounts all routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Post("/quote", s.postQuote)
	r.Post("/confirm", s.postConfirm)
	r.Post("/users", s.createUser)
	r.Get("/users/{user_id}", s.getUser)
	r.Put("/users/{user_id}", s.updateUser)
	r.Get("/health", s.getHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", s.getOpenAPI)
	r.Get("/doc", s.getDoc)
}

// postQuote handles POST /quote.
func (s *Server) postQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	d, err := s.quotes.Issue(r.Context(), quoteuc.IssueRequest{
		Provider:             req.Provider,
		Model:                req.Model,
		System:               req.System,
		Prompt:               req.Prompt,
		MaxOutputTokens:      req.MaxOutputTokens,
		ExpectedOutputTokens: req.ExpectedOutputTokens,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, disclosureToWire(d))
}

// postConfirm handles POST /confirm.
func (s *Server) postConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.QuoteID == "" {
		writeError(w, http.StatusBadRequest, "quote_id is required")
		return
	}

	res, err := s.confirms.Confirm(r.Context(), req.QuoteID, req.Accept)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, confirmResultToWire(res))
}

// createUser handles POST /users.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := s.users.Create(r.Context(), req.UserID, req.UserName)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userToWire(u))
}

// getUser handles GET /users/{user_id}.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userToWire(u))
}

// updateUser handles PUT /users/{user_id}.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := s.users.Update(r.Context(), chi.URLParam(r, "user_id"), req.UserName)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userToWire(u))
}

// getHealth handles GET /health.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, status, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// safeDomainMessage returns a client-facing message without exposing
// internals. PricingError and ValidationError carry their own messages.
func safeDomainMessage(err error) string {
	var pe *domain.PricingError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}

	sentinels := []error{
		domain.ErrPricingNotConfigured,
		domain.ErrNotAccepted,
		domain.ErrQuoteNotFound,
		domain.ErrUpstreamFailure,
		domain.ErrUserNotFound,
		domain.ErrUserExists,
		domain.ErrValidation,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, safeDomainMessage(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
