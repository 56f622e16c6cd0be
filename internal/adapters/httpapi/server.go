// Package httpapi exposes the fleet's command boundary over HTTP: status
// summaries plus explicit refresh/idle/confirmation/redeem triggers, all
// dispatched through the mediator.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
	"github.com/andrescamacho/cardfarm-go/internal/application/farm/commands"
	"github.com/andrescamacho/cardfarm-go/internal/application/trade"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
)

// Server is the admin API over the fleet
type Server struct {
	mediator common.Mediator
	activity appfarm.ActivityLog // optional
	logger   *zap.Logger
}

// NewServer creates the admin API server
func NewServer(mediator common.Mediator, activity appfarm.ActivityLog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{mediator: mediator, activity: activity, logger: logger}
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	r.Post("/refresh", s.handleRefreshFleet)
	r.Post("/idle/{titleID}", s.handleIdleFleet)
	r.Post("/redeem", s.handleRedeem)

	r.Route("/accounts/{accountID}", func(r chi.Router) {
		r.Post("/refresh", s.handleRefreshAccount)
		r.Post("/idle/{titleID}", s.handleIdleAccount)
		r.Post("/stop", s.handleStopAccount)
		r.Post("/confirmations", s.handleConfirmations)
		r.Get("/history", s.handleHistory)

		// Ingress for the game-network agent
		r.Post("/session", s.handleSessionEvent)
		r.Post("/items", s.handleNewItems)
		r.Post("/trades", s.handleTradeOffer)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), commands.FleetStatusQuery{})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleRefreshFleet(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), commands.RefreshFleetCommand{})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, response)
}

func (s *Server) handleRefreshAccount(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), commands.RefreshAccountCommand{
		AccountID: chi.URLParam(r, "accountID"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleIdleFleet(w http.ResponseWriter, r *http.Request) {
	titleID, err := strconv.Atoi(chi.URLParam(r, "titleID"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid title id"})
		return
	}

	response, err := s.mediator.Send(r.Context(), commands.IdleFleetCommand{TitleID: titleID})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, response)
}

func (s *Server) handleIdleAccount(w http.ResponseWriter, r *http.Request) {
	titleID, err := strconv.Atoi(chi.URLParam(r, "titleID"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid title id"})
		return
	}

	_, err = s.mediator.Send(r.Context(), commands.IdleAccountCommand{
		AccountID: chi.URLParam(r, "accountID"),
		TitleID:   titleID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "idling"})
}

func (s *Server) handleStopAccount(w http.ResponseWriter, r *http.Request) {
	_, err := s.mediator.Send(r.Context(), commands.StopAccountCommand{
		AccountID: chi.URLParam(r, "accountID"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (s *Server) handleConfirmations(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), commands.ResolveConfirmationsCommand{
		AccountID: chi.URLParam(r, "accountID"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.activity == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "history persistence disabled"})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := s.activity.History(r.Context(), chi.URLParam(r, "accountID"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSessionEvent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed body"})
		return
	}

	response, err := s.mediator.Send(r.Context(), commands.SessionEventCommand{
		AccountID: chi.URLParam(r, "accountID"),
		Active:    body.Active,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, response)
}

func (s *Server) handleNewItems(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), commands.NewItemsCommand{
		AccountID: chi.URLParam(r, "accountID"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, response)
}

func (s *Server) handleTradeOffer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OfferID   string `json:"offer_id"`
		PartnerID string `json:"partner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OfferID == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing offer id"})
		return
	}

	response, err := s.mediator.Send(r.Context(), trade.RouteOfferCommand{
		AccountID: chi.URLParam(r, "accountID"),
		OfferID:   body.OfferID,
		PartnerID: body.PartnerID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Key == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing key"})
		return
	}

	response, err := s.mediator.Send(r.Context(), commands.RedeemKeyCommand{Key: body.Key})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// writeError maps domain errors onto HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway

	var invalidTarget *shared.InvalidTargetError
	var notLoggedIn *shared.NotLoggedInError
	var disabled *shared.ConfirmationsDisabledError
	switch {
	case errors.As(err, &invalidTarget):
		status = http.StatusBadRequest
	case errors.As(err, &notLoggedIn), errors.As(err, &disabled):
		status = http.StatusConflict
	case strings.Contains(err.Error(), "unknown account"):
		status = http.StatusNotFound
	}

	s.logger.Warn("request failed", zap.Error(err))
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
