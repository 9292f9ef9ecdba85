package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"warciv-server/internal/civ"
	"warciv-server/internal/middleware"
	"warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/response"
	"warciv-server/internal/tech"
	"warciv-server/internal/war"
)

type CivHandler struct {
	service *civ.Service
	wars    *war.Service
	tech    *tech.Service
}

func NewCivHandler(service *civ.Service, wars *war.Service, techService *tech.Service) *CivHandler {
	return &CivHandler{service: service, wars: wars, tech: techService}
}

type foundRequest struct {
	Name string `json:"name"`
}

// statusResponse is the full picture a player sees of their own civilization.
type statusResponse struct {
	Civ          *civ.Civilization   `json:"civilization"`
	Wars         []war.War           `json:"wars"`
	PeaceOffers  []war.PeaceOffer    `json:"peace_offers"`
	PendingCards *tech.CardSelection `json:"pending_cards,omitempty"`
}

func (h *CivHandler) Found(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "found_civ")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req foundRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	created, err := h.service.Found(ctx, claims.PlayerID, req.Name)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *CivHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "civ_status")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	c, err := h.service.Get(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	wars, err := h.wars.WarsOf(ctx, c.ID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if wars == nil {
		wars = []war.War{}
	}

	offers, err := h.wars.OffersFor(ctx, c.ID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if offers == nil {
		offers = []war.PeaceOffer{}
	}

	// A missing pending selection is normal between hands.
	pending, err := h.tech.PendingSelection(ctx, c.ID)
	if err != nil && errors.GetType(err) != errors.ErrorTypeNoSelection {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, statusResponse{
		Civ:          c,
		Wars:         wars,
		PeaceOffers:  offers,
		PendingCards: pending,
	})
}

type ideologyRequest struct {
	Ideology string `json:"ideology"`
}

func (h *CivHandler) SetIdeology(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "set_ideology")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req ideologyRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	updated, err := h.service.SetIdeology(ctx, claims.PlayerID, req.Ideology)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}
