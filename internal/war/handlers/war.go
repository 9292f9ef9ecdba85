package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"warciv-server/internal/middleware"
	"warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/response"
	"warciv-server/internal/war"
)

type WarHandler struct {
	service *war.Service
}

func NewWarHandler(service *war.Service) *WarHandler {
	return &WarHandler{service: service}
}

type targetRequest struct {
	TargetID int `json:"target_id"`
}

// decodeTarget reads the common {"target_id": N} request body.
func decodeTarget(w http.ResponseWriter, r *http.Request) (int, error) {
	var req targetRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, errors.WrapValidation("invalid JSON in request body", err)
	}
	return req.TargetID, nil
}

func (h *WarHandler) Declare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "declare_war")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	targetID, err := decodeTarget(w, r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	declared, err := h.service.Declare(ctx, claims.PlayerID, targetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, declared)
}

func (h *WarHandler) OfferPeace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "offer_peace")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	targetID, err := decodeTarget(w, r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	offer, err := h.service.OfferPeace(ctx, claims.PlayerID, targetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, offer)
}

func (h *WarHandler) AcceptPeace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "accept_peace")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	offererID, err := decodeTarget(w, r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ended, err := h.service.AcceptPeace(ctx, claims.PlayerID, offererID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, ended)
}
