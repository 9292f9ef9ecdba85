package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"warciv-server/internal/economy"
	"warciv-server/internal/middleware"
	"warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/response"
)

type EconomyHandler struct {
	service *economy.Service
}

func NewEconomyHandler(service *economy.Service) *EconomyHandler {
	return &EconomyHandler{service: service}
}

// Work handles the four resource actions; the action name comes from the
// route path (/api/economy/{action}).
func (h *EconomyHandler) Work(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "economy_work")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	action := r.PathValue("action")
	result, err := h.service.Work(ctx, claims.PlayerID, economy.WorkKind(action))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

func (h *EconomyHandler) CollectTaxes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "collect_taxes")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	result, err := h.service.CollectTaxes(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

type transferRequest struct {
	ToID  int `json:"to_id"`
	Gold  int `json:"gold"`
	Food  int `json:"food"`
	Stone int `json:"stone"`
	Wood  int `json:"wood"`
}

func (h *EconomyHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "transfer")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req transferRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	result, err := h.service.Transfer(ctx, claims.PlayerID, req.ToID, economy.Cost{
		Gold:  req.Gold,
		Food:  req.Food,
		Stone: req.Stone,
		Wood:  req.Wood,
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}
