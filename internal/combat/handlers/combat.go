package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"warciv-server/internal/combat"
	"warciv-server/internal/middleware"
	"warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/response"
)

type CombatHandler struct {
	service *combat.Service
}

func NewCombatHandler(service *combat.Service) *CombatHandler {
	return &CombatHandler{service: service}
}

type attackRequest struct {
	TargetID int `json:"target_id"`
}

func (h *CombatHandler) Attack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "attack")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req attackRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	report, err := h.service.Attack(ctx, claims.PlayerID, req.TargetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, report)
}
