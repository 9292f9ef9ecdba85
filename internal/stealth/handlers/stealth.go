package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"warciv-server/internal/middleware"
	"warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/response"
	"warciv-server/internal/stealth"
)

type StealthHandler struct {
	service *stealth.Service
}

func NewStealthHandler(service *stealth.Service) *StealthHandler {
	return &StealthHandler{service: service}
}

type infiltrateRequest struct {
	TargetID int `json:"target_id"`
}

func (h *StealthHandler) Infiltrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "infiltrate")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req infiltrateRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	report, err := h.service.Infiltrate(ctx, claims.PlayerID, req.TargetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, report)
}
