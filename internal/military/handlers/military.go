package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"warciv-server/internal/middleware"
	"warciv-server/internal/military"
	"warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/response"
)

type MilitaryHandler struct {
	service *military.Service
}

func NewMilitaryHandler(service *military.Service) *MilitaryHandler {
	return &MilitaryHandler{service: service}
}

type trainRequest struct {
	Unit  string `json:"unit"`
	Count int    `json:"count"`
}

func (h *MilitaryHandler) Train(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "train")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req trainRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	result, err := h.service.Train(ctx, claims.PlayerID, military.UnitKind(req.Unit), req.Count)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}
