package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"warciv-server/internal/middleware"
	"warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/response"
	"warciv-server/internal/tech"
)

type TechHandler struct {
	service *tech.Service
}

func NewTechHandler(service *tech.Service) *TechHandler {
	return &TechHandler{service: service}
}

// cardView pairs a dealt card name with its description for display.
type cardView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type selectionResponse struct {
	Selection *tech.CardSelection `json:"selection"`
	Cards     []cardView          `json:"cards"`
}

func (h *TechHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "tech_cards")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	selection, err := h.service.PendingSelection(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	cards := make([]cardView, 0, len(selection.Cards))
	for _, name := range selection.Cards {
		view := cardView{Name: name}
		if card, ok := tech.CardByName(name); ok {
			view.Description = card.Description
		}
		cards = append(cards, view)
	}

	response.Success(w, http.StatusOK, selectionResponse{Selection: selection, Cards: cards})
}

type chooseRequest struct {
	Card string `json:"card"`
}

func (h *TechHandler) Choose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "tech_choose")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req chooseRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	result, err := h.service.Choose(ctx, claims.PlayerID, req.Card)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}
