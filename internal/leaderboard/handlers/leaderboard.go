package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"warciv-server/internal/leaderboard"
	"warciv-server/internal/shared/config"
	"warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/response"
)

const maxSize = 100

type LeaderboardHandler struct {
	service *leaderboard.Service
}

func NewLeaderboardHandler(service *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "leaderboard")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		category = string(leaderboard.CategoryPower)
	}
	if !leaderboard.ValidCategory(category) {
		response.Error(w, r, logger, errors.Validationf("unknown leaderboard category %q", category))
		return
	}

	size := config.GlobalConfig.Game.LeaderboardSize
	if size < 1 {
		size = 10
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(w, r, logger, errors.Validation("size must be a positive integer"))
			return
		}
		size = parsed
	}
	if size > maxSize {
		size = maxSize
	}

	entries, err := h.service.Top(ctx, leaderboard.Category(category), size)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if entries == nil {
		entries = []leaderboard.Entry{}
	}

	response.Success(w, http.StatusOK, entries)
}
