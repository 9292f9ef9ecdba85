package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"warciv-server/internal/auth"
	"warciv-server/internal/auth/providers"
	"warciv-server/internal/player"
	"warciv-server/internal/shared/config"
	"warciv-server/internal/shared/cookies"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/response"
)

// OAuthHandler drives the authorization-code flow for one provider.
type OAuthHandler struct {
	provider      providers.OAuthProvider
	playerService *player.Service
	authService   *auth.Service
	isConfigured  bool
}

func NewOAuthHandler(provider providers.OAuthProvider, playerService *player.Service, authService *auth.Service, isConfigured bool) *OAuthHandler {
	return &OAuthHandler{
		provider:      provider,
		playerService: playerService,
		authService:   authService,
		isConfigured:  isConfigured,
	}
}

func (h *OAuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	logger := slog.With("handler", name+"_oauth_init")

	if !h.isConfigured {
		response.Error(w, r, logger, apperrors.External(fmt.Sprintf("%s OAuth is not properly configured", name)))
		return
	}

	state, err := auth.GenerateOAuthState(name, r.UserAgent())
	if err != nil {
		response.Error(w, r, logger, apperrors.WrapInternal("failed to initialize OAuth flow", err))
		return
	}

	http.Redirect(w, r, h.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	errorParam := r.URL.Query().Get("error")

	logger := slog.With(
		"handler", name+"_oauth_callback",
		"ip", r.RemoteAddr,
		"has_code", code != "",
		"has_state", state != "",
	)

	if errorParam != "" {
		logger.Warn("OAuth authorization denied",
			"oauth_error", errorParam,
			"error_description", r.URL.Query().Get("error_description"))
		redirectWithError(w, r, "oauth_denied")
		return
	}
	if code == "" {
		logger.Error("OAuth callback missing authorization code")
		redirectWithError(w, r, "oauth_error")
		return
	}
	if err := auth.ValidateOAuthState(state, name, r.UserAgent()); err != nil {
		logger.Error("OAuth state validation failed", "error", err)
		redirectWithError(w, r, "oauth_error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	token, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", "error", err)
		redirectWithError(w, r, "oauth_error")
		return
	}

	userInfo, err := h.provider.GetUserInfo(ctx, token)
	if err != nil {
		logger.Error("Failed to get user info", "error", err)
		redirectWithError(w, r, "oauth_error")
		return
	}

	userLogger := logger.With("provider_user_id", userInfo.ID, "user_name", userInfo.Name)

	if userInfo.Email == "" || !userInfo.EmailVerified {
		userLogger.Error("User missing verified email")
		redirectWithError(w, r, "oauth_error")
		return
	}

	existingPlayerID, err := h.authService.FindPlayerByAuthProvider(ctx, name, userInfo.ID)
	if err != nil && apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		userLogger.Error("Database error checking auth provider", "error", err)
		redirectWithError(w, r, "database_error")
		return
	}

	var p *player.Player
	if existingPlayerID > 0 {
		p, err = h.playerService.GetByID(ctx, existingPlayerID)
		if err != nil {
			userLogger.Error("Failed to get existing player", "error", err)
			redirectWithError(w, r, "database_error")
			return
		}
	} else {
		p, err = h.playerService.FindOrCreateByOAuth(
			ctx, name, userInfo.ID, userInfo.Email, userInfo.Name, &userInfo.AvatarURL)
		if err != nil {
			userLogger.Error("Failed to create player", "error", err)
			redirectWithError(w, r, "database_error")
			return
		}

		if err := h.authService.CreateAuthProvider(ctx, p.ID, name, userInfo.ID, userInfo.Email); err != nil {
			userLogger.Error("Failed to create auth provider link", "error", err)
			redirectWithError(w, r, "database_error")
			return
		}
	}

	jwtToken, err := auth.GenerateJWT(p.ID, p.Username, p.Email)
	if err != nil {
		userLogger.Error("Failed to generate JWT token", "error", err, "player_id", p.ID)
		redirectWithError(w, r, "auth_error")
		return
	}

	cookies.SetAuthCookie(w, jwtToken)

	userLogger.Info("OAuth authentication successful", "player_id", p.ID, "player_username", p.Username)

	successURL := fmt.Sprintf("%s/auth/callback?success=true", config.GlobalConfig.Frontend.URL)
	http.Redirect(w, r, successURL, http.StatusTemporaryRedirect)
}
