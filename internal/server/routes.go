package server

import (
	"log/slog"
	"net/http"

	"warciv-server/internal/auth"
	authHandlers "warciv-server/internal/auth/handlers"
	"warciv-server/internal/civ"
	civHandlers "warciv-server/internal/civ/handlers"
	"warciv-server/internal/combat"
	combatHandlers "warciv-server/internal/combat/handlers"
	"warciv-server/internal/economy"
	economyHandlers "warciv-server/internal/economy/handlers"
	"warciv-server/internal/leaderboard"
	leaderboardHandlers "warciv-server/internal/leaderboard/handlers"
	"warciv-server/internal/middleware"
	"warciv-server/internal/military"
	militaryHandlers "warciv-server/internal/military/handlers"
	"warciv-server/internal/player"
	serverHandlers "warciv-server/internal/server/handlers"
	"warciv-server/internal/shared/database"
	"warciv-server/internal/siege"
	siegeHandlers "warciv-server/internal/siege/handlers"
	"warciv-server/internal/stats"
	statsHandlers "warciv-server/internal/stats/handlers"
	"warciv-server/internal/stealth"
	stealthHandlers "warciv-server/internal/stealth/handlers"
	"warciv-server/internal/tech"
	techHandlers "warciv-server/internal/tech/handlers"
	"warciv-server/internal/war"
	warHandlers "warciv-server/internal/war/handlers"
)

type Routes struct {
	db                 *database.DB
	playerService      *player.Service
	authService        *auth.Service
	civService         *civ.Service
	economyService     *economy.Service
	militaryService    *military.Service
	warService         *war.Service
	combatService      *combat.Service
	stealthService     *stealth.Service
	siegeService       *siege.Service
	techService        *tech.Service
	statsService       *stats.Service
	leaderboardService *leaderboard.Service
	oauthConfig        *auth.OAuthConfig
	logger             *slog.Logger
}

func NewRoutes(
	db *database.DB,
	playerService *player.Service,
	authService *auth.Service,
	civService *civ.Service,
	economyService *economy.Service,
	militaryService *military.Service,
	warService *war.Service,
	combatService *combat.Service,
	stealthService *stealth.Service,
	siegeService *siege.Service,
	techService *tech.Service,
	statsService *stats.Service,
	leaderboardService *leaderboard.Service,
	oauthConfig *auth.OAuthConfig,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:                 db,
		playerService:      playerService,
		authService:        authService,
		civService:         civService,
		economyService:     economyService,
		militaryService:    militaryService,
		warService:         warService,
		combatService:      combatService,
		stealthService:     stealthService,
		siegeService:       siegeService,
		techService:        techService,
		statsService:       statsService,
		leaderboardService: leaderboardService,
		oauthConfig:        oauthConfig,
		logger:             logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	leaderboardHandler := leaderboardHandlers.NewLeaderboardHandler(r.leaderboardService)
	logoutHandler := authHandlers.NewLogoutHandler()

	civHandler := civHandlers.NewCivHandler(r.civService, r.warService, r.techService)
	economyHandler := economyHandlers.NewEconomyHandler(r.economyService)
	militaryHandler := militaryHandlers.NewMilitaryHandler(r.militaryService)
	warHandler := warHandlers.NewWarHandler(r.warService)
	combatHandler := combatHandlers.NewCombatHandler(r.combatService)
	stealthHandler := stealthHandlers.NewStealthHandler(r.stealthService)
	siegeHandler := siegeHandlers.NewSiegeHandler(r.siegeService)
	techHandler := techHandlers.NewTechHandler(r.techService)
	statsHandler := statsHandlers.NewStatsHandler(r.statsService)

	discordAuthHandler := authHandlers.NewOAuthHandler(
		r.oauthConfig.DiscordProvider,
		r.playerService,
		r.authService,
		r.oauthConfig.DiscordConfigured,
	)

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.JWTMiddleware(h)
	}

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("/api/leaderboard", leaderboardHandler.Top)

	// Civilization endpoints
	mux.Handle("/api/civs", protected(civHandler.Found))
	mux.Handle("/api/civs/me", protected(civHandler.Me))
	mux.Handle("/api/civs/ideology", protected(civHandler.SetIdeology))

	// Economy and military
	mux.Handle("/api/economy/taxes", protected(economyHandler.CollectTaxes))
	mux.Handle("/api/economy/transfer", protected(economyHandler.Transfer))
	mux.Handle("/api/economy/{action}", protected(economyHandler.Work))
	mux.Handle("/api/military/train", protected(militaryHandler.Train))

	// Wars and battles
	mux.Handle("/api/wars/declare", protected(warHandler.Declare))
	mux.Handle("/api/wars/peace/offer", protected(warHandler.OfferPeace))
	mux.Handle("/api/wars/peace/accept", protected(warHandler.AcceptPeace))
	mux.Handle("/api/battle/attack", protected(combatHandler.Attack))
	mux.Handle("/api/battle/stealth", protected(stealthHandler.Infiltrate))
	mux.Handle("/api/battle/siege", protected(siegeHandler.Besiege))

	// Tech cards and statistics
	mux.Handle("/api/tech/cards", protected(techHandler.GetCards))
	mux.Handle("/api/tech/choose", protected(techHandler.Choose))
	mux.Handle("/api/stats/me", protected(statsHandler.Me))

	// OAuth endpoints
	mux.HandleFunc("/auth/discord", discordAuthHandler.HandleAuth)
	mux.HandleFunc("/auth/discord/callback", discordAuthHandler.HandleCallback)
	mux.Handle("/auth/logout", logoutHandler)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/leaderboard"},
		"auth_endpoints", []string{"/auth/discord", "/auth/logout"},
	)

	return mux
}
