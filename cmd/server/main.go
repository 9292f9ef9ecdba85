package main

import (
	"log/slog"
	"net/http"
	"os"

	"warciv-server/internal/auth"
	"warciv-server/internal/civ"
	"warciv-server/internal/combat"
	"warciv-server/internal/economy"
	"warciv-server/internal/leaderboard"
	"warciv-server/internal/middleware"
	"warciv-server/internal/military"
	"warciv-server/internal/player"
	"warciv-server/internal/server"
	"warciv-server/internal/shared/config"
	"warciv-server/internal/shared/database"
	"warciv-server/internal/shared/logger"
	"warciv-server/internal/shared/redis"
	"warciv-server/internal/siege"
	"warciv-server/internal/stats"
	"warciv-server/internal/stealth"
	"warciv-server/internal/tech"
	"warciv-server/internal/war"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()

	db, err := database.Connect()
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	cache, err := redis.Connect()
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer cache.Close()
	}

	appLogger := slog.Default()

	playerService := player.NewService(player.NewRepository(db, appLogger), appLogger)
	authService := auth.NewService(auth.NewRepository(db), appLogger)

	civRepo := civ.NewRepository(db, appLogger)
	warRepo := war.NewRepository(db, appLogger)
	statsService := stats.NewService(stats.NewRepository(db, appLogger), appLogger)
	warService := war.NewService(warRepo, statsService, appLogger)

	techService := tech.NewService(tech.NewRepository(db, appLogger), civRepo, statsService, appLogger)
	civService := civ.NewService(civRepo, techService, appLogger)
	economyService := economy.NewService(civRepo, appLogger)
	militaryService := military.NewService(civRepo, appLogger)
	combatService := combat.NewService(civRepo, warRepo, statsService, appLogger)
	stealthService := stealth.NewService(civRepo, techService, statsService, appLogger)
	siegeService := siege.NewService(civRepo, warRepo, statsService, appLogger)
	leaderboardService := leaderboard.NewService(leaderboard.NewRepository(db, appLogger), cache, appLogger)

	oauthConfig := auth.InitOAuth()

	routes := server.NewRoutes(
		db,
		playerService,
		authService,
		civService,
		economyService,
		militaryService,
		warService,
		combatService,
		stealthService,
		siegeService,
		techService,
		statsService,
		leaderboardService,
		oauthConfig,
		appLogger,
	)
	mux := routes.Setup()

	cfg := config.GlobalConfig

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
		TrustProxy:        cfg.Server.Environment == "production",
	})
	cors := middleware.NewCORS()

	handler := middleware.RequestLogging(rateLimiter.Middleware(cors.Middleware(mux)))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	slog.Info("Server starting",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
	)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
