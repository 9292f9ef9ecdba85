package auth

import (
	"log/slog"

	"warciv-server/internal/auth/providers"
	"warciv-server/internal/shared/config"

	"golang.org/x/oauth2"
)

type OAuthConfig struct {
	DiscordConfig     *oauth2.Config
	DiscordProvider   *providers.DiscordProvider
	DiscordConfigured bool
}

func InitOAuth() *OAuthConfig {
	cfg := config.GlobalConfig
	logger := slog.With("component", "oauth", "operation", "init")
	logger.Debug("Initializing OAuth configuration")

	discordConfig := &oauth2.Config{
		ClientID:     cfg.OAuth.Discord.ClientID,
		ClientSecret: cfg.OAuth.Discord.ClientSecret,
		RedirectURL:  cfg.OAuth.Discord.RedirectURL,
		Scopes:       cfg.OAuth.Discord.Scopes,
		Endpoint:     providers.DiscordEndpoint,
	}

	configured := cfg.DiscordOAuthConfigured()

	logger.Info("OAuth configuration completed",
		"discord_configured", configured,
		"discord_redirect", discordConfig.RedirectURL,
	)
	if !configured {
		logger.Warn("Discord OAuth not configured - missing client credentials")
	}

	return &OAuthConfig{
		DiscordConfig:     discordConfig,
		DiscordProvider:   providers.NewDiscordProvider(discordConfig),
		DiscordConfigured: configured,
	}
}
