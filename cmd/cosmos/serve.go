package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/config"
	"github.com/lixenwraith/living-cosmos/feed"
	"github.com/lixenwraith/living-cosmos/observability"
	"github.com/lixenwraith/living-cosmos/relay"
	"github.com/lixenwraith/living-cosmos/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the message, song list and search endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			observability.InitializeConsole(a.cfg.Logger)
			defer observability.Sync()
			logger := observability.GetLogger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting api", zap.String("version", Version), zap.Bool("relay_dev_mode", a.cfg.Relay.DevMode))
			return server.Serve(ctx, a.cfg.Server.Addr, a.cfg.Server.ReadHeaderTimeout, newHandler(a.cfg, logger), logger)
		},
	}
	cmd.Flags().String("server.addr", ":8080", "listen address")
	cmd.Flags().Bool("relay.dev_mode", false, "simulate delivery when no webhook is configured")
	return cmd
}

func newHandler(cfg *config.Config, logger *zap.Logger) *server.Handler {
	r := relay.New(relay.Config{
		WebhookURL: cfg.Relay.WebhookURL,
		Username:   cfg.Relay.Username,
		AvatarURL:  cfg.Relay.AvatarURL,
		DevMode:    cfg.Relay.DevMode,
		DevDelay:   cfg.Relay.DevDelay,
	}, &http.Client{Timeout: cfg.Relay.Timeout}, logger)
	f := feed.NewFetcher(nil, cfg.Feed.BaseURL, cfg.Feed.ChannelID, feed.Options{
		Limit:       cfg.Feed.Limit,
		Artist:      cfg.Feed.Artist,
		Description: cfg.Feed.Description,
		OriginalURL: cfg.Feed.OriginalURL,
	}, cfg.Feed.Timeout, logger)
	return server.NewHandler(r, f, server.Options{
		CacheTTL:     cfg.Feed.CacheTTL,
		MessageRate:  cfg.Server.MessageRate,
		MessageBurst: cfg.Server.MessageBurst,
	}, logger)
}
