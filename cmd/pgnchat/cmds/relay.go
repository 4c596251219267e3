package cmds

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pgn-chatbot/internal/config"
	"github.com/Vovarama1992/pgn-chatbot/internal/logging"
	"github.com/Vovarama1992/pgn-chatbot/internal/nonce"
	"github.com/Vovarama1992/pgn-chatbot/internal/relay"
	"github.com/Vovarama1992/pgn-chatbot/internal/widget"
)

func NewRelayCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Serve the chat widget and relay its messages to the chat API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadRelay()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			logger, err := logging.New(cfg.LogLevel, cfg.Env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			r := newRouter(logger)

			// --- relay wiring ---
			issuer := nonce.NewIssuer(cfg.NonceSecret, cfg.NonceTTL)
			upstream := relay.NewHTTPUpstream(cfg.APIBase, cfg.UpstreamTimeout)
			relayService := relay.NewService(issuer, upstream, logger)
			relay.RegisterRoutes(r, cfg.AjaxPath, relay.NewHandler(relayService, logger))

			// --- widget ---
			widgetHandler, err := widget.NewHandler(issuer, cfg.AjaxPath, cfg.CookieSecure, logger)
			if err != nil {
				return err
			}
			widget.RegisterRoutes(r, widgetHandler)

			logger.Info("relay configured",
				zap.String("api_base", cfg.APIBase),
				zap.String("ajax_path", cfg.AjaxPath),
				zap.Duration("nonce_ttl", cfg.NonceTTL),
			)
			return serve(cmd.Context(), cfg.Port, r, logger)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	return cmd
}
