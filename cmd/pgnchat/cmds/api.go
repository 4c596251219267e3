package cmds

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pgn-chatbot/internal/ai"
	"github.com/Vovarama1992/pgn-chatbot/internal/config"
	"github.com/Vovarama1992/pgn-chatbot/internal/database"
	"github.com/Vovarama1992/pgn-chatbot/internal/logging"
	"github.com/Vovarama1992/pgn-chatbot/internal/pgn"
)

func NewAPICommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the reference PGN chat API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAPI()
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

			// --- DB ---
			db, err := database.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			// --- AI fallback (optional) ---
			var aiClient ai.AI
			if cfg.OpenAIKey != "" {
				oc, err := ai.NewOpenAIClient(ai.Config{APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel}, logger)
				if err != nil {
					return err
				}
				aiClient = oc
			}

			var mws []func(http.Handler) http.Handler
			if len(cfg.AllowedOrigins) > 0 {
				mws = append(mws, cors.Handler(cors.Options{
					AllowedOrigins:   cfg.AllowedOrigins,
					AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
					AllowedHeaders:   []string{"Accept", "Content-Type"},
					AllowCredentials: true,
				}))
			}
			r := newRouter(logger, mws...)

			// --- PGN module wiring ---
			pgnRepo := pgn.NewRepo(db)
			pgnService := pgn.NewService(pgnRepo, aiClient, logger)
			pgn.RegisterRoutes(r, pgn.NewHandler(pgnService, logger))

			logger.Info("api configured",
				zap.String("db_dialect", string(db.Dialect)),
				zap.Bool("ai_fallback", aiClient != nil),
				zap.Strings("allowed_origins", cfg.AllowedOrigins),
			)
			return serve(cmd.Context(), cfg.Port, r, logger)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	return cmd
}
