package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/lelesmart/internal/api"
	"github.com/Veraticus/lelesmart/internal/config"
	"github.com/Veraticus/lelesmart/internal/engine"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		Long: `Serve the analysis API over HTTP until interrupted.

Endpoints:
  POST /api/seed-condition    grade seed fish
  POST /api/pond-condition    grade pond water
  POST /api/final-result      combine verdicts with a feed
  POST /api/analyses          run and store a full analysis
  GET  /api/analyses          list stored analyses
  GET  /api/analyses/{id}     fetch one analysis
  GET  /healthz               liveness probe`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), func(e *engine.Engine, cfg *config.Config) error {
				return api.NewServer(e, cfg.Server).ListenAndServe(cmd.Context())
			})
		},
	}

	cmd.Flags().String("addr", config.DefaultServerAddr, "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
