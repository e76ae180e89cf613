package cli

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yatrik/yatra/internal/auth"
	"github.com/yatrik/yatra/internal/logging"
	"github.com/yatrik/yatra/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP server the CLI talks to. Configuration comes from YATRA_* environment variables; a .env file in the working directory is loaded if present.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8020, "port to listen on")

	return cmd
}

func runServe(port int) error {
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	cfg := auth.ConfigFromEnv()
	logging.Setup(cfg.DevMode)

	if cfg.JWTSecret == "" {
		return fmt.Errorf("YATRA_JWT_SECRET is required")
	}

	database, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeDB(database)

	server := web.NewServer(database, cfg)

	slog.Info("starting server", "port", port, "dev_mode", cfg.DevMode)
	return server.ListenAndServe(port)
}
