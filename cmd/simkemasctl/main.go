package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/simkemas/simkemas-backend/pkg/config"
	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "simkemasctl",
	Short: "Operator tooling for the SIMKEMAS backend",
	Long: `simkemasctl runs one-off maintenance against the SIMKEMAS database:
bootstrapping the first admin account and auditing stored payment status.`,
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is the shared bootstrap for every subcommand.
type env struct {
	cfg  *config.Config
	logg *logger.Logger
	db   *db.Client
}

func bootstrap(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "simkemasctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      "console",
	})
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, logg: logg, db: client}, nil
}

func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		e.logg.Error(context.Background(), "error closing database", err)
	}
}
