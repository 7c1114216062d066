package main

import (
	"fmt"
	"log/slog"

	log "github.com/charmbracelet/log"
	_ "github.com/fincore/bankapi/docs"
	"github.com/fincore/bankapi/infra/initializer"
	"github.com/fincore/bankapi/pkg/config"
	"github.com/fincore/bankapi/webapi"
)

// @title Bank API
// @version 1.0.0
// @description Personal banking demo API: accounts, balances and transactions
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(slog.Default(), ".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	logger := initializer.SetupLogger(&cfg.Log)

	deps, err := initializer.InitializeDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app := webapi.New(webapi.Services{
		User:   deps.User,
		Auth:   deps.Auth,
		Ledger: deps.Ledger,
	}, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)

	return app.Listen(addr)
}
