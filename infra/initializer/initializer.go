package initializer

import (
	"fmt"
	"log/slog"

	"github.com/fincore/bankapi/infra"
	infrarepo "github.com/fincore/bankapi/infra/repository"
	"github.com/fincore/bankapi/pkg/config"
	authsvc "github.com/fincore/bankapi/pkg/service/auth"
	ledgersvc "github.com/fincore/bankapi/pkg/service/ledger"
	usersvc "github.com/fincore/bankapi/pkg/service/user"
	"gorm.io/gorm"
)

// Dependencies holds everything the entrypoints need after wiring.
type Dependencies struct {
	Logger *slog.Logger
	DB     *gorm.DB
	UoW    *infrarepo.UoW
	User   *usersvc.Service
	Auth   *authsvc.Service
	Ledger *ledgersvc.Service
}

// InitializeDependencies connects to the database, migrates the schema and
// builds the services.
func InitializeDependencies(cfg *config.App, logger *slog.Logger) (*Dependencies, error) {
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	uow := infrarepo.NewUoW(db)
	return &Dependencies{
		Logger: logger,
		DB:     db,
		UoW:    uow,
		User:   usersvc.New(uow, logger),
		Auth:   authsvc.New(uow, cfg.Jwt, logger),
		Ledger: ledgersvc.New(uow, logger),
	}, nil
}
