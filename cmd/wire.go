package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bnema/haggle/internal/adapters/ids"
	sqlrepo "github.com/bnema/haggle/internal/adapters/repo/sql"
	tomlrepo "github.com/bnema/haggle/internal/adapters/repo/toml"
	chainstore "github.com/bnema/haggle/internal/adapters/secrets/chain"
	"github.com/bnema/haggle/internal/adapters/statetoken"
	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/config"
	"github.com/bnema/haggle/internal/domain"
	"github.com/bnema/haggle/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg          config.Config
	catalog      *application.CatalogService
	negotiations *application.NegotiationService
	secretStore  ports.SecretStore
	logger       *slog.Logger
	now          func() time.Time
	closers      []func() error
}

func wireApp(ctx context.Context, configFile string, logOutput io.Writer) (*app, error) {
	v, err := config.NewViper(configFile)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: cfg.Log.NewLogger(logOutput),
		now:    time.Now,
	}

	catalogRepo, err := tomlrepo.NewCatalogRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire catalog repository: %w", err)
	}

	negotiationRepo, err := a.negotiationRepository(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("wire negotiation repository: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(cfg.Secrets.Dir)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("wire secret store chain: %w", err), a.close())
	}

	strategies := application.Strategies{
		Product:  cfg.Strategies[domain.KindProduct],
		Delivery: cfg.Strategies[domain.KindDelivery],
	}
	clock := ports.SystemClock{}
	idGen := ids.NewULIDGenerator(clock)

	a.secretStore = secretStore
	a.catalog = application.NewCatalogService(catalogRepo, idGen, nil, strategies.Delivery)
	a.negotiations = application.NewNegotiationService(catalogRepo, negotiationRepo, idGen, clock, application.NegotiationOptions{
		Strategies: strategies,
		Logger:     a.logger,
	})

	a.logger.Debug("app wired", "storage", cfg.Storage.Driver)

	return a, nil
}

// negotiationRepository picks the negotiation store from storage.driver. The
// catalog always lives in TOML.
func (a *app) negotiationRepository(ctx context.Context, v *viper.Viper) (ports.NegotiationRepository, error) {
	var (
		db  *sql.DB
		err error
	)

	switch a.cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err = sqlrepo.OpenSQLite(a.cfg.Storage.SQLitePath)
	case config.DriverMySQL:
		db, err = sqlrepo.OpenMySQL(ctx, sqlrepo.MySQLConfig{
			User:     a.cfg.Storage.MySQL.User,
			Password: a.cfg.Storage.MySQL.Password,
			Addr:     a.cfg.Storage.MySQL.Addr,
			Database: a.cfg.Storage.MySQL.Database,
		})
	default:
		return tomlrepo.NewNegotiationRepository(v)
	}
	if err != nil {
		return nil, err
	}

	repo, err := sqlrepo.NewNegotiationRepository(ctx, db)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	a.closers = append(a.closers, repo.Close)

	return repo, nil
}

// sealer builds the state token sealer. A configured passphrase wins over
// the secret store.
func (a *app) sealer(ctx context.Context) (*statetoken.Sealer, error) {
	if a.cfg.Secrets.TokenPassphrase != "" {
		return statetoken.NewSealer(statetoken.SecretFromPassphrase(a.cfg.Secrets.TokenPassphrase))
	}

	secret, err := statetoken.LoadOrCreateSecret(ctx, a.secretStore)
	if err != nil {
		return nil, err
	}

	return statetoken.NewSealer(secret)
}

func (a *app) close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	a.closers = nil

	return errors.Join(errs...)
}
