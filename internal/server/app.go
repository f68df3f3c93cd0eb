// Package server initializes and runs the application server: it opens the
// database, applies migrations, wires the services and starts the HTTP API,
// shutting everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dkarlovs/cloudvault/internal/logging"
	"github.com/dkarlovs/cloudvault/internal/server/config"
	"github.com/dkarlovs/cloudvault/internal/server/files"
	"github.com/dkarlovs/cloudvault/internal/server/passwords"
	"github.com/dkarlovs/cloudvault/internal/server/rest"
	"github.com/dkarlovs/cloudvault/internal/server/shared/db"
	"github.com/dkarlovs/cloudvault/internal/server/users"
	"github.com/dkarlovs/cloudvault/internal/server/vaultcreds"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *users.Service
	vaultService    *vaultcreds.Service
	passwordService *passwords.Service
	fileService     *files.Service
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	conn, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := db.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	userRepo, err := rm.Users(conn)
	if err != nil {
		return nil, err
	}
	refreshTokenRepo, err := rm.RefreshTokens(conn)
	if err != nil {
		return nil, err
	}
	vaultRepo, err := rm.VaultCredentials(conn)
	if err != nil {
		return nil, err
	}
	passwordRepo, err := rm.Passwords(conn)
	if err != nil {
		return nil, err
	}
	fileRepo, err := rm.Files(conn)
	if err != nil {
		return nil, err
	}

	us := users.NewService(userRepo, refreshTokenRepo, cfg)
	vs := vaultcreds.NewService(vaultRepo)
	ps := passwords.NewService(passwordRepo)
	fs := files.NewService(fileRepo, files.NewS3ObjectStore(cfg), logger)

	return &App{
		config:          cfg,
		logger:          logger,
		db:              conn,
		userService:     us,
		vaultService:    vs,
		passwordService: ps,
		fileService:     fs,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := rest.NewRESTServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.vaultService, app.passwordService, app.fileService,
		app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
