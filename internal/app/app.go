package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/probasweeper/internal/config"
	"github.com/vancomm/probasweeper/internal/database"
	"github.com/vancomm/probasweeper/internal/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	logger     *slog.Logger
	migrations fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	return &App{
		logger:     logger,
		migrations: migrations,
	}
}

// openStore connects to PostgreSQL when it is configured and falls back to
// the in-memory store otherwise.
func (a *App) openStore(ctx context.Context) (repository.Store, func(), error) {
	db, err := database.ConnectAndMigrate(ctx, a.migrations)
	if errors.Is(err, config.ErrNoDatabase) {
		a.logger.Warn("no database configured, game sessions are kept in memory")
		return repository.NewMemory(), func() {}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to db: %w", err)
	}
	return repository.New(db), db.Close, nil
}

func (a *App) Start(ctx context.Context) error {
	params, err := config.NewEstimatorParams()
	if err != nil {
		return err
	}
	maxCells, err := config.MaxCells()
	if err != nil {
		return err
	}

	repo, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	port := config.Port()
	server := &http.Server{
		Addr:         port,
		Handler:      a.Handler(repo, params, maxCells),
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	a.logger.Info(
		"server listening",
		slog.String("addr", port),
		slog.String("base_path", config.BasePath()),
		slog.Any("estimator", params),
		slog.Int("max_cells", maxCells),
	)
	return g.Wait()
}
