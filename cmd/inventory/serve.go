package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kpdgayao/vivita-inventory/database"
	"github.com/kpdgayao/vivita-inventory/web"
	"github.com/kpdgayao/vivita-inventory/web/handlers"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command
type ServeOptions struct {
	Migrate bool
	Seed    bool
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the inventory web server on APP_PORT.

Example:
  inventory serve
  inventory serve --migrate --seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "run database migration on startup")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "seed sample data when the database is empty")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	if opts.Migrate {
		if err := e.migrate(false); err != nil {
			return err
		}
	}
	svc, err := e.services(ctx)
	if err != nil {
		return err
	}
	defer svc.close()

	if opts.Seed {
		res, err := seedAndInvalidate(ctx, e.db, e.log, svc.analytics, database.SeedOptions{})
		if err != nil {
			return err
		}
		e.log.Info("seed finished", zap.Int("items", res.Items), zap.Int("transactions", res.Transactions), zap.Bool("skipped", res.Skipped))
	}

	h := handlers.New(handlers.Deps{
		DB:           e.db,
		Items:        svc.items,
		Suppliers:    svc.suppliers,
		Transactions: svc.txns,
		Activity:     svc.activity,
		Analytics:    svc.analytics,
		QueryLog:     database.SQLLogger,
		Log:          e.log,
	})
	server, err := web.NewServer(e.cfg.App, h, database.SQLLogger, e.log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(e.cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	e.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	e.log.Info("server exited")
	return nil
}
