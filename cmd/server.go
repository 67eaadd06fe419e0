package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/sitebook/internal/auth"
	"github.com/example/sitebook/internal/config"
	"github.com/example/sitebook/internal/db"
	"github.com/example/sitebook/internal/logging"
	"github.com/example/sitebook/internal/migrate"
	"github.com/example/sitebook/internal/sites"
	"github.com/example/sitebook/internal/web"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			log, err := logging.New(cfg.LogLevel, cfg.DevMode)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			ws := &web.Server{
				Log:   log,
				Auth:  auth.NewStore(d, cfg.SessionHashKey, cfg.SessionBlockKey),
				Sites: sites.NewRepo(d),
			}
			return web.Start(ctx, log, cfg.HTTPAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")

	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
