package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fbay/internal/app"
	"fbay/internal/config"
	"fbay/internal/notify"
	"fbay/internal/repositories"
	"fbay/pkg/logger"
	"fbay/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

// newRootCmd builds the fbay command tree. Configuration is loaded once
// before any subcommand runs.
func newRootCmd() *cobra.Command {
	var (
		cfg     config.Config
		envFile string
	)

	root := &cobra.Command{
		Use:           "fbay",
		Short:         "fBay auction marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotEnv(envFile)
			loaded, err := config.Load(viper.New())
			if err != nil {
				return err
			}
			if err := logger.SetLevel(loaded.LogLevel); err != nil {
				return fmt.Errorf("invalid LOG_LEVEL %q: %w", loaded.LogLevel, err)
			}
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path of an optional .env file")

	root.AddCommand(
		newServeCmd(&cfg),
		newSweepCmd(&cfg),
		newMailerCmd(&cfg),
		newMigrateCmd(&cfg),
	)
	return root
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.NewContainer(*cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			server := app.NewServer(container)

			// Graceful shutdown handling
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", map[string]any{"port": cfg.AppPort})
				errCh <- server.Listen(cfg.AppPort)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			logger.Info("shutting down server", nil)
			if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
				logger.Error("error during server shutdown", map[string]any{"error": err.Error()})
			}
			logger.Info("server gracefully stopped", nil)
			return nil
		},
	}
}

func newSweepCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Complete every auction whose end date has passed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.NewContainer(*cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			completed, err := container.SweepService.Run(cmd.Context(), container.Clock.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "completed %d auctions\n", len(completed))
			return err
		},
	}
}

func newMailerCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "mailer",
		Short: "Deliver notifications from the mail queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deliverer, err := app.DirectDeliverer(*cfg)
			if err != nil {
				return err
			}
			client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.MailQueueName})
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = client.Consume(ctx, notify.QueuedMessageHandler(deliverer))
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := repositories.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := repositories.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
