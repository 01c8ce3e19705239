package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/terraincognita07/flowlog/internal/api"
	"github.com/terraincognita07/flowlog/internal/cli"
	"github.com/terraincognita07/flowlog/internal/config"
	"github.com/terraincognita07/flowlog/internal/db"
	urfavecli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "flowlog: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "flowlog",
		Usage: "Self-hosted period and symptom log",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				Sources: urfavecli.EnvVars("FLOWLOG_CONFIG_FILE"),
			},
		},
		Action: serve,
		Commands: []*urfavecli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:  "reset-password",
				Usage: "Reset a user's password",
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&urfavecli.BoolFlag{
						Name:  "prompt",
						Usage: "Type the new password instead of issuing a temporary one",
					},
				},
				Action: resetPassword,
			},
		},
	}
}

func serve(ctx context.Context, cmd *urfavecli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	location := cfg.Location()
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	handler, err := api.NewHandler(database, cfg.SecretKey, location, log)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newApp(handler, cfg)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("flowlog listening",
			zap.String("address", cfg.Address()),
			zap.String("db_path", cfg.DBPath),
			zap.String("tz", location.String()))
		if err := app.Listen(cfg.Address()); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}

func newApp(handler *api.Handler, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "flowlog",
		DisableStartupMessage: true,
		ProxyHeader:           cfg.ProxyHeader,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))

	api.RegisterRoutes(app, handler)
	return app
}

func resetPassword(_ context.Context, cmd *urfavecli.Command) error {
	cfg, err := config.LoadStorage(cmd.String("config"))
	if err != nil {
		return err
	}
	return cli.RunResetPasswordCommand(cfg.DBPath, cli.ResetOptions{
		Email:  cmd.String("email"),
		Prompt: cmd.Bool("prompt"),
	}, os.Stdout)
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(parsed)
	zapConfig.EncoderConfig.TimeKey = "time"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapConfig.Build()
}
