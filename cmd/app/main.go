// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/robopass/robopass/internal/app"
	"github.com/robopass/robopass/internal/config"
	cryptoService "github.com/robopass/robopass/internal/crypto/service"
)

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "robopass",
		Usage:   "Local single-user password vault",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the vault API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runServer(ctx)
				},
			},
			{
				Name:  "create-account",
				Usage: "Create a vault file without starting the server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Account username (also the vault file-name stem)",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account passphrase",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runCreateAccount(ctx, cmd.String("username"), cmd.String("password"))
				},
			},
			{
				Name:  "generate-password",
				Usage: "Generate a random password",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "length",
						Aliases: []string{"l"},
						Value:   cryptoService.DefaultPasswordLength,
						Usage:   "Password length (10-128)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runGeneratePassword(int(cmd.Int("length")))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// runServer starts the API server (and the metrics server when enabled) with
// graceful shutdown support.
func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting robopass", slog.String("version", "1.0.0"))

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Start(groupCtx)
	})
	if metricsServer != nil {
		group.Go(func() error {
			return metricsServer.Start(groupCtx)
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		var firstErr error
		if err := server.Shutdown(shutdownCtx); err != nil {
			firstErr = fmt.Errorf("server shutdown failed: %w", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("metrics server shutdown failed: %w", err)
			}
		}
		return firstErr
	})

	return group.Wait()
}

// runCreateAccount creates a vault file and logs straight back out, leaving no
// session behind. Useful for provisioning before the front-end first starts.
func runCreateAccount(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("both --username and --password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	useCase, err := container.VaultUseCase()
	if err != nil {
		return err
	}

	if err := useCase.CreateAccount(ctx, username, password); err != nil {
		return err
	}
	if err := useCase.Logout(ctx); err != nil {
		return err
	}

	fmt.Printf("account %q created under %s\n", username, cfg.AppFolder)
	return nil
}

// runGeneratePassword prints a random password from the default alphabet.
func runGeneratePassword(length int) error {
	password, err := cryptoService.GeneratePassword(cryptoService.DefaultPasswordAlphabet, length)
	if err != nil {
		return err
	}

	fmt.Println(password)
	return nil
}
