package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/garyjia/default-desk/internal/config"
	"github.com/garyjia/default-desk/internal/container"
	deskhttp "github.com/garyjia/default-desk/internal/interfaces/http"
	"github.com/garyjia/default-desk/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file (empty for defaults and environment only)")
	envFile := flag.String("env", ".env", "Optional .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting default desk",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("session_driver", cfg.Session.Driver),
		zap.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("Default desk stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("Default desk exited successfully")
}

// run starts the container and serves the gateway until ctx is done. The container
// is closed on every return path, including a start that failed halfway.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Container closed with errors", zap.Error(err))
		}
	}()

	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("start container: %w", err)
	}

	if health := c.Health(ctx); !health.Overall {
		logger.Warn("Desk started with unhealthy components", zap.Any("components", health.Components))
	}

	server := deskhttp.NewServer(deskhttp.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Debug:        cfg.Logger.Level == "debug",
	}, c, utils.NewServiceLogger(logger))

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
