package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vetdao/governance-locks/internal/api"
	"github.com/vetdao/governance-locks/internal/clock"
	"github.com/vetdao/governance-locks/internal/config"
	"github.com/vetdao/governance-locks/internal/observability/metrics"
	"github.com/vetdao/governance-locks/internal/observability/tracing"
	"github.com/vetdao/governance-locks/internal/services"
)

const shutdownTimeout = 15 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the governance locks api server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	params, err := cfg.Lock.Params()
	if err != nil {
		log.Fatal().Err(err).Msg("error while building lock params")
	}

	dbClient, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while opening storage")
	}
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("error while closing storage")
		}
	}()

	// Create a basic zap logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating zap logger")
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	publisher, err := newPublisher(cfg, zapLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize event publisher")
	}
	if err := publisher.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start event publisher")
	}
	defer func() {
		if err := publisher.Stop(); err != nil {
			log.Error().Err(err).Msg("error while stopping event publisher")
		}
	}()

	service, err := services.NewService(cfg, params, dbClient, publisher, clock.NewStandardClock())
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating service")
	}

	if err := service.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while bootstrapping lock registry")
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	service.StartBackgroundTasks(ctx)

	server := api.New(&cfg.Server, service)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(context.Context) error {
		return server.Start()
	})
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		log.Info().Msg("Shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return p.Wait()
}
