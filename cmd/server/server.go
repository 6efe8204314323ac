package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/guildworks/combat-api/internal/clients/gamedata"
	"github.com/guildworks/combat-api/internal/clients/notify"
	"github.com/guildworks/combat-api/internal/orchestrators/combat"
	"github.com/guildworks/combat-api/internal/pkg/clock"
	"github.com/guildworks/combat-api/internal/pkg/idgen"
	"github.com/guildworks/combat-api/internal/redis"
	combatsession "github.com/guildworks/combat-api/internal/repositories/combat_session"
	diceinventory "github.com/guildworks/combat-api/internal/repositories/dice_inventory"
	"github.com/guildworks/combat-api/internal/repositories/discovery"
)

// serverConfig is populated from the environment
type serverConfig struct {
	GRPCPort   int           `env:"GRPC_PORT" envDefault:"50051"`
	RedisAddr  string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

var grpcPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the combat resolution gRPC server with all configured services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides GRPC_PORT)")
}

func runServer(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	if grpcPort != 0 {
		cfg.GRPCPort = grpcPort
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	svc, err := buildCombatService(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("failed to build combat service: %w", err)
	}
	// Transport handlers register svc here once the combat API surface is
	// published; until then the server exposes health and reflection only.
	_ = svc

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("combat.v1.CombatService", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("gRPC server starting", "port", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gRPC server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// buildCombatService wires the Redis-backed stores and collaborators into the
// combat orchestrator
func buildCombatService(ctx context.Context, cfg *serverConfig) (combat.Service, error) {
	redisClient, err := redis.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr, err)
	}

	sessionRepo, err := combatsession.NewRedisRepository(&combatsession.Config{
		Client: redisClient,
		Clock:  clock.New(),
		TTL:    cfg.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session repository: %w", err)
	}

	diceRepo, err := diceinventory.NewRedisRepository(&diceinventory.Config{
		Client: redisClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dice repository: %w", err)
	}

	discoveryRepo, err := discovery.NewRedisRepository(&discovery.Config{
		Client: redisClient,
		Clock:  clock.New(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery repository: %w", err)
	}

	return combat.NewOrchestrator(&combat.Config{
		SessionRepo:   sessionRepo,
		DiceRepo:      diceRepo,
		DiscoveryRepo: discoveryRepo,
		// The in-memory game-data client stands in until the backend
		// catalog service is reachable from this deployment
		GameData:    gamedata.NewMemory(nil),
		Notifier:    notify.NewSlogPublisher(slog.Default()),
		Roller:      dice.DefaultRoller,
		IDGenerator: idgen.NewUUID("sess"),
		Clock:       clock.New(),
	})
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
