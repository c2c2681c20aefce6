package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"contactdesk/internal/config"
	"contactdesk/internal/di"
	"contactdesk/internal/logging"
)

const healthInterval = 30 * time.Second

func main() {
	cfg := config.LoadConfig()
	logging.Setup(cfg.Logging, "contact-svc")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if err := run(cfg, quit); err != nil {
		log.Fatal().Err(err).Msg("contact service failed")
	}
}

// run owns every resource it opens; all of them are released before it
// returns, including on startup errors.
func run(cfg *config.Config, quit <-chan os.Signal) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	app, cleanup, err := di.InitializeApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize contact service: %w", err)
	}
	defer cleanup()

	lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC on port %s: %w", cfg.Server.GRPCPort, err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go app.Health.Watch(ctx, healthInterval)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(loggingUnaryInterceptor))
	app.Health.Register(grpcServer)
	go func() {
		log.Info().Str("port", cfg.Server.GRPCPort).Msg("gRPC health service running")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      app.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Server.Environment).
			Msg("contact service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var runErr error
	select {
	case <-quit:
		log.Info().Msg("shutting down contact service")
	case err := <-serveErr:
		runErr = fmt.Errorf("HTTP server failed: %w", err)
	}

	app.Health.Shutdown()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown did not complete")
	}
	grpcServer.GracefulStop()
	log.Info().Msg("contact service stopped")
	return runErr
}

func loggingUnaryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("method", info.FullMethod).Dur("duration", time.Since(start)).Msg("grpc call")
	return resp, err
}
