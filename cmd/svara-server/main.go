package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/nareswara/svara/adapters/engine"
	"github.com/nareswara/svara/adapters/rpc"
	"github.com/nareswara/svara/domain/entities"
	"github.com/nareswara/svara/internal/api"
	"github.com/nareswara/svara/internal/auth"
	"github.com/nareswara/svara/internal/config"
	"github.com/nareswara/svara/internal/logging"
	"github.com/nareswara/svara/internal/websocket"
	"github.com/nareswara/svara/usecase"
)

func main() {
	env, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	host := flag.String("host", "[::]:50051", "gRPC bind address")
	language := flag.String("language", string(env.Language), "recognition language")
	metricsAddr := flag.String("metrics-addr", ":8080", "HTTP bind address for token, health and websocket endpoints")
	tokenSecret := flag.String("token-secret", "", "HS256 signing secret for access tokens")
	clientCredentials := flag.String("client-credentials", "", "comma separated client_id:client_secret pairs")
	verbosity := flag.String("v", env.LogLevel, "log level, one of "+strings.Join(logging.LevelOptions(), "|"))
	flag.Parse()

	logger, err := logging.New(*verbosity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	lang, err := entities.ParseLanguage(*language)
	if err != nil {
		logger.Fatal("Invalid language", zap.Error(err))
	}
	if *tokenSecret == "" {
		logger.Fatal("A token secret is required")
	}
	credentials, err := parseCredentials(*clientCredentials)
	if err != nil {
		logger.Fatal("Invalid client credentials", zap.Error(err))
	}

	secret := []byte(*tokenSecret)
	recognitionEngine := engine.NewStatic(lang, logger)

	// gRPC surface
	listener, err := net.Listen("tcp", *host)
	if err != nil {
		logger.Fatal("Failed to listen", zap.String("host", *host), zap.Error(err))
	}

	server := grpc.NewServer(
		grpc.UnaryInterceptor(auth.UnaryServerInterceptor(secret, logger)),
		grpc.StreamInterceptor(auth.StreamServerInterceptor(secret, logger)),
	)
	rpc.RegisterRecognizerServer(server, usecase.NewRecognizerService(recognitionEngine, logger))
	rpc.RegisterSynthesizerServer(server, usecase.NewSynthesizerService(engine.NewStaticSynthesizer(logger), logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(rpc.RecognizerServiceName, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(rpc.SynthesizerServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	go func() {
		logger.Info("gRPC server started",
			zap.String("host", *host),
			zap.String("language", string(lang)))
		if err := server.Serve(listener); err != nil {
			logger.Fatal("gRPC server stopped", zap.Error(err))
		}
	}()

	// HTTP surface
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	api.InitRoutes(e, api.Config{
		Credentials:   credentials,
		SigningSecret: secret,
		TokenTTL:      24 * time.Hour,
	}, websocket.NewHandler(recognitionEngine, logger), logger)

	go func() {
		if err := e.Start(*metricsAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server stopped", zap.Error(err))
		}
	}()

	logger.Info("HTTP server started", zap.String("addr", *metricsAddr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	healthServer.Shutdown()
	server.GracefulStop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// parseCredentials splits comma separated client_id:client_secret pairs.
func parseCredentials(raw string) (api.CredentialStore, error) {
	store := api.CredentialStore{}
	if raw == "" {
		return store, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		id, secret, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || id == "" || secret == "" {
			return nil, fmt.Errorf("malformed credential pair %q", pair)
		}
		store[id] = secret
	}
	return store, nil
}
