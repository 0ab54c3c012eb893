package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/sendflow/internal/adapter/events"
	grpcadapter "github.com/simaogato/sendflow/internal/adapter/grpc"
	httpadapter "github.com/simaogato/sendflow/internal/adapter/http"
	"github.com/simaogato/sendflow/internal/adapter/repository/memory"
	"github.com/simaogato/sendflow/internal/usecase/flow"
	"github.com/simaogato/sendflow/internal/usecase/session"
	"github.com/simaogato/sendflow/pkg/logger"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve flow sessions over gRPC and HTTP",
		RunE:  runServe,
	}

	cmd.Flags().String("grpc-addr", "", "gRPC listen address (overrides GRPC_ADDR)")
	cmd.Flags().String("http-addr", "", "HTTP listen address (overrides HTTP_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := a.cfg
	if v, _ := cmd.Flags().GetString("grpc-addr"); v != "" {
		cfg.GRPCAddr = v
	}
	if v, _ := cmd.Flags().GetString("http-addr"); v != "" {
		cfg.HTTPAddr = v
	}

	timing, err := cfg.Timing()
	if err != nil {
		return err
	}

	// 1. Event sinks
	publishers := events.MultiPublisher{events.NewLogPublisher(logger.Log)}
	if cfg.KafkaEnabled() {
		publishers = append(publishers, events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, func(err error) {
			logger.Log.Warn("kafka delivery failed", logger.Error(err))
		}))
		logger.Log.Info("publishing flow events to kafka",
			logger.String("topic", cfg.KafkaTopic))
	}
	defer func() {
		if err := publishers.Close(); err != nil {
			logger.Log.Warn("failed to close publishers", logger.Error(err))
		}
	}()

	// 2. Services
	sessionRepo := memory.NewSessionRepository[*flow.Machine]()
	sessionService := session.NewSessionService(
		a.catalogRepo,
		sessionRepo,
		publishers,
		timing,
		flow.RealScheduler{},
		cfg.Host(),
	)
	logger.Log.Info("catalog seeded",
		logger.Int("parties", len(a.catalog.Parties)),
		logger.Int("methods", len(a.catalog.Methods)))
	logger.Log.Info("flow timing",
		logger.Duration("sending_delay", timing.SendingDelay),
		logger.Duration("minimal_delay", timing.MinimalDelay),
		logger.Duration("complete_delay", timing.CompleteDelay),
		logger.Duration("drain_duration", timing.DrainDuration))

	// 3. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.RecoveryInterceptor(logger.Log),
			grpcadapter.LoggingInterceptor(logger.Log),
		),
	)
	grpcadapter.RegisterFlowServiceServer(grpcServer, grpcadapter.NewServer(sessionService))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	// 4. HTTP server
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpadapter.Router(httpadapter.New(sessionService)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Log.Info("gRPC server listening", logger.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		logger.Log.Info("HTTP server listening", logger.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return waitForShutdown(errCh, grpcServer, httpServer, sessionService)
}

// waitForShutdown waits for SIGTERM, SIGINT or a server failure and then
// stops both servers and unmounts every live session
func waitForShutdown(errCh <-chan error, grpcServer *grpclib.Server, httpServer *http.Server, sessions *session.SessionService) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	var serveErr error
	select {
	case sig := <-sigChan:
		logger.Log.Info("shutting down gracefully", logger.String("signal", sig.String()))
	case serveErr = <-errCh:
		logger.Log.Error("server failed", logger.Error(serveErr))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Log.Warn("HTTP shutdown incomplete", logger.Error(err))
	}
	grpcServer.GracefulStop()

	if _, err := sessions.CloseAll(ctx); err != nil {
		logger.Log.Warn("failed to close sessions", logger.Error(err))
	}
	logger.Log.Info("servers stopped")
	return serveErr
}
