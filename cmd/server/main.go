// Command server runs the chess matchmaking and session server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tege1337/chess2.0/internal/config"
	"github.com/Tege1337/chess2.0/internal/engine"
	"github.com/Tege1337/chess2.0/internal/httpapi"
	"github.com/Tege1337/chess2.0/internal/hub"
	"github.com/Tege1337/chess2.0/internal/observability"
	"github.com/Tege1337/chess2.0/internal/relay"
)

var _ hub.Transport = (*relay.Relay)(nil)

func main() {
	flags := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := flags.String("config", "", "path to a YAML configuration file")
	flags.Int("port", 3000, "HTTP listen port")
	flags.String("log-level", "info", "minimum log level: debug, info, warn, error")
	flags.String("static", "", "directory served at / for the browser client")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	rl := relay.New(logger.Named("relay"))
	orch := hub.NewOrchestrator(engine.NewChess(), rl, logger.Named("hub"))
	h := hub.NewHub(ctx, orch, logger.Named("hub"), cfg.Hub.InboxSize)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           httpapi.SetupRoutes(h, rl, cfg, logger.Named("http")),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("static_dir", cfg.Server.StaticDir),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)

		// Websockets are hijacked and outlive Shutdown; closing their
		// outboxes makes each writer close its socket.
		rl.Shutdown()
		_ = h.Send(sctx, hub.ShutdownHub{})
		select {
		case <-h.Done():
		case <-sctx.Done():
		}
		return err
	})

	return g.Wait()
}
