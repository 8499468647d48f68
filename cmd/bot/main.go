package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticketbot/internal/api/http"
	"github.com/spec-kit/ticketbot/internal/api/http/handlers"
	"github.com/spec-kit/ticketbot/internal/auth"
	"github.com/spec-kit/ticketbot/internal/cache"
	"github.com/spec-kit/ticketbot/internal/config"
	"github.com/spec-kit/ticketbot/internal/events"
	"github.com/spec-kit/ticketbot/internal/gateway"
	"github.com/spec-kit/ticketbot/internal/nlp"
	"github.com/spec-kit/ticketbot/internal/observability"
	"github.com/spec-kit/ticketbot/internal/persistence"
	"github.com/spec-kit/ticketbot/internal/repository"
	"github.com/spec-kit/ticketbot/internal/service"
	"github.com/spec-kit/ticketbot/internal/worker"
)

func main() {
	issueFor := flag.String("issue-token", "", "print an admin API token for this subject and exit")
	issueRole := flag.String("role", string(auth.RoleViewer), "role for -issue-token (admin or viewer)")
	flag.Parse()

	if *issueFor != "" {
		if err := issueToken(os.Stdout, config.LoadAuth(), *issueFor, *issueRole); err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, 0)

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	store, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongo", zap.Error(err))
	}
	defer store.Close(context.Background())

	if cfg.Mongo.EnsureIndexes {
		if err := persistence.EnsureIndexes(ctx, store.Database(), logger); err != nil {
			logger.Fatal("failed to ensure indexes", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	db := store.Database()
	ticketRepo := repository.NewTicketRepository(db, metrics)
	userRepo := repository.NewUserRepository(db, metrics)
	serverRepo := repository.NewCachedServerRepository(
		repository.NewServerRepository(db, metrics),
		cache.NewServerCache(redis.Client, cfg.Redis.ServerTTL(), logger),
		logger,
	)

	witClient := nlp.NewClient(cfg.NLP, nil)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartMessageWorker(service.NewMessageService(dispatcher, logger))

	bot, err := gateway.NewBot(cfg.Discord, gateway.NewHandler(dispatcher, metrics, logger), logger)
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}
	if err := bot.Open(); err != nil {
		logger.Fatal("failed to connect discord gateway", zap.Error(err))
	}
	defer bot.Close() //nolint:errcheck

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"mongo":   store,
			"redis":   redis,
			"discord": bot,
		}),
		Metrics: handlers.NewMetricsHandler(metrics),
		Records: handlers.NewRecordsHandler(handlers.RecordsDependencies{
			TicketRepo: ticketRepo,
			ServerRepo: serverRepo,
			UserRepo:   userRepo,
		}),
		NLP:            handlers.NewNLPHandler(witClient),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// issueToken signs an admin token with the configured secret. It needs no
// other configuration and opens no connections.
func issueToken(w io.Writer, cfg config.AuthConfig, subject, role string) error {
	switch auth.Role(role) {
	case auth.RoleAdmin, auth.RoleViewer:
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	token, expiresAt, err := auth.NewTokenManager(cfg.JWTSecret, 0).GenerateToken(subject, auth.Role(role))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\nexpires %s\n", token, expiresAt.Format(time.RFC3339))
	return err
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
