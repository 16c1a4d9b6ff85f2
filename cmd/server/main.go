package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"lineage/internal/audit"
	"lineage/internal/dictionary"
	"lineage/internal/event"
	"lineage/internal/family"
	"lineage/internal/identity"
	"lineage/internal/person"
	"lineage/internal/platform/config"
	"lineage/internal/platform/httpserver"
	"lineage/internal/platform/kafka"
	"lineage/internal/platform/logger"
	"lineage/internal/platform/metrics"
	"lineage/internal/platform/redis"
	"lineage/internal/records"
	"lineage/internal/relationship"
	"lineage/internal/review"
	"lineage/internal/tree"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "error", err)
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Error("ping database", "error", err)
		return err
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.AuditTopic)
	if err != nil {
		log.Error("connect kafka", "error", err)
		return err
	}
	defer producer.Close()

	m := metrics.New()
	auditEmitter := audit.NewEmitter(audit.NewKafkaPublisher(producer), log)
	tokenValidator := identity.NewService(cfg.JWTSigningKey)

	personStore := person.NewPostgresStore(db)
	dictStore := dictionary.NewCachedStore(dictionary.NewPostgresStore(db), redisClient, log)
	nameResolver := person.NewNameResolver(dictStore)
	relStore := relationship.NewPostgresStore(db)
	eventStore := event.NewPostgresStore(db)
	participantStore := event.NewPostgresParticipantStore(db)
	searchStore := records.NewPostgresStore(db)
	conflictStore := review.NewPostgresConflictStore(db)
	duplicateStore := review.NewPostgresDuplicateStore(db)

	reconciler := event.NewReconciler(participantStore, m, log)
	txRunner := newSQLTxRunner(db)

	treeService := tree.NewService(personStore, relStore, nameResolver, m, log)
	familyService := family.NewService(personStore, relStore, nameResolver, m, log)
	eventService := event.NewService(eventStore, reconciler, participantStore, relStore,
		txRunner, auditEmitter, m, log)
	reviewService := review.NewService(conflictStore, duplicateStore, auditEmitter, m, log)
	recordsService := records.NewService(searchStore, eventStore, participantStore, personStore, m, log)

	handler := newRouter(routerDeps{
		logger:    log,
		validator: tokenValidator,
		tree:      tree.NewHandler(treeService, log),
		family:    family.NewHandler(familyService, log),
		events:    event.NewHandler(eventService, log),
		review:    review.NewHandler(reviewService, log),
		records:   records.NewHandler(recordsService, log),
		health: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	})

	apiServer := httpserver.New(cfg.Addr, handler)
	metricsServer := httpserver.New(cfg.MetricsAddr, promhttp.Handler())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("api server listening", "addr", cfg.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("metrics server listening", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		return err
	}
	return nil
}
