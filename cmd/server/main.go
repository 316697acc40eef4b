// Command server runs the complaint lifecycle service.
//
// Postgres holds the case-of-record and status history; Redis holds the
// narrative timeline and evidence logs. Either can be left unconfigured, in
// which case the corresponding in-memory store serves a single process.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caseline/internal/audit"
	complainthandler "caseline/internal/complaint/handler"
	complaintservice "caseline/internal/complaint/service"
	"caseline/internal/complaint/store/evidence"
	"caseline/internal/complaint/store/record"
	"caseline/internal/complaint/store/timeline"
	router "caseline/internal/http"
	identityhandler "caseline/internal/identity/handler"
	identityservice "caseline/internal/identity/service"
	identitystore "caseline/internal/identity/store"
	"caseline/internal/platform/config"
	"caseline/internal/platform/httpserver"
	"caseline/internal/platform/logger"
	"caseline/internal/platform/metrics"
	"caseline/internal/platform/postgres"
	"caseline/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		records  complaintservice.RecordStore
		timel    complaintservice.TimelineStore
		evid     complaintservice.EvidenceStore
		accounts identityservice.Store
	)
	if db != nil {
		records = record.NewPostgres(db)
		accounts = identitystore.NewPostgres(db)
	} else {
		log.Warn("postgres not configured, using in-memory record store")
		records = record.NewInMemory()
		accounts = identitystore.NewInMemory()
	}
	if redisClient != nil {
		timel = timeline.NewRedis(redisClient.Client)
		evid = evidence.NewRedis(redisClient.Client)
	} else {
		log.Warn("redis not configured, using in-memory log stores")
		timel = timeline.NewInMemory()
		evid = evidence.NewInMemory()
	}

	kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, log)
	if err != nil {
		log.Error("connect kafka", "error", err)
		os.Exit(1)
	}
	var sink audit.Sink
	if kafkaSink != nil {
		sink = kafkaSink
	}
	publisher := audit.NewPublisher(audit.NewInMemoryStore(), sink)

	m := metrics.New()

	identitySvc := identityservice.New(identityservice.Config{
		Store:      accounts,
		SigningKey: []byte(cfg.JWTSigningKey),
		TokenTTL:   cfg.TokenTTL,
		Logger:     log,
	})
	complaintSvc := complaintservice.New(complaintservice.Config{
		Records:           records,
		Timeline:          timel,
		Evidence:          evid,
		Audit:             publisher,
		Metrics:           m,
		Logger:            log,
		ProjectionRetries: cfg.ProjectionRetries,
	})

	r := router.NewRouter(router.Deps{
		Identity:   identityhandler.New(identitySvc),
		Complaints: complainthandler.New(complaintSvc),
		Verifier:   identitySvc,
		Logger:     log,
		Health:     healthHandler(db, redisClient),
	})

	srv := httpserver.New(cfg.Addr, r)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	if kafkaSink != nil {
		if err := kafkaSink.Close(shutdownCtx); err != nil {
			log.Error("kafka shutdown", "error", err)
		}
	}
}

func healthHandler(db *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, `{"status":"degraded","component":"postgres"}`, http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, `{"status":"degraded","component":"redis"}`, http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
