// Command server wires the vouch API: identity, organizations, claims with
// credibility scoring, evidence, disputes, public reports, and the audit
// trail. Stores are selected by configuration; with no DATABASE_URL the
// process runs fully in memory for local development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	audithandler "vouch/internal/audit/handler"
	"vouch/internal/audit/publisher"
	auditservice "vouch/internal/audit/service"
	"vouch/internal/audit/sink"
	auditstore "vouch/internal/audit/store"
	claimhandler "vouch/internal/claim/handler"
	"vouch/internal/claim/metrics"
	claimservice "vouch/internal/claim/service"
	claimstore "vouch/internal/claim/store"
	disputehandler "vouch/internal/dispute/handler"
	disputeservice "vouch/internal/dispute/service"
	disputestore "vouch/internal/dispute/store"
	evidencehandler "vouch/internal/evidence/handler"
	evidenceservice "vouch/internal/evidence/service"
	evidencestore "vouch/internal/evidence/store"
	identityhandler "vouch/internal/identity/handler"
	identityservice "vouch/internal/identity/service"
	identitystore "vouch/internal/identity/store"
	"vouch/internal/notify"
	orghandler "vouch/internal/org/handler"
	orgservice "vouch/internal/org/service"
	orgstore "vouch/internal/org/store"
	"vouch/internal/platform/config"
	"vouch/internal/platform/httpserver"
	"vouch/internal/platform/logger"
	"vouch/internal/platform/middleware"
	"vouch/internal/platform/redis"
	reportcache "vouch/internal/report/cache"
	reporthandler "vouch/internal/report/handler"
	reportservice "vouch/internal/report/service"
	"vouch/internal/token"
	verificationstore "vouch/internal/verification/store"
	"vouch/pkg/platform/httputil"
	"vouch/pkg/platform/tx"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence. One pgx pool backs every domain store; the audit trail
	// keeps its own database/sql connection so trail writes never compete
	// with request-path queries for pool slots.
	var (
		pool *pgxpool.Pool

		userStore     identityservice.UserStore
		orgStore      orgservice.OrgStore
		claimStore    claimservice.ClaimStore
		ledgerStore   claimservice.LedgerStore
		ledgerCounts  reportservice.LedgerReader
		disputeStore  disputeservice.DisputeStore
		evidenceStore evidenceservice.EvidenceStore
		runner        claimservice.TxRunner
		auditRecorder publisher.Sink
		auditLister   auditservice.Lister
	)
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}

		auditDB, err := auditstore.OpenPostgres(cfg.Postgres.URL)
		if err != nil {
			log.Error("open audit store", "error", err)
			os.Exit(1)
		}
		defer func() { _ = auditDB.Close() }()

		userStore = identitystore.NewPostgres(pool)
		orgStore = orgstore.NewPostgres(pool)
		claimStore = claimstore.NewPostgres(pool)
		ledger := verificationstore.NewPostgres(pool)
		ledgerStore = ledger
		ledgerCounts = ledger
		disputeStore = disputestore.NewPostgres(pool)
		evidenceStore = evidencestore.NewPostgres(pool)
		runner = tx.NewPoolRunner(pool)
		auditRecorder = auditDB
		auditLister = auditDB
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		auditMem := auditstore.NewInMemory()
		userStore = identitystore.NewInMemory()
		orgStore = orgstore.NewInMemory()
		claimStore = claimstore.NewInMemory()
		ledger := verificationstore.NewInMemory()
		ledgerStore = ledger
		ledgerCounts = ledger
		disputeStore = disputestore.NewInMemory()
		evidenceStore = evidencestore.NewInMemory()
		runner = claimservice.NewShardedMutexTx()
		auditRecorder = auditMem
		auditLister = auditMem
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Audit pipeline: local store always, Kafka fan-out when configured.
	sinks := []publisher.Sink{auditRecorder}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := sink.NewKafka(ctx, cfg.Kafka)
		if err != nil {
			log.Error("connect kafka audit sink", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}
	auditPub := publisher.New(sinks, publisher.WithLogger(log))

	tokens := token.NewService(cfg.JWT)
	recorder := metrics.New(prometheus.DefaultRegisterer)
	notifier := notify.NewLogNotifier(userStore, cfg.Notify, log)

	identitySvc := identityservice.New(userStore, tokens, cfg.Password,
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(auditPub),
	)
	orgSvc := orgservice.New(orgStore,
		orgservice.WithLogger(log),
		orgservice.WithAuditPublisher(auditPub),
	)
	claimSvc := claimservice.New(claimStore, ledgerStore, runner,
		claimservice.WithLogger(log),
		claimservice.WithAuditPublisher(auditPub),
		claimservice.WithNotifier(notifier),
		claimservice.WithMetrics(recorder),
	)
	disputeSvc := disputeservice.New(disputeStore, claimStore, claimSvc,
		disputeservice.WithLogger(log),
		disputeservice.WithAuditPublisher(auditPub),
		disputeservice.WithNotifier(notifier),
	)
	evidenceSvc := evidenceservice.New(evidenceStore, claimStore,
		evidenceservice.WithLogger(log),
		evidenceservice.WithAuditPublisher(auditPub),
	)
	reportOpts := []reportservice.Option{reportservice.WithLogger(log)}
	if redisClient != nil {
		reportOpts = append(reportOpts,
			reportservice.WithCache(reportcache.NewRedis(redisClient, cfg.Redis.ReportTTL)))
	}
	reportSvc := reportservice.New(claimStore, ledgerCounts, reportOpts...)
	auditSvc := auditservice.New(auditLister)

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Metadata,
		middleware.Logger(log),
		middleware.Timeout(30*time.Second),
		middleware.ContentTypeJSON,
	)

	identityhandler.New(identitySvc, tokens, log).Register(router)
	orghandler.New(orgSvc, tokens, log).Register(router)
	claimhandler.New(claimSvc, tokens, log,
		claimhandler.WithReportInvalidator(reportSvc)).Register(router)
	disputehandler.New(disputeSvc, tokens, log,
		disputehandler.WithReportInvalidator(reportSvc)).Register(router)
	evidencehandler.New(evidenceSvc, tokens, log).Register(router)
	reporthandler.New(reportSvc, log).Register(router)
	audithandler.New(auditSvc, tokens, log).Register(router)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", healthz(pool, redisClient))

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditPub.Run(ctx)
	})
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	auditPub.Close()
	if err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// healthz reports readiness of the configured backing services. In-memory
// mode has nothing to check and always reports ok.
func healthz(pool *pgxpool.Pool, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				status["status"] = "degraded"
				status["postgres"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				status["status"] = "degraded"
				status["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, code, status)
	}
}
