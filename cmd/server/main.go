package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"leasehold/internal/audit"
	contractmetrics "leasehold/internal/contract/metrics"
	contractservice "leasehold/internal/contract/service"
	contractstore "leasehold/internal/contract/store"
	paymentmetrics "leasehold/internal/payment/metrics"
	paymentservice "leasehold/internal/payment/service"
	paymentstore "leasehold/internal/payment/store"
	"leasehold/internal/platform/config"
	"leasehold/internal/platform/httpserver"
	"leasehold/internal/platform/logger"
	platformredis "leasehold/internal/platform/redis"
	propertystore "leasehold/internal/property/store"
	tenantservice "leasehold/internal/tenant/service"
	tenantstore "leasehold/internal/tenant/store"
	httptransport "leasehold/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires stores, services, the audit pipeline and the HTTP server.
// Business logic lives in the internal service packages; main only composes.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		contractStore contractservice.Store
		paymentStore  paymentservice.Store
		healthChecks  []httptransport.HealthChecker
	)

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			fatal(log, "open postgres", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			fatal(log, "ping postgres", err)
		}

		contracts := contractstore.NewPostgres(db)
		if err := contracts.Migrate(ctx); err != nil {
			fatal(log, "migrate contracts", err)
		}
		payments := paymentstore.NewPostgres(db)
		if err := payments.Migrate(ctx); err != nil {
			fatal(log, "migrate payments", err)
		}

		contractStore = contracts
		paymentStore = payments
		healthChecks = append(healthChecks, dbHealth{db: db})
		log.Info("using postgres stores")
	} else {
		contractStore = contractstore.NewInMemory()
		paymentStore = paymentstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	paymentOpts := []paymentservice.Option{
		paymentservice.WithLogger(log),
		paymentservice.WithMetrics(paymentmetrics.New()),
	}

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		fatal(log, "connect redis", err)
	}
	if rdb != nil {
		defer rdb.Close()
		paymentOpts = append(paymentOpts, paymentservice.WithBalanceMirror(paymentstore.NewRedisBalanceMirror(rdb.Client)))
		healthChecks = append(healthChecks, rdb)
		log.Info("redis balance mirror enabled")
	}

	g, ctx := errgroup.WithContext(ctx)

	// Services always emit through the non-blocking channel publisher; the
	// worker drains it into the configured sink off the request path.
	var sink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			fatal(log, "connect kafka", err)
		}
		defer kafka.Close()
		sink = audit.SinkFromPublisher(kafka)
		log.Info("audit events publishing to kafka", "topic", cfg.Kafka.Topic)
	} else {
		sink = audit.NewInMemoryStore()
	}
	inbox := make(chan audit.Event, 256)
	worker := audit.NewWorker(sink, inbox)
	g.Go(func() error {
		if err := worker.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	publisher := audit.NewChannelPublisher(inbox)

	properties := propertystore.NewInMemoryPropertyStore()
	owners := propertystore.NewInMemoryOwnerStore()
	tenants := tenantstore.NewInMemory()

	contractSvc := contractservice.New(contractStore, contractservice.Config{
		AutoRenewalNoticeDays:     cfg.Contracts.AutoRenewalNoticeDays,
		SecurityDepositMultiplier: cfg.Contracts.SecurityDepositMultiplier,
		MaxLeaseTermMonths:        cfg.Contracts.MaxLeaseTermMonths,
	},
		contractservice.WithLogger(log),
		contractservice.WithAuditPublisher(publisher),
		contractservice.WithMetrics(contractmetrics.New()),
	)

	paymentSvc := paymentservice.New(paymentStore, paymentservice.Config{
		LateFeeRate:          cfg.Payments.LateFeeRate,
		GracePeriodDays:      cfg.Payments.GracePeriodDays,
		DefaultPaymentMethod: cfg.Payments.DefaultPaymentMethod,
	}, append(paymentOpts, paymentservice.WithAuditPublisher(publisher))...)

	tenantSvc := tenantservice.New(tenants, tenantservice.Config{
		MinimumCreditScore:       cfg.Tenants.MinimumCreditScore,
		MinimumIncomeToRentRatio: cfg.Tenants.MinimumIncomeToRentRatio,
	},
		tenantservice.WithLogger(log),
		tenantservice.WithAuditPublisher(publisher),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:          log,
		AdminToken:      cfg.AdminToken,
		ContractService: contractSvc,
		PaymentService:  paymentSvc,
		TenantService:   tenantSvc,
		Properties:      properties,
		Owners:          owners,
		Tenants:         tenants,
		PropertyStore:   properties,
		OwnerStore:      owners,
		HealthChecks:    healthChecks,
	})

	srv := httpserver.New(cfg.Addr, router)

	g.Go(func() error {
		log.Info("starting leasehold server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		fatal(log, "server stopped", err)
	}
	log.Info("server stopped")
}

// dbHealth adapts *sql.DB to the router's health check interface.
type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
