package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"credvault/internal/activity"
	"credvault/internal/anchor"
	"credvault/internal/blobstore"
	"credvault/internal/credential/handler"
	identityhandler "credvault/internal/identity/handler"
	"credvault/internal/credential/service"
	credstore "credvault/internal/credential/store"
	"credvault/internal/identity"
	"credvault/internal/platform/config"
	"credvault/internal/platform/database"
	"credvault/internal/platform/health"
	"credvault/internal/platform/kafka/producer"
	"credvault/internal/platform/logger"
	"credvault/internal/platform/metrics"
	"credvault/internal/platform/redis"
	"credvault/internal/platform/tracer"
	"credvault/internal/revocation"
	revstore "credvault/internal/revocation/store"
	httptransport "credvault/internal/transport/http"
	"credvault/pkg/encryption"
	"credvault/pkg/platform/circuit"
)

// main wires the backends chosen by configuration and runs the HTTP server
// until SIGINT or SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

type infra struct {
	db       *database.Pool
	redis    *redis.Client
	producer *producer.Producer
}

func (i *infra) close(log *slog.Logger) {
	if i.producer != nil {
		if err := i.producer.Close(); err != nil {
			log.Warn("kafka producer close failed", "error", err)
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
	if err := i.db.Close(); err != nil {
		log.Warn("database close failed", "error", err)
	}
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	i := &infra{}
	var err error

	if i.db, err = database.New(ctx, cfg.Database); err != nil {
		return nil, err
	}
	if i.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		i.close(log)
		return nil, err
	}
	if cfg.Kafka.Brokers != "" {
		if i.producer, err = producer.New(cfg.Kafka, log); err != nil {
			i.close(log)
			return nil, err
		}
	}

	log.Info("backends selected",
		"postgres", i.db != nil,
		"redis", i.redis != nil,
		"kafka", i.producer != nil,
	)
	return i, nil
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	key, err := payloadKey(cfg.Crypto, log)
	if err != nil {
		return fmt.Errorf("load encryption key: %w", err)
	}
	cipher, err := encryption.NewCipher(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	in, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer in.close(log)

	m := metrics.New(prometheus.DefaultRegisterer)
	probes := health.New(getEnvironment())

	// Credential and revocation stores share a transaction runner.
	var (
		credentials credstore.Store
		revocations revstore.Store
		tx          service.StoreTx
	)
	if in.db != nil {
		credentials = credstore.NewPostgres(in.db.DB())
		revocations = revstore.NewPostgres(in.db.DB())
		tx = newCredentialPostgresTx(in.db.DB())
		probes.RegisterCheck("postgres", in.db.Health)
	} else {
		memCreds, memRevs := credstore.NewInMemory(), revstore.NewInMemory()
		credentials, revocations = memCreds, memRevs
		tx = service.NewMemoryTx(memCreds, memRevs)
	}

	var (
		backend blobstore.Backend = blobstore.NewMemoryBackend()
		index   anchor.Index      = anchor.NewMemoryIndex()
	)
	if in.redis != nil {
		backend = blobstore.NewRedisBackend(in.redis.Client)
		index = anchor.NewRedisIndex(in.redis.Client)
		probes.RegisterCheck("redis", in.redis.Health)
	}
	blobs := blobstore.New(cipher, backend, blobstore.WithLogger(log))

	var (
		ledger    anchor.Ledger      = anchor.NewMemoryLedger()
		publisher activity.Publisher = activity.NewLogPublisher(log)
	)
	if in.producer != nil {
		ledger = anchor.NewKafkaLedger(in.producer, index, cfg.Kafka.AnchorTopic, anchor.WithKafkaLogger(log))
		publisher = activity.NewKafkaPublisher(in.producer, cfg.Kafka.ActivityTopic, log)
		probes.RegisterCheck("kafka", in.producer.Healthy)
	}
	ledger = anchor.NewResilient(ledger,
		anchor.WithMaxAttempts(cfg.Anchor.MaxAttempts),
		anchor.WithBackoff(cfg.Anchor.Backoff),
		anchor.WithRateLimit(cfg.Anchor.RatePerSecond, cfg.Anchor.Burst),
		anchor.WithBreaker(circuit.New("anchor",
			circuit.WithFailureThreshold(cfg.Anchor.FailureThreshold),
			circuit.WithCooldown(cfg.Anchor.Cooldown),
		)),
		anchor.WithResilientLogger(log),
		anchor.WithFailureRecorder(m),
	)

	opts := []service.Option{
		service.WithActivity(publisher),
		service.WithMetrics(m),
		service.WithTracer(tracer.NewOTel()),
		service.WithLogger(log),
	}
	if cfg.Signing.JWTKey != "" {
		signer, err := identity.NewJWTSigner([]byte(cfg.Signing.JWTKey), cfg.Signing.Issuer)
		if err != nil {
			return fmt.Errorf("init issuance signer: %w", err)
		}
		opts = append(opts, service.WithSigner(signer))
	}

	identities := identity.NewSimulated(identity.WithLogger(log))
	svc := service.New(
		credentials,
		tx,
		blobs,
		ledger,
		revocation.NewRegistry(revocations),
		identities,
		opts...,
	)

	router := httptransport.NewRouter(httptransport.Options{
		Logger:         log,
		RequestTimeout: cfg.Server.RequestTimeout,
		Latency:        m,
	}, probes, handler.New(svc, log), identityhandler.New(identities, log))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if in.redis != nil {
		g.Go(func() error {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					in.redis.RecordPoolStats()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func getEnvironment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "development"
}
