package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/auth"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/cache"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/config"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/db"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/middleware"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/governance"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/repo"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/scorer"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/streak"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/metrics"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config         *config.Config
	store          repo.Store
	dbPool         *pgxpool.Pool // nil unless the postgres store is used
	redisClient    *redis.Client // nil when redis is not configured
	userResolver   auth.Resolver
	scoringService *scorer.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (_ *Server, err error) {
	cfg := params.Config
	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
	}
	defer func() {
		if err != nil {
			s.closeResources()
		}
	}()

	var collectors []prometheus.Collector
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.Secrets.PostgresPassword,
			TracingEnabled: params.Secrets.HoneycombEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		s.store = repo.NewPostgres(s.dbPool)
		collectors = append(collectors, db.PoolCollector(s.dbPool, cfg.PostgresDBName))
	case config.StoreDriverSQLite:
		s.store, err = repo.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
	case config.StoreDriverMemory:
		log.Warnln("using the in-memory store, nothing will be persisted")
		s.store = repo.NewMemory()
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
	log.Debugf("using [%s] store", cfg.StoreDriver)

	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("mpi", "scoring", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	if cfg.RedisHost != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.Secrets.RedisPassword,
			DB:       0, // use default DB
		})
		s.redisClient.AddHook(redisotel.NewTracingHook())

		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	}

	switch cfg.AuthMode {
	case config.AuthModeRedis:
		if s.redisClient == nil {
			return nil, errors.New("redis auth mode needs a redis host")
		}
		s.userResolver = auth.NewRedisResolver(
			s.redisClient,
			cache.NewLocalCache(cfg.TokenCacheSizeMB),
			cfg.TokenCacheTTL,
		)
	case config.AuthModeJWT:
		s.userResolver, err = auth.NewJWTResolver(params.Secrets.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("new jwt resolver: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown auth mode: %s", cfg.AuthMode)
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	s.otelShutdown, err = tracing.HoneycombSetup(params.Secrets.HoneycombEnabled, params.Secrets.OtelServiceName)
	if err != nil {
		return nil, err
	}

	s.scoringService = scorer.NewService(
		s.store,
		streak.NewTracker(s.store),
		governance.NewEngine(s.store, cfg.Governance),
		s.metricsManager,
	)

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("mpi-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	var scoreHandler *scorer.Handler
	if s.redisClient != nil {
		scoreHandler = scorer.NewHandler(
			s.scoringService,
			cache.NewSubmissionGuard(s.redisClient, s.config.IdempotencyTTL),
			s.metricsManager,
		)
	} else {
		log.Warnln("redis not configured, Idempotency-Key headers will be ignored")
		scoreHandler = scorer.NewHandler(s.scoringService, nil, s.metricsManager)
	}

	scoreRouter := r.PathPrefix("/score-session").Subrouter()
	scoreRouter.HandleFunc("", scoreHandler.HandleScoreSession).Methods("POST", "OPTIONS").Name("score-session")
	if s.redisClient != nil && s.config.ScoreRateLimitPerMin > 0 {
		scoreRouter.Use(middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"score-session",
			s.config.ScoreRateLimitPerMin,
			s.metricsManager,
		))
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.userResolver)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitAndDrainRequest(middleware.DefaultMaxBodyBytes))

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteResponse(w, pkg.ContentType.Text, "I'm OK, thanks ;)", http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteResponse(w, pkg.ContentType.Text, s.versionInfo, http.StatusOK)
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      otelhttp.NewHandler(s.routerSetup(), "mpi-server"),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the stores go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	s.closeResources()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

// closeResources closes the redis client and the store; the postgres store
// owns the db pool.
func (s *Server) closeResources() {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
		s.redisClient = nil
	}

	if s.store != nil {
		log.Debugln("closing store ...")
		s.store.Close() // blocking operation
		s.store = nil
		log.Debugln("store closed")
	} else if s.dbPool != nil {
		s.dbPool.Close()
	}
	s.dbPool = nil
}
