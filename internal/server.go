package internal

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
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

	"github.com/2beens/regain/internal/catalog"
	"github.com/2beens/regain/internal/config"
	"github.com/2beens/regain/internal/db"
	"github.com/2beens/regain/internal/middleware"
	"github.com/2beens/regain/internal/plans"
	"github.com/2beens/regain/internal/progress"
	"github.com/2beens/regain/internal/store"
	"github.com/2beens/regain/internal/telemetry/metrics"
	"github.com/2beens/regain/internal/telemetry/tracing"
	"github.com/2beens/regain/internal/training"
	"github.com/2beens/regain/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	store         store.Store
	catalogLoader *catalog.Loader
	generator     *training.Generator
	progress      *progress.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	ObjectStorageAccessKey  string
	ObjectStorageSecretKey  string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	var dbPool *pgxpool.Pool
	var extraCollectors []prometheus.Collector
	if cfg.StoreBackend == config.StorePostgres {
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.PostgresPassword,
			MaxConns:       cfg.PostgresMaxConns,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	promRegistry := metrics.SetupPrometheus(extraCollectors...)
	metricsManager := metrics.NewManager("regain", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	var rdb *redis.Client
	if cfg.RedisHost != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		if params.HoneycombTracingEnabled {
			rdb.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "regain-backend")
	if err != nil {
		return nil, err
	}

	profileStore, err := newStore(ctx, cfg, rdb, dbPool)
	if err != nil {
		return nil, fmt.Errorf("new store: %w", err)
	}

	catalogLoader, err := newCatalogLoader(cfg, params, metricsManager)
	if err != nil {
		return nil, fmt.Errorf("new catalog loader: %w", err)
	}

	rules := training.DefaultRules()
	if cfg.DefaultWeek.DaysPerWeek > 0 {
		rules.DefaultWeek.DaysPerWeek = cfg.DefaultWeek.DaysPerWeek
	}
	if cfg.DefaultWeek.Framework != "" {
		rules.DefaultWeek.Framework = cfg.DefaultWeek.Framework
	}
	if cfg.DefaultWeek.StartDate != "" {
		rules.DefaultWeek.StartDate = cfg.DefaultWeek.StartDate
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	assemblerOpts := []training.AssemblerOption{
		training.WithStageObserver(plans.StageMetricsObserver(metricsManager)),
	}
	if cfg.RandomSeed != 0 {
		log.Warnf("plan generation seeded with [%d]", cfg.RandomSeed)
		assemblerOpts = append(assemblerOpts, training.WithRand(rand.New(rand.NewSource(cfg.RandomSeed))))
	}

	return &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		redisClient: rdb,

		store:         profileStore,
		catalogLoader: catalogLoader,
		generator: training.NewGenerator(
			catalogLoader,
			training.NewAssembler(rules, assemblerOpts...),
		),
		progress: progress.NewService(profileStore, metricsManager),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config, rdb *redis.Client, dbPool *pgxpool.Pool) (store.Store, error) {
	var inner store.Store
	switch cfg.StoreBackend {
	case config.StoreRedis:
		if rdb == nil {
			return nil, errors.New("redis store selected, but redis host not set")
		}
		inner = store.NewRedisStore(rdb)
	case config.StorePostgres:
		psqlStore := store.NewPsqlStore(dbPool)
		if err := psqlStore.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		inner = psqlStore
	case config.StoreMemory:
		log.Warnln("using in-memory store, profiles are lost on restart")
		inner = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}

	return store.NewLRUStore(inner, cfg.ProfileLRU)
}

func newCatalogLoader(cfg *config.Config, params NewServerParams, metricsManager *metrics.Manager) (*catalog.Loader, error) {
	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}

	var objectStore catalog.ObjectStore
	if cfg.ObjectStorageEndpoint != "" {
		minioClient, err := catalog.NewMinioClient(
			cfg.ObjectStorageEndpoint,
			params.ObjectStorageAccessKey,
			params.ObjectStorageSecretKey,
			cfg.ObjectStorageUseSSL,
		)
		if err != nil {
			return nil, fmt.Errorf("new minio client: %w", err)
		}
		objectStore = minioClient
	}

	sources, err := catalog.ParseSources(cfg.CatalogPaths, tracedHttpClient, objectStore)
	if err != nil {
		return nil, err
	}

	return catalog.NewLoader(catalog.LoaderParams{
		Sources:     sources,
		CacheExpire: time.Duration(cfg.CatalogCacheExpireSeconds) * time.Second,
		Metrics:     metricsManager,
	}), nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("regain-router"))

	plansRouter := r.PathPrefix("/plans").Subrouter()
	if s.redisClient != nil {
		reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
		plansRouter.Use(middleware.RateLimit(reqRateLimiter, "plans", s.config.GenerationRateLimitPerMin, s.metricsManager))
	} else {
		log.Warnln("redis not configured, plan generation is not rate limited")
	}

	alternativesCache := plans.NewAlternativesCache(
		s.config.AlternativesCacheSizeMB,
		s.config.CatalogCacheExpireSeconds,
	)
	plansHandler := plans.NewHandler(plans.NewHandlerParams{
		Generator:         s.generator,
		Catalog:           s.catalogLoader,
		Completer:         s.progress,
		Store:             s.store,
		Rules:             s.generator.Assembler().Rules(),
		Metrics:           s.metricsManager,
		AlternativesCache: alternativesCache,
	})
	plansHandler.SetupRoutes(r, plansRouter)

	r.HandleFunc("/", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins...))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, map[string]string{
		"service": "regain",
		"version": s.versionInfo,
	}, http.StatusOK)
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
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

	// warm up the catalog cache, requests retry on their own if this fails
	go func() {
		if _, err := s.catalogLoader.Load(ctx); err != nil {
			log.Errorf("catalog warm up: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
