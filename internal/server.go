package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/fitnesstracking/internal/analytics"
	"github.com/2beens/fitnesstracking/internal/config"
	"github.com/2beens/fitnesstracking/internal/db"
	"github.com/2beens/fitnesstracking/internal/export"
	"github.com/2beens/fitnesstracking/internal/jobs"
	"github.com/2beens/fitnesstracking/internal/messaging"
	"github.com/2beens/fitnesstracking/internal/middleware"
	"github.com/2beens/fitnesstracking/internal/misc"
	"github.com/2beens/fitnesstracking/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracking/internal/users"
	"github.com/2beens/fitnesstracking/internal/workouts"
)

type eventPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	usersRepo      *users.Repo
	workoutsRepo   *workouts.Repo
	eventPublisher eventPublisher
	exporter       *export.S3Exporter // nil when feature export is disabled
	jobsCron       *cron.Cron

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
	S3AccessKey             string
	S3SecretKey             string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if cfg.DBMigrate {
		if err := db.Migrate(ctx, dbPool); err != nil {
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitness", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitness-tracking", rdb)
	if err != nil {
		return nil, err
	}

	var publisher eventPublisher = messaging.NoopPublisher{}
	if cfg.KafkaEnabled {
		publisher = messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Debugf("workout events go to kafka topic [%s]", cfg.KafkaTopic)
	}

	var exporter *export.S3Exporter
	if cfg.ExportEnabled {
		exporter, err = export.NewS3Exporter(ctx, export.S3Params{
			Bucket:    cfg.ExportS3Bucket,
			Region:    cfg.ExportS3Region,
			Endpoint:  cfg.ExportS3Endpoint,
			PathStyle: cfg.ExportS3PathStyle,
			AccessKey: params.S3AccessKey,
			SecretKey: params.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("new s3 exporter: %w", err)
		}
	}

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,

		usersRepo:      users.NewRepo(dbPool),
		workoutsRepo:   workouts.NewRepo(dbPool),
		eventPublisher: publisher,
		exporter:       exporter,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitness-router"))

	miscHandler := misc.NewHandler(s.versionInfo, s.dbPool, s.redisClient)
	miscHandler.SetupRoutes(r)

	cachedUsers := users.NewCachedRepo(s.usersRepo, s.config.UsersCacheSizeMB, s.config.UsersCacheTTLSeconds)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"api",
		s.config.APIRateLimitPerMin,
		s.metricsManager,
	))

	usersHandler := users.NewHandler(cachedUsers, s.metricsManager)
	api.HandleFunc("/users", usersHandler.HandleCreate).Methods("POST", "OPTIONS").Name("users.create")
	api.HandleFunc("/users/email/{email}", usersHandler.HandleGetByEmail).Methods("GET", "OPTIONS").Name("users.get-by-email")
	api.HandleFunc("/users/fitness-level/{level}", usersHandler.HandleListByFitnessLevel).Methods("GET", "OPTIONS").Name("users.list-by-fitness-level")
	api.HandleFunc("/users/{id:[0-9]+}", usersHandler.HandleGet).Methods("GET", "OPTIONS").Name("users.get")
	api.HandleFunc("/users/{id:[0-9]+}", usersHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("users.update")
	api.HandleFunc("/users/{id:[0-9]+}", usersHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("users.delete")
	api.HandleFunc("/users/{id:[0-9]+}/fitness-level", usersHandler.HandleUpdateFitnessLevel).Methods("PATCH", "OPTIONS").Name("users.update-fitness-level")

	analyzer := analytics.NewAnalyzer(analytics.NewRepoStore(s.workoutsRepo, cachedUsers))
	var analyticsHandler *analytics.Handler
	if s.exporter != nil {
		analyticsHandler = analytics.NewHandler(analyzer, s.exporter, s.config.ExportS3KeyPrefix, s.metricsManager)
	} else {
		analyticsHandler = analytics.NewHandler(analyzer, nil, s.config.ExportS3KeyPrefix, s.metricsManager)
	}
	// analytics routes go before /workouts/{id} so the literal segments win
	api.HandleFunc("/workouts/analytics/{userId:[0-9]+}", analyticsHandler.HandleAnalytics).Methods("GET", "OPTIONS").Name("analytics.report")
	api.HandleFunc("/workouts/ml-data/{userId:[0-9]+}", analyticsHandler.HandleFeatures).Methods("GET", "OPTIONS").Name("analytics.features")
	api.HandleFunc("/workouts/ml-data/{userId:[0-9]+}/export", analyticsHandler.HandleExport).Methods("POST", "OPTIONS").Name("analytics.export")

	workoutsHandler := workouts.NewHandler(
		s.workoutsRepo,
		cachedUsers,
		workouts.NewEventEmitter(s.eventPublisher, s.metricsManager),
		s.metricsManager,
	)
	api.HandleFunc("/workouts", workoutsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("workouts.create")
	api.HandleFunc("/workouts/user/{userId:[0-9]+}", workoutsHandler.HandleListByUser).Methods("GET", "OPTIONS").Name("workouts.list-by-user")
	api.HandleFunc("/workouts/user/{userId:[0-9]+}/range", workoutsHandler.HandleListByUserInRange).Methods("GET", "OPTIONS").Name("workouts.list-in-range")
	api.HandleFunc("/workouts/user/{userId:[0-9]+}/recent", workoutsHandler.HandleListRecent).Methods("GET", "OPTIONS").Name("workouts.list-recent")
	api.HandleFunc("/workouts/user/{userId:[0-9]+}/count", workoutsHandler.HandleCount).Methods("GET", "OPTIONS").Name("workouts.count")
	api.HandleFunc("/workouts/user/{userId:[0-9]+}/average-calories", workoutsHandler.HandleAverageCalories).Methods("GET", "OPTIONS").Name("workouts.average-calories")
	api.HandleFunc("/workouts/user/{userId:[0-9]+}/calories-by-type", workoutsHandler.HandleCaloriesByType).Methods("GET", "OPTIONS").Name("workouts.calories-by-type")
	api.HandleFunc("/workouts/type/{workoutType}", workoutsHandler.HandleListByType).Methods("GET", "OPTIONS").Name("workouts.list-by-type")
	api.HandleFunc("/workouts/{id:[0-9]+}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("workouts.get")
	api.HandleFunc("/workouts/{id:[0-9]+}", workoutsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("workouts.update")
	api.HandleFunc("/workouts/{id:[0-9]+}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("workouts.delete")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.RequestID())
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
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

	storeGauges := jobs.NewStoreGauges(s.usersRepo, s.workoutsRepo, s.metricsManager)
	jobsCron, err := storeGauges.Schedule(ctx, s.config.StoreGaugesSchedule)
	if err != nil {
		log.Errorf("failed to schedule store gauges: %s", err)
	} else {
		s.jobsCron = jobsCron
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.jobsCron != nil {
		select {
		case <-s.jobsCron.Stop().Done():
			log.Trace("cron jobs stopped ...")
		case <-ctx.Done():
			log.Warn("cron jobs did not stop in time")
		}
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Close(); err != nil {
			log.Errorf("failed to close event publisher: %s", err)
		}
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

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

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}
