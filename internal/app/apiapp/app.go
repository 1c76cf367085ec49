package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/config"
	"github.com/petnest/petnest/internal/domain/model"
	s3infra "github.com/petnest/petnest/internal/infra/s3"
	tginfra "github.com/petnest/petnest/internal/infra/telegram"
	"github.com/petnest/petnest/internal/jobs/cleanup"
	"github.com/petnest/petnest/internal/metrics"
	"github.com/petnest/petnest/internal/repo/memory"
	pgrepo "github.com/petnest/petnest/internal/repo/postgres"
	redrepo "github.com/petnest/petnest/internal/repo/redis"
	adrequestsvc "github.com/petnest/petnest/internal/services/adrequests"
	adssvc "github.com/petnest/petnest/internal/services/ads"
	authsvc "github.com/petnest/petnest/internal/services/auth"
	buyersvc "github.com/petnest/petnest/internal/services/buyers"
	catalogsvc "github.com/petnest/petnest/internal/services/catalog"
	dashboardsvc "github.com/petnest/petnest/internal/services/dashboard"
	mediasvc "github.com/petnest/petnest/internal/services/media"
	modsvc "github.com/petnest/petnest/internal/services/moderation"
	petsvc "github.com/petnest/petnest/internal/services/pets"
	ratesvc "github.com/petnest/petnest/internal/services/rate"
	reportsvc "github.com/petnest/petnest/internal/services/reports"
	sellersvc "github.com/petnest/petnest/internal/services/sellers"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	notifier   *tginfra.Async
	cleanupJob *cleanup.Job
	httpRouter http.Handler
}

// stores is the persistence surface shared by the memory and postgres
// drivers.
type stores struct {
	adRequests interface {
		adrequestsvc.Store
		cleanup.RejectedStore
	}
	sellers  sellersvc.Store
	pets     petsvc.Store
	reports  reportsvc.Store
	catalog  catalogsvc.Store
	buyers   buyersvc.Store
	ads      adssvc.Store
	users    authsvc.UserStore
	activity interface {
		modsvc.ActivityRecorder
		dashboardsvc.ActivityStore
	}
	stats dashboardsvc.StatsStore
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	trusted, err := ParseTrustedProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	r := chi.NewRouter()
	ApplyMiddlewares(r, log, m, cfg.HTTP.AllowedOrigins, trusted)

	st, pool, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var redisClient *goredis.Client
	var limiter *ratesvc.Limiter
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		redisClient = redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redrepo.Ping(ctx, redisClient); err != nil {
			log.Warn("redis unavailable, intake rate limiting disabled", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			limiter = ratesvc.NewLimiter(redrepo.NewRateRepo(redisClient), cfg.Intake.SubmitLimit, cfg.Intake.SubmitWindow)
		}
	}

	var storage *mediasvc.S3Storage
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, uploads disabled", zap.Error(err))
	} else {
		storage = mediasvc.NewS3Storage(c, cfg.S3.Bucket)
		if err := storage.EnsureBucket(ctx); err != nil {
			log.Warn("s3 bucket check failed, uploads disabled", zap.Error(err))
			storage = nil
		}
	}
	var objectStorage mediasvc.ObjectStorage
	if storage != nil {
		objectStorage = storage
	}
	images := mediasvc.NewImages(objectStorage, cfg.S3.URLTTL)

	var notifier *tginfra.Async
	if strings.TrimSpace(cfg.Telegram.BotToken) != "" {
		n, err := tginfra.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ModeratorsChatID, cfg.Telegram.SendTimeout)
		if err != nil {
			log.Warn("telegram notifier init failed, notifications disabled", zap.Error(err))
		} else {
			notifier = tginfra.NewAsync(n, cfg.Telegram.SendTimeout, 0, log)
		}
	}
	var submissionNotifier modsvc.SubmissionNotifier
	var decisionNotifier modsvc.DecisionNotifier
	if notifier != nil {
		submissionNotifier = notifier
		decisionNotifier = notifier
	}

	var rateLimiter adrequestsvc.RateLimiter
	if limiter != nil {
		rateLimiter = limiter
	}

	intake := modsvc.NewIntake(st.activity, submissionNotifier, log).WithObserver(m)

	adRequestService := adrequestsvc.NewService(st.adRequests, rateLimiter, intake,
		queueOptions[model.AdRequest](st.activity, m, decisionNotifier, log)...).WithImages(images)
	sellerService := sellersvc.NewService(st.sellers, intake,
		queueOptions[model.Seller](st.activity, m, decisionNotifier, log)...)
	petService := petsvc.NewService(st.pets, sellerService, st.catalog, images, intake, log,
		queueOptions[model.Pet](st.activity, m, decisionNotifier, log)...)
	reportService := reportsvc.NewService(st.reports, rateLimiter, intake,
		queueOptions[model.Report](st.activity, m, decisionNotifier, log)...)
	catalogService := catalogsvc.NewService(st.catalog)
	buyerService := buyersvc.NewService(st.buyers, images, log)
	adsService := adssvc.NewService(st.ads, images)
	dashboardService := dashboardsvc.NewService(st.stats, st.activity)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, st.users)
	if created, err := authService.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		log.Warn("bootstrap admin failed", zap.Error(err))
	} else if created {
		log.Info("bootstrap admin created", zap.String("email", cfg.Bootstrap.AdminEmail))
	}

	RegisterRoutes(r, Dependencies{
		AdRequestService: adRequestService,
		SellerService:    sellerService,
		PetService:       petService,
		ReportService:    reportService,
		CatalogService:   catalogService,
		BuyerService:     buyerService,
		AdsService:       adsService,
		DashboardService: dashboardService,
		AuthService:      authService,
		Metrics:          m,
		MaxUploadBytes:   cfg.HTTP.MaxUploadBytes,
		Logger:           log,
	})

	var cleanupJob *cleanup.Job
	if storage != nil {
		cleanupJob = cleanup.NewRejectedCreativeJob(st.adRequests, storage, cfg.Cleanup.RejectedRetention, log)
		cleanupJob.AttachMetrics(m)
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		notifier:   notifier,
		cleanupJob: cleanupJob,
		httpRouter: r,
	}, nil
}

func queueOptions[E any](activity modsvc.ActivityRecorder, m *metrics.Metrics, notifier modsvc.DecisionNotifier, log *zap.Logger) []modsvc.Option[E] {
	opts := []modsvc.Option[E]{
		modsvc.WithActivity[E](activity),
		modsvc.WithObserver[E](m),
		modsvc.WithLogger[E](log),
	}
	if notifier != nil {
		opts = append(opts, modsvc.WithNotifier[E](notifier))
	}
	return opts
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (stores, *pgxpool.Pool, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		return memoryStores(memory.NewStore()), nil, nil
	case "", "postgres":
		pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return stores{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.Migrate {
			if err := pgrepo.Migrate(ctx, pool); err != nil {
				pool.Close()
				return stores{}, nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		return postgresStores(pool), pool, nil
	default:
		return stores{}, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func memoryStores(s *memory.Store) stores {
	return stores{
		adRequests: s.AdRequests,
		sellers:    s.Sellers,
		pets:       s.Pets,
		reports:    s.Reports,
		catalog:    s.Catalog,
		buyers:     s.Buyers,
		ads:        s.Ads,
		users:      s.Users,
		activity:   s.Activity,
		stats:      s.Stats,
	}
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		adRequests: pgrepo.NewAdRequestRepo(pool),
		sellers:    pgrepo.NewSellerRepo(pool),
		pets:       pgrepo.NewPetRepo(pool),
		reports:    pgrepo.NewReportRepo(pool),
		catalog:    pgrepo.NewCatalogRepo(pool),
		buyers:     pgrepo.NewBuyerProfileRepo(pool),
		ads:        pgrepo.NewAdRepo(pool),
		users:      pgrepo.NewUserRepo(pool),
		activity:   pgrepo.NewActivityRepo(pool),
		stats:      pgrepo.NewStatsRepo(pool),
	}
}

// Run serves HTTP and, when object storage is configured, the creative
// cleanup loop. It returns when the server stops.
func (a *App) Run(ctx context.Context) error {
	if a.cleanupJob != nil {
		go func() {
			_ = a.cleanupJob.Loop(ctx, a.cfg.Cleanup.Interval)
		}()
	}

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.notifier != nil {
		a.notifier.Wait()
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
