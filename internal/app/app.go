package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/islandhop/internal/auth"
	"github.com/MrSnakeDoc/islandhop/internal/config"
	"github.com/MrSnakeDoc/islandhop/internal/editor"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/views"
	"github.com/MrSnakeDoc/islandhop/internal/index"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
	"github.com/MrSnakeDoc/islandhop/internal/redis"
	"github.com/MrSnakeDoc/islandhop/internal/scheduler"
	"github.com/MrSnakeDoc/islandhop/internal/sources/catalog"
	redisstore "github.com/MrSnakeDoc/islandhop/internal/store/redis"
	"github.com/MrSnakeDoc/islandhop/internal/vendorapi"
	"github.com/MrSnakeDoc/islandhop/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	reloader    *scheduler.IslandsReloader
	gc          *scheduler.SessionCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis is optional: sessions and islands only mirror to it
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, running memory-only", logger.Error(err))
		} else {
			loggerClient.Info("Redis initialized successfully")
			redisClient = client
			store = redisstore.NewStore(client)
		}
	} else {
		loggerClient.Info("redis not configured, running memory-only")
	}

	memIndex := index.NewMemoryIndex()

	// Warm the islands cache from Redis so forms render before the first reload
	if store != nil {
		syncer := scheduler.NewRedisSyncer(store, memIndex, loggerClient)
		if err := syncer.Sync(context.Background()); err != nil {
			loggerClient.Warn("failed to sync islands from redis on startup, will load from api",
				logger.Error(err))
		}
	}

	api := vendorapi.NewClient(cfg.APIBaseURL, cfg.APIToken, loggerClient)

	types, err := catalog.LoadFile(cfg.CatalogFile)
	if err != nil {
		loggerClient.Errorf("Failed to load service catalog: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("service catalog loaded",
		logger.String("file", cfg.CatalogFile),
		logger.Int("types", types.Len()))

	renderer, err := views.New()
	if err != nil {
		loggerClient.Errorf("Failed to parse templates: %v", err)
		os.Exit(1)
	}

	workflow := editor.NewWorkflow(api, memIndex, loggerClient, editor.Options{
		RequireVerified: cfg.RequireVerified,
	})
	if !cfg.RequireVerified {
		loggerClient.Warn("unverified vendors may edit their services (ISLANDHOP_REQUIRE_VERIFIED_VENDOR=false)")
	}

	if !cfg.TrustProxy || len(cfg.TrustedProxies) == 0 {
		loggerClient.Warn("identity headers are not trusted from any peer, every visitor will be sent to sign-in",
			logger.Bool("trust_proxy", cfg.TrustProxy))
	}

	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewIslandsReloader(
		api,
		store,
		memIndex,
		loggerClient,
		cfg.IslandsReloadInterval,
		reloadTrigger,
	)

	gc := scheduler.NewSessionCollector(
		store,
		memIndex,
		loggerClient,
		cfg.GCInterval,
		cfg.SessionTTL,
	)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Store:         store,
		MemoryIndex:   memIndex,
		API:           api,
		Workflow:      workflow,
		Auth:          auth.NewHeaderProvider(cfg.TrustProxy, cfg.TrustedProxies),
		Catalog:       types,
		Views:         renderer,
		SessionTTL:    cfg.SessionTTL,
		SignInURL:     cfg.SignInURL,
		ListingPath:   cfg.ListingPath,
		DashboardPath: cfg.DashboardPath,
		HotelPath:     cfg.HotelPath,
		ReloadTrigger: reloadTrigger,
		SubmitBurst:   cfg.SubmitBurst,
		SubmitPerMin:  cfg.SubmitPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memIndex:    memIndex,
		reloader:    reloader,
		gc:          gc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting IslandHop vendor portal v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("IslandHop %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.reloader.Start(ctx)
	a.logger.Info("islands reloader started",
		logger.Duration("interval", a.cfg.IslandsReloadInterval),
		logger.Int("islands", a.memIndex.IslandCount()))

	a.gc.Start(ctx)
	a.logger.Info("session collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("ttl", a.cfg.SessionTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ IslandHop stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
