package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/roast-radar/internal/application"
	appai "github.com/bryanwahyu/roast-radar/internal/application/ai"
	appscans "github.com/bryanwahyu/roast-radar/internal/application/scans"
	"github.com/bryanwahyu/roast-radar/internal/config"
	domai "github.com/bryanwahyu/roast-radar/internal/domain/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/credentials"
	"github.com/bryanwahyu/roast-radar/internal/domain/scanerrors"
	"github.com/bryanwahyu/roast-radar/internal/domain/scans"
	"github.com/bryanwahyu/roast-radar/internal/infra/ai/dispatcher"
	"github.com/bryanwahyu/roast-radar/internal/infra/ai/gemini"
	"github.com/bryanwahyu/roast-radar/internal/infra/ai/openai"
	"github.com/bryanwahyu/roast-radar/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/roast-radar/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/roast-radar/internal/infra/db/postgres"
	"github.com/bryanwahyu/roast-radar/internal/infra/httpserver"
	redditclient "github.com/bryanwahyu/roast-radar/internal/infra/reddit"
	minioStore "github.com/bryanwahyu/roast-radar/internal/infra/storage"
	"github.com/bryanwahyu/roast-radar/internal/logger"
	"github.com/bryanwahyu/roast-radar/internal/middleware"
)

// stores groups the persistence adapters selected by database.driver.
type stores struct {
	scans    scans.Repository
	errors   scanerrors.Repository
	metadata credentials.Store
	db       *sql.DB
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN(), cfg.Database.MaxOpenConns)
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := mysqlp.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("mysql migrate: %w", err)
			}
		}
		return &stores{
			scans:    mysqlp.NewScanRepository(db),
			errors:   mysqlp.NewScanErrorRepository(db),
			metadata: mysqlp.NewMetadataStore(db),
			db:       db,
		}, nil
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN(), cfg.Database.MaxOpenConns)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := pgp.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("postgres migrate: %w", err)
			}
		}
		return &stores{
			scans:    pgp.NewScanRepository(db),
			errors:   pgp.NewScanErrorRepository(db),
			metadata: pgp.NewMetadataStore(db),
			db:       db,
		}, nil
	default:
		errs := memory.NewScanErrorRepository()
		return &stores{
			scans:    memory.NewScanRepository().WithErrorLog(errs),
			errors:   errs,
			metadata: memory.NewMetadataStore(),
		}, nil
	}
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Log.Fatalf("config load error: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		logger.Log.Fatalf("logger init error: %v", err)
	}

	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("database error: %v", err)
	}
	if st.db != nil {
		defer st.db.Close()
	}
	logger.Log.WithField("driver", cfg.Database.Driver).Info("storage ready")

	checkers := map[string]middleware.HealthChecker{}
	if st.db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: st.db}
	}

	var reports scans.ReportStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
			cfg.Minio.PresignExpiry,
		)
		if err != nil {
			logger.Log.Fatalf("minio init error: %v", err)
		}
		reports = store
		checkers["minio"] = store
	}

	rc := redditclient.NewClient(redditclient.Options{
		AuthURL:           cfg.Reddit.AuthURL,
		APIURL:            cfg.Reddit.APIURL,
		UserAgent:         cfg.Reddit.UserAgent,
		RequestsPerMinute: cfg.Reddit.RequestsPerMinute,
		Timeout:           cfg.Reddit.Timeout,
	})
	analyzer := dispatcher.NewDefault(
		openai.NewClient(cfg.Providers.OpenRouter.BaseURL, cfg.Providers.OpenRouter.Referer, cfg.Providers.OpenRouter.Timeout),
		gemini.NewClient(cfg.Providers.Gemini.BaseURL, cfg.Providers.Gemini.Timeout),
	)

	aiSvc := appai.NewService(cfg.Analysis.DefaultModel)
	svc := &appscans.Service{
		Reddit:      rc,
		Analyzer:    analyzer,
		Models:      aiSvc,
		Repo:        st.scans,
		Errors:      st.errors,
		Reports:     reports,
		Credentials: st.metadata,
		Defaults: credentials.Credentials{
			RedditClientID:     cfg.Reddit.ClientID,
			RedditClientSecret: cfg.Reddit.ClientSecret,
			ModelAPIKeys: map[domai.Provider]string{
				domai.ProviderOpenAI: cfg.Providers.OpenRouter.APIKey,
				domai.ProviderGoogle: cfg.Providers.Gemini.APIKey,
			},
		},
		Clock:       application.SystemClock{},
		HistoryCap:  cfg.Analysis.HistoryCap,
		SearchLimit: cfg.Analysis.SearchLimit,
	}

	opts := httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKeys:        cfg.Auth.APIKeys,
		HealthCheckers: checkers,
	}
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		defer rl.Close()
		opts.RateLimiter = rl
	}
	if len(cfg.Auth.APIKeys) == 0 {
		logger.Log.Warn("auth.apiKeys is empty, API authentication disabled")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpserver.NewRouter(svc, aiSvc, opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Log.WithFields(logrus.Fields{
			"addr":  addr,
			"model": aiSvc.DefaultModel().ID,
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Log.Errorf("shutdown error: %v", err)
	}
}
