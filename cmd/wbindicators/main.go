package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/config"
	"github.com/kailas-cloud/wbindicators/internal/db"
	"github.com/kailas-cloud/wbindicators/internal/db/memory"
	dbRedis "github.com/kailas-cloud/wbindicators/internal/db/redis"
	"github.com/kailas-cloud/wbindicators/internal/domain"
	domchart "github.com/kailas-cloud/wbindicators/internal/domain/chart"
	domtopline "github.com/kailas-cloud/wbindicators/internal/domain/topline"
	logpkg "github.com/kailas-cloud/wbindicators/internal/logger"
	"github.com/kailas-cloud/wbindicators/internal/metrics"
	"github.com/kailas-cloud/wbindicators/internal/repository/artifact"
	"github.com/kailas-cloud/wbindicators/internal/repository/progress"
	"github.com/kailas-cloud/wbindicators/internal/repository/respcache"
	"github.com/kailas-cloud/wbindicators/internal/repository/toplinedb"
	chiTransport "github.com/kailas-cloud/wbindicators/internal/transport/chi"
	"github.com/kailas-cloud/wbindicators/internal/transport/worldbank"
	"github.com/kailas-cloud/wbindicators/internal/usecase/batch"
	"github.com/kailas-cloud/wbindicators/internal/usecase/catalog"
	"github.com/kailas-cloud/wbindicators/internal/usecase/country"
	healthuc "github.com/kailas-cloud/wbindicators/internal/usecase/health"
	"github.com/kailas-cloud/wbindicators/internal/usecase/merge"
	"github.com/kailas-cloud/wbindicators/internal/usecase/run"
	toplineuc "github.com/kailas-cloud/wbindicators/internal/usecase/topline"
	"github.com/kailas-cloud/wbindicators/internal/version"
)

// progressTTL bounds how long a batch id can be resumed.
const progressTTL = 14 * 24 * time.Hour

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	code := 0
	if err := runPipeline(cfg, env, logger); err != nil {
		logger.Error("Run failed", zap.Error(err))
		code = 1
	}
	_ = logger.Sync()
	os.Exit(code)
}

func runPipeline(cfg config.Config, env string, logger *zap.Logger) error {
	if cfg.Run.BatchID == "" {
		cfg.Run.BatchID = uuid.NewString()
	}

	logger.Info("Starting wbindicators",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("batch", cfg.Run.BatchID),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Int("workers", cfg.Run.Workers),
		zap.String("topline_mode", cfg.Topline.Mode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Register metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	store, err := openStore(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}
	if store != nil {
		defer store.Close()
		logger.Info("Cache store ready", zap.String("driver", cfg.Cache.Driver))
	}

	// Provider chain: transport -> response cache
	userAgent := cfg.Provider.UserAgent
	if !strings.Contains(userAgent, "/") {
		userAgent = version.UserAgent(userAgent)
	}
	client, err := worldbank.NewClient(&worldbank.Config{
		BaseURL:           cfg.Provider.BaseURL,
		UserAgent:         userAgent,
		Timeout:           time.Duration(cfg.Provider.TimeoutSec) * time.Second,
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		Burst:             cfg.Provider.Burst,
		PerPage:           cfg.Provider.PerPage,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	var provider domain.Provider = client
	if store != nil {
		provider = respcache.New(client, store, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.CacheTotal, logger)
	}

	publisher, err := buildPublisher(cfg.Publish, cfg.Run.BatchID, logger)
	if err != nil {
		return err
	}

	// Pass nil interfaces (not typed nil pointers) for optional collaborators.
	var progressStore run.Progress
	var storePinger healthuc.StorePinger
	if store != nil {
		progressStore = progress.New(store, progressTTL)
		storePinger = store
	}

	var sink run.ToplineSink
	if cfg.Topline.PostgresDSN != "" {
		pool, err := toplinedb.Connect(ctx, cfg.Topline.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect topline database: %w", err)
		}
		defer pool.Close()
		repo := toplinedb.New(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure topline schema: %w", err)
		}
		sink = repo
	}

	// Use cases
	toplineIndicators := make([]domtopline.Indicator, len(cfg.Topline.Indicators))
	for i, ind := range cfg.Topline.Indicators {
		toplineIndicators[i] = domtopline.Indicator{Code: ind.Code, SourceID: ind.Source}
	}
	headlines := make([]domchart.Pick, len(cfg.Combined.HeadlineIndicators))
	for i, h := range cfg.Combined.HeadlineIndicators {
		headlines[i] = domchart.Pick{Code: h.Code, Title: h.Title, Unit: h.Unit}
	}

	catalogSvc := catalog.New(provider, catalog.Options{
		ExcludedIndicators: cfg.Catalog.ExcludedIndicators,
		TagMappings:        cfg.Catalog.TagMappings,
		Countries:          cfg.Catalog.Countries,
	}, logger)

	limits := batch.Limits{
		IndicatorLimit:    cfg.Batch.IndicatorLimit,
		CharacterLimit:    cfg.Batch.CharacterLimit,
		IndicatorSubtract: cfg.Batch.IndicatorSubtract,
	}.Normalize()
	if err := limits.Validate(); err != nil {
		return fmt.Errorf("batch limits: %w", err)
	}
	engine := merge.New(provider, limits, logger).
		WithMetrics(metrics.BatchesTotal, metrics.ObservationsMerged)

	countryOpts := country.Options{
		PortalURL:          cfg.Provider.PortalURL,
		DatasetURL:         cfg.Publish.DatasetURL,
		QuickChartResource: cfg.Publish.QuickChartResource,
		Headlines:          headlines,
	}
	if cfg.Topline.Mode == run.ToplineDerived {
		countryOpts.ToplineCodes = domtopline.Codes(toplineIndicators)
	}
	countrySvc := country.New(engine, publisher, countryOpts).WithMetrics(metrics.TopicsTotal)

	toplineSvc := toplineuc.New(provider, cfg.Provider.PortalURL, logger)

	driver := run.New(catalogSvc, countrySvc, publisher, toplineSvc, progressStore, sink, run.Options{
		Workers:           cfg.Run.Workers,
		BatchID:           cfg.Run.BatchID,
		Resume:            cfg.Run.Resume,
		ToplineMode:       cfg.Topline.Mode,
		ToplineIndicators: toplineIndicators,
	}).WithMetrics(metrics.CountriesTotal)

	// Status server
	var srv *http.Server
	if cfg.HTTP.Port > 0 {
		var checker healthuc.ProviderChecker
		if hc, ok := provider.(domain.HealthChecker); ok {
			checker = hc
		}
		healthSvc := healthuc.New(storePinger, checker)
		status := chiTransport.NewServer(healthSvc, nil, logger)
		srv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:           status.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Starting status server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Status server error", zap.Error(err))
			}
		}()
	}

	report, runErr := driver.Run(logpkg.ContextWithLogger(ctx, logger))

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	}

	logger.Info("Run summary",
		zap.Int("countries", report.Countries),
		zap.Int("published", report.Published),
		zap.Int("no_data", report.NoData),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Int("toplines", report.Toplines),
		zap.Strings("failed_countries", report.FailedCountries),
	)
	return runErr
}

// openStore returns nil for the "none" driver.
func openStore(ctx context.Context, cfg config.CacheConfig) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case "none":
		return nil, nil
	case "memory":
		store, err = memory.NewStore(cfg.Size)
	case "valkey", "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func buildPublisher(cfg config.PublishConfig, batchID string, logger *zap.Logger) (*artifact.Writer, error) {
	var uploader artifact.Uploader
	if cfg.S3.Enabled() {
		s3, err := artifact.NewS3Uploader(artifact.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
			Prefix:    cfg.S3.Prefix,
		}, batchID)
		if err != nil {
			return nil, fmt.Errorf("create artifact uploader: %w", err)
		}
		uploader = s3
		logger.Info("Artifact upload enabled", zap.String("bucket", cfg.S3.Bucket), zap.String("prefix", cfg.S3.Prefix))
	}
	return artifact.NewWriter(cfg.OutputDir, uploader, logger), nil
}
