package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/julienvb/portfolio-api/config"
	appmodel "github.com/julienvb/portfolio-api/internal/app/model"
	apprepository "github.com/julienvb/portfolio-api/internal/app/repository"
	appserver "github.com/julienvb/portfolio-api/internal/app/server"
	appservice "github.com/julienvb/portfolio-api/internal/app/service"
	infraGeoIP "github.com/julienvb/portfolio-api/internal/infra/geoip"
	"github.com/julienvb/portfolio-api/internal/infra/logger"
	"github.com/julienvb/portfolio-api/internal/infra/mailer"
	infraNATS "github.com/julienvb/portfolio-api/internal/infra/nats"
	infraPostgres "github.com/julienvb/portfolio-api/internal/infra/postgres"
	infraPrometheus "github.com/julienvb/portfolio-api/internal/infra/prometheus"
	infraRedis "github.com/julienvb/portfolio-api/internal/infra/redis"
	"github.com/julienvb/portfolio-api/internal/infra/storage"
	"github.com/julienvb/portfolio-api/internal/http/session"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB,
		&appmodel.User{},
		&appmodel.Photo{},
		&appmodel.Profile{},
		&appmodel.Technology{},
		&appmodel.Project{},
		&appmodel.Contact{},
		&appmodel.Visit{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()
	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	// Optional collaborators. The API runs without them; the affected
	// features degrade instead of blocking startup.
	var geo appservice.GeoResolver
	if cfg.GeoIP.DatabasePath != "" {
		resolver, err := infraGeoIP.Open(cfg.GeoIP.DatabasePath)
		if err != nil {
			log.Warn("Failed to open GeoIP database, visits will have no location",
				zap.String("path", cfg.GeoIP.DatabasePath), zap.Error(err))
		} else {
			defer resolver.Close()
			geo = resolver
			log.Info("GeoIP database loaded", zap.String("path", cfg.GeoIP.DatabasePath))
		}
	}

	var objectStorage appservice.ObjectStorage
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3(ctx, cfg.S3)
		if err != nil {
			log.Warn("Failed to configure S3 storage, photo uploads disabled", zap.Error(err))
		} else {
			objectStorage = s3Storage
			log.Info("S3 photo storage configured", zap.String("bucket", cfg.S3.Bucket))
		}
	}

	if cfg.Session.Secret == "" {
		log.Fatal("SESSION_SECRET is required")
	}
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	sessions := session.NewManager(redisClient, []byte(cfg.Session.Secret), sessionTTL)

	userRepo := apprepository.NewUserRepository(gormDB)
	visitRepo := apprepository.NewVisitRepository(gormDB, pool)
	projectRepo := apprepository.NewProjectRepository(gormDB)
	technologyRepo := apprepository.NewTechnologyRepository(gormDB)
	profileRepo := apprepository.NewProfileRepository(gormDB)
	contactRepo := apprepository.NewContactRepository(gormDB)
	photoRepo := apprepository.NewPhotoRepository(gormDB)

	var contactPublisher appservice.ContactEventPublisher
	if js != nil {
		contactPublisher = appservice.NewContactPublisher(js)

		notifier := appservice.NewContactNotifier(js, log, mailer.New(cfg.SMTP))
		if err := notifier.Start(); err != nil {
			log.Warn("Failed to start contact notifier", zap.Error(err))
		}
	}

	server := appserver.New(appserver.Dependencies{
		Logger:       log,
		Redis:        redisClient,
		Sessions:     sessions,
		Auth:         appservice.NewAuthService(userRepo),
		Visits:       appservice.NewVisitService(visitRepo, geo),
		Projects:     appservice.NewProjectService(projectRepo, technologyRepo),
		Technologies: appservice.NewTechnologyService(technologyRepo),
		Profile:      appservice.NewProfileService(profileRepo),
		Contacts:     appservice.NewContactService(contactRepo, contactPublisher),
		Photos:       appservice.NewPhotoService(photoRepo, objectStorage),
		CORSOrigin:   cfg.CORS.AllowOrigin,
	})

	if err := server.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
