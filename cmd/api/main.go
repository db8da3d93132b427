package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bernardo0921/AgriGuide-Backend/api/routes"
	"github.com/bernardo0921/AgriGuide-Backend/internal/auth"
	"github.com/bernardo0921/AgriGuide-Backend/internal/chat"
	"github.com/bernardo0921/AgriGuide-Backend/internal/community"
	"github.com/bernardo0921/AgriGuide-Backend/internal/media"
	"github.com/bernardo0921/AgriGuide-Backend/internal/profiles"
	"github.com/bernardo0921/AgriGuide-Backend/internal/tips"
	"github.com/bernardo0921/AgriGuide-Backend/internal/tutorials"
	"github.com/bernardo0921/AgriGuide-Backend/internal/users"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/auth/session"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/config"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/db"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/gemini"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/migrate"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/redis"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cloud storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing cloud storage", err)
		}
	}()

	mediaService, err := media.NewService(media.ServiceParams{
		Store:       gcsClient,
		Rules:       media.NewRules(cfg.Media),
		Bucket:      cfg.GCS.BucketName,
		AccessMode:  cfg.FeatureFlags.GCSAccessMode,
		DownloadTTL: cfg.GCS.DownloadURLExpiry,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	geminiClient, err := gemini.NewClient(cfg.Gemini.APIKey,
		gemini.WithModel(cfg.Gemini.Model),
		gemini.WithHTTPClient(&http.Client{Timeout: cfg.Gemini.Timeout}),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create gemini client", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	profilesRepo := profiles.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:        usersRepo,
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
		PasswordConfig:  cfg.Password,
		PictureResolver: mediaService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:        dbClient,
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
		PasswordConfig:  cfg.Password,
		PictureResolver: mediaService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(usersRepo, profilesRepo, mediaService)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	communityService, err := community.NewService(community.NewRepository(dbClient.DB()), mediaService)
	if err != nil {
		logg.Error(context.Background(), "failed to create community service", err)
		os.Exit(1)
	}

	tutorialService, err := tutorials.NewService(tutorials.NewRepository(dbClient.DB()), mediaService)
	if err != nil {
		logg.Error(context.Background(), "failed to create tutorial service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		Repo:      chat.NewRepository(dbClient.DB()),
		TxRunner:  dbClient,
		Generator: geminiClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	tipService, err := tips.NewService(tips.ServiceParams{
		Store:     redisClient,
		Generator: geminiClient,
		CacheTTL:  cfg.Tips.CacheTTL,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tip service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			RateStore:       redisClient,
			Sessions:        sessionManager,
			AuthService:     authService,
			RegisterService: registerService,
			ProfileService:  profileService,
			MediaService:    mediaService,
			Community:       communityService,
			Tutorials:       tutorialService,
			Chat:            chatService,
			Tips:            tipService,
			Prometheus:      registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
