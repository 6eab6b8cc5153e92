package main

import (
  "fmt"
  "os"

  "github.com/prometheus/client_golang/prometheus"

  "github.com/listenbank/listenbank-backend/internal/app"
  "github.com/listenbank/listenbank-backend/internal/audio"
  "github.com/listenbank/listenbank-backend/internal/db"
  "github.com/listenbank/listenbank-backend/internal/handlers"
  "github.com/listenbank/listenbank-backend/internal/media"
  "github.com/listenbank/listenbank-backend/internal/metrics"
  "github.com/listenbank/listenbank-backend/internal/middleware"
  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
  "github.com/listenbank/listenbank-backend/internal/repos"
  "github.com/listenbank/listenbank-backend/internal/server"
  "github.com/listenbank/listenbank-backend/internal/services"
  "github.com/listenbank/listenbank-backend/internal/utils"
)

func main() {
  // Bootstrap logger until the configured mode is known.
  log, err := logger.New("development")
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }

  // Config
  log.Info("Loading configuration from main...")
  cfg, err := app.LoadConfig(log)
  if err != nil {
    log.Error("Config load failed", "error", err)
    os.Exit(1)
  }

  // Logger in the configured mode (file or env may set it).
  log.Sync()
  log, err = logger.New(cfg.LogMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // SQLite
  sqliteService, err := db.NewSQLiteService(cfg.SQLitePath, log)
  if err != nil {
    log.Error("SQLite init failed", "error", err)
    os.Exit(1)
  }
  if err = sqliteService.AutoMigrateAll(); err != nil {
    log.Error("SQLite auto migration failed", "error", err)
    os.Exit(1)
  }
  theDB := sqliteService.DB()

  // Media areas
  store := media.NewStore(cfg.UploadDir, cfg.GeneratedDir, cfg.AnnounceDir, log)
  if err := store.EnsureDirs(); err != nil {
    log.Error("Media directory setup failed", "error", err)
    os.Exit(1)
  }

  // Audio codec
  if err := audio.AssertReady(cfg.FFmpegPath); err != nil {
    log.Warn("ffmpeg not found, assembly requests will fail", "error", err)
  }
  codec := audio.NewFFmpegCodec(cfg.FFmpegPath, log)

  // Metrics
  registry := prometheus.NewRegistry()
  appMetrics := metrics.New(registry)

  // Repos
  log.Info("Setting up Repos from main...")
  questionRepo := repos.NewListeningQuestionRepo(theDB, log)

  // Services
  log.Info("Setting up Services from main...")
  questionService := services.NewQuestionService(theDB, log, questionRepo, store)
  assemblyService := services.NewAssemblyService(log, questionRepo, store, codec, appMetrics)

  // Handlers
  log.Info("Setting up handlers from main...")
  questionHandler := handlers.NewQuestionHandler(log, questionService, appMetrics)
  assemblyHandler := handlers.NewAssemblyHandler(log, assemblyService)
  mediaFileHandler := handlers.NewMediaFileHandler(log, store, appMetrics)

  // Middleware
  requestLog := middleware.NewRequestLogMiddleware(log)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    QuestionHandler:  questionHandler,
    AssemblyHandler:  assemblyHandler,
    MediaFileHandler: mediaFileHandler,
    RequestLog:       requestLog,
    MetricsGatherer:  registry,
    TemplateGlob:     utils.GetEnv("TEMPLATE_GLOB", "web/templates/*.html", log),
    MaxUploadBytes:   int64(cfg.MaxUploadMB) << 20,
  })

  fmt.Printf("Server listening on :%s\n", cfg.Port)
  if err := router.Run(":" + cfg.Port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
