package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "github.com/prometheus/client_golang/prometheus"
  "github.com/prometheus/client_golang/prometheus/promhttp"

  "github.com/listenbank/listenbank-backend/internal/handlers"
  "github.com/listenbank/listenbank-backend/internal/middleware"
)

type RouterConfig struct {
  QuestionHandler  *handlers.QuestionHandler
  AssemblyHandler  *handlers.AssemblyHandler
  MediaFileHandler *handlers.MediaFileHandler
  RequestLog       *middleware.RequestLogMiddleware
  MetricsGatherer  prometheus.Gatherer
  TemplateGlob     string
  MaxUploadBytes   int64
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.New()
  router.Use(gin.Recovery())
  if cfg.RequestLog != nil {
    router.Use(cfg.RequestLog.Handler())
  }
  // Hard cap on request bodies; MaxMultipartMemory only tunes when
  // parts spill to disk.
  router.Use(middleware.NewBodyLimitMiddleware(cfg.MaxUploadBytes).Handler())
  router.MaxMultipartMemory = 8 << 20

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins:     []string{"http://localhost:80", "http://localhost:3000"},
    AllowMethods:     []string{"GET", "POST", "OPTIONS"},
    AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  if cfg.TemplateGlob != "" {
    router.LoadHTMLGlob(cfg.TemplateGlob)
  }

  router.GET("/healthcheck", handlers.HealthCheck)
  if cfg.MetricsGatherer != nil {
    router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{})))
  }

  // Upload
  router.GET("/", cfg.QuestionHandler.UploadForm)
  router.POST("/", cfg.QuestionHandler.Upload)
  // Catalog
  router.GET("/view", cfg.QuestionHandler.View)
  router.GET("/generate", cfg.QuestionHandler.Generate)
  // Assembly
  router.POST("/generate_audio", cfg.AssemblyHandler.GenerateAudio)
  // Delivery
  router.GET("/download/:filename", cfg.MediaFileHandler.Download)
  router.GET("/audio/:filename", cfg.MediaFileHandler.ServeAudio)

  return router
}
