package app

import (
  "fmt"
  "os"

  "gopkg.in/yaml.v3"

  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
  "github.com/listenbank/listenbank-backend/internal/utils"
)

// Config holds all runtime configuration. Values come from an optional
// YAML file (CONFIG_FILE) with environment variables taking precedence.
type Config struct {
  Port    string
  LogMode string

  SQLitePath   string
  UploadDir    string
  GeneratedDir string
  AnnounceDir  string

  MaxUploadMB int
  FFmpegPath  string
}

type fileConfig struct {
  Server struct {
    Port    string `yaml:"port"`
    LogMode string `yaml:"log_mode"`
  } `yaml:"server"`
  Storage struct {
    SQLitePath   string `yaml:"sqlite_path"`
    UploadDir    string `yaml:"upload_dir"`
    GeneratedDir string `yaml:"generated_dir"`
    AnnounceDir  string `yaml:"announce_dir"`
    MaxUploadMB  int    `yaml:"max_upload_mb"`
  } `yaml:"storage"`
  Audio struct {
    FFmpegPath string `yaml:"ffmpeg_path"`
  } `yaml:"audio"`
}

func LoadConfig(log *logger.Logger) (Config, error) {
  cfg := Config{
    Port:         "8080",
    LogMode:      "development",
    SQLitePath:   "data/database.db",
    UploadDir:    "data/audio",
    GeneratedDir: "data/generated",
    AnnounceDir:  "data/announcements",
    MaxUploadMB:  50,
    FFmpegPath:   "ffmpeg",
  }

  if path := utils.GetEnv("CONFIG_FILE", "", log); path != "" {
    raw, err := os.ReadFile(path)
    if err != nil {
      return Config{}, fmt.Errorf("read config file %s: %w", path, err)
    }
    var fc fileConfig
    if err := yaml.Unmarshal(raw, &fc); err != nil {
      return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
    }
    applyFile(&cfg, fc)
  }

  // Environment overrides the file.
  cfg.Port = utils.GetEnv("PORT", cfg.Port, log)
  cfg.LogMode = utils.GetEnv("LOG_MODE", cfg.LogMode, log)
  cfg.SQLitePath = utils.GetEnv("SQLITE_PATH", cfg.SQLitePath, log)
  cfg.UploadDir = utils.GetEnv("UPLOAD_DIR", cfg.UploadDir, log)
  cfg.GeneratedDir = utils.GetEnv("GENERATED_DIR", cfg.GeneratedDir, log)
  cfg.AnnounceDir = utils.GetEnv("ANNOUNCE_DIR", cfg.AnnounceDir, log)
  cfg.MaxUploadMB = utils.GetEnvAsInt("MAX_UPLOAD_MB", cfg.MaxUploadMB, log)
  cfg.FFmpegPath = utils.GetEnv("FFMPEG_PATH", cfg.FFmpegPath, log)

  if cfg.MaxUploadMB <= 0 {
    return Config{}, fmt.Errorf("max upload size must be positive, got %d", cfg.MaxUploadMB)
  }
  return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) {
  if fc.Server.Port != "" {
    cfg.Port = fc.Server.Port
  }
  if fc.Server.LogMode != "" {
    cfg.LogMode = fc.Server.LogMode
  }
  if fc.Storage.SQLitePath != "" {
    cfg.SQLitePath = fc.Storage.SQLitePath
  }
  if fc.Storage.UploadDir != "" {
    cfg.UploadDir = fc.Storage.UploadDir
  }
  if fc.Storage.GeneratedDir != "" {
    cfg.GeneratedDir = fc.Storage.GeneratedDir
  }
  if fc.Storage.AnnounceDir != "" {
    cfg.AnnounceDir = fc.Storage.AnnounceDir
  }
  if fc.Storage.MaxUploadMB != 0 {
    cfg.MaxUploadMB = fc.Storage.MaxUploadMB
  }
  if fc.Audio.FFmpegPath != "" {
    cfg.FFmpegPath = fc.Audio.FFmpegPath
  }
}
