package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"solarcast/db"
	"solarcast/feed"
	shttp "solarcast/http"
	"solarcast/logging"
	"solarcast/predictor"
)

type Config struct {
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Model struct {
		Type  string `yaml:"type"`
		Path  string `yaml:"path"`
		Watch bool   `yaml:"watch"`
	} `yaml:"model"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Log logging.Config `yaml:"log"`
}

func main() {
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(config.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Sync()

	var store *db.DB
	var history shttp.HistoryStore
	if config.Database.Path != "" {
		store, err = db.Open(config.Database.Path)
		if err != nil {
			logger.Fatal("failed to open history database", zap.Error(err))
		}
		defer store.Close()
		history = store
		logger.Info("history database opened", zap.String("path", config.Database.Path))
	}

	hub := feed.NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	opts := []predictor.Option{
		predictor.WithLogger(logger),
		predictor.WithBroadcaster(hub),
		predictor.WithCacheSize(config.Cache.Size),
	}
	if store != nil {
		opts = append(opts, predictor.WithRecorder(store))
	}

	service, err := predictor.New(config.Model.Type, config.Model.Path, opts...)
	if err != nil {
		logger.Fatal("failed to load model", zap.Error(err))
	}
	snap := service.Snapshot()
	if snap.Loaded {
		logger.Info("model loaded",
			zap.String("type", snap.ModelType),
			zap.String("path", snap.ArtifactPath),
			zap.Int("num_features", snap.NumFeatures))
	}

	if config.Model.Watch {
		watcher, err := predictor.NewWatcher(service, logger)
		if err != nil {
			logger.Fatal("failed to watch model artifact", zap.Error(err))
		}
		defer watcher.Close()
	}

	handlers := shttp.NewHandlers(service, history, hub, logger)
	server := shttp.NewServer(shttp.ServerConfig{
		Port:           config.Http.Port,
		Timeout:        time.Duration(config.Http.TimeoutSeconds) * time.Second,
		AllowedOrigins: config.Http.AllowedOrigins,
	}, handlers, logger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
	logger.Info("exiting")
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
