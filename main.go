package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"profitpredict/form"
	qhttp "profitpredict/http"
	"profitpredict/ml"
	"profitpredict/monitoring"
)

type Config struct {
	Http struct {
		Port    int           `yaml:"port"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"http"`
	Log   monitoring.LogConfig `yaml:"log"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Http.Port = qhttp.DefaultServerConfig().Port
	cfg.Http.Timeout = qhttp.DefaultServerConfig().Timeout
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28
	cfg.Model.Path = "model.json"
	cfg.Cache.Size = 256
	return cfg
}

func main() {
	// Look for config in root even if run from a subdirectory
	configPath := "config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = filepath.Join("..", "config.yaml")
	}

	config, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := monitoring.InitLogger(config.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	model, err := ml.NewLoader().Load(config.Model.Path)
	if err != nil {
		notice := ml.FailureNotice(config.Model.Path, err)
		zap.L().Error("model load failed", zap.String("path", config.Model.Path), zap.Error(err))
		fmt.Fprintln(os.Stderr, notice)
		_ = logger.Sync()
		os.Exit(1)
	}
	notice := ml.LoadedNotice(config.Model.Path)
	zap.L().Info(notice)

	predictor, err := form.NewPredictor(model, config.Cache.Size)
	if err != nil {
		zap.L().Fatal("create predictor", zap.Error(err))
	}
	qhttp.SetPredictor(predictor)
	qhttp.SetModelNotice(notice)
	qhttp.SetMetrics(monitoring.NewMetrics())

	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:    config.Http.Port,
		Timeout: config.Http.Timeout,
	})
	zap.L().Info("serving profit form", zap.String("addr", server.Addr()))
	go func() {
		if err := server.Start(); err != nil {
			zap.L().Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down")

	if err := server.Stop(); err != nil {
		zap.L().Error("server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("exiting")
}

// loadConfig decodes path over the defaults. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, eris.Wrapf(err, "open config %s", path)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, eris.Wrapf(err, "decode config %s", path)
	}
	if config.Model.Path == "" {
		config.Model.Path = defaultConfig().Model.Path
	}
	return config, nil
}
