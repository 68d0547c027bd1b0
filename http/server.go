package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         int
	Timeout      time.Duration
	MaxBodyBytes int64
}

// DefaultServerConfig 默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         8501,
		Timeout:      30 * time.Second,
		MaxBodyBytes: 1 << 20,
	}
}

// NewHandler builds the routed and wrapped handler.
func NewHandler(config ServerConfig) http.Handler {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	RegisterLiveHandlers(mux)

	chain := Chain(
		RecoveryMiddleware,
		LoggerMiddleware,
		SecurityHeadersMiddleware,
		RequestSizeMiddleware(config.MaxBodyBytes),
	)
	return chain(mux)
}

// NewServer 创建HTTP服务器
func NewServer(config ServerConfig) *Server {
	defaults := DefaultServerConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaults.MaxBodyBytes
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      NewHandler(config),
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	zap.L().Info("starting http server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server failed")
	}
	return nil
}

// Stop 停止服务器
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zap.L().Info("shutting down http server")

	if err := s.server.Shutdown(ctx); err != nil {
		return eris.Wrap(err, "server forced to shutdown")
	}
	return nil
}

// Addr 返回服务器地址
func (s *Server) Addr() string {
	return s.server.Addr
}
