package http

import (
	"NavalWar/internal/shared/transport/http/middleware"
	"NavalWar/modules/kit/logx"
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
}

type Option func(*nethttp.Server)

// WithTimeouts 覆盖读写超时；ws 连接升级后由 websocket 自己管理 deadline。
func WithTimeouts(read, write, idle time.Duration) Option {
	return func(s *nethttp.Server) {
		if read > 0 {
			s.ReadTimeout = read
		}
		if write > 0 {
			s.WriteTimeout = write
		}
		if idle > 0 {
			s.IdleTimeout = idle
		}
	}
}

// NewHttpServer engine 为空时用带 Recovery 的默认 engine；/healthz 总是挂上。
func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, opts ...Option) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	engine.Use(middleware.Cors(), middleware.AccessLog(logger))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"code": 0, "status": "ok"})
	})

	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return &Server{engine: engine, group: engine.Group(""), srv: srv}
}

// Start 阻塞到 Shutdown，正常关闭返回 http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Addr() string            { return s.srv.Addr }
func (s *Server) Group() *gin.RouterGroup  { return s.group }
func (s *Server) Handler() nethttp.Handler { return s.engine }
func (s *Server) Engine() *gin.Engine      { return s.engine }
