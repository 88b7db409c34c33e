package ws

import (
	"NavalWar/modules/kit/logx"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server 把 HTTP 升级成 ws 连接，每条连接一个 WsServer。
type Server struct {
	router     *Router
	log        logx.Logger
	needSecret bool
	upgrader   websocket.Upgrader
	online     atomic.Int64
}

func NewServer(r *Router, l logx.Logger, needSecret bool) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router:     r,
		log:        l,
		needSecret: needSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 << 10,
			WriteBufferSize: 4 << 10,
			// 跨域由客户端自行约束
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Online 当前在线连接数。
func (s *Server) Online() int64 {
	return s.online.Load()
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}
	addr := wsConn.RemoteAddr().String()
	n := s.online.Add(1)
	s.log.Info("websocket connected", zap.String("addr", addr), zap.Int64("online", n))

	conn := NewWsServer(wsConn, s.log, s.needSecret)
	conn.Router(s.router)
	conn.Run()
	conn.handshake()

	go func() {
		<-conn.Done()
		n := s.online.Add(-1)
		s.log.Info("websocket closed", zap.String("addr", addr), zap.Int64("online", n))
	}()
}
