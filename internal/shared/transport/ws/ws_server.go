package ws

import (
	"NavalWar/internal/shared/security"
	"NavalWar/modules/kit/logx"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-think/openssl"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	outChanSize    = 1000
	maxMessageSize = 64 << 10
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
)

var errNoSecretKey = errors.New("secret key not found")

// WsServer 一条客户端连接：读协程解帧并分发，写协程串行发送。
// 帧格式为 zlib(aes-cbc(json))，needSecret=false 时省掉加密。
type WsServer struct {
	conn       *websocket.Conn
	router     *Router
	log        logx.Logger
	needSecret bool

	mu       sync.RWMutex
	property map[string]any

	outChan   chan *WsMsgResp
	done      chan struct{}
	closeOnce sync.Once
	// 握手和写协程都会写 conn
	writeMu sync.Mutex
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger, needSecret bool) *WsServer {
	if l == nil {
		l = logx.Nop()
	}
	return &WsServer{
		conn:       wsConn,
		log:        l,
		needSecret: needSecret,
		property:   make(map[string]any),
		outChan:    make(chan *WsMsgResp, outChanSize),
		done:       make(chan struct{}),
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 不阻塞调用方；发送队列满说明客户端读不过来，直接断开。
func (s *WsServer) Push(name string, data any) {
	s.send(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) send(resp *WsMsgResp) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.outChan <- resp:
	case <-s.done:
	default:
		s.log.Warn("ws_server out queue full, closing", zap.String("addr", s.Addr()))
		s.Close()
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws_server read loop panic", zap.String("err", fmt.Sprintf("%v", err)), zap.Stack("stack"))
		}
		s.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("ws_server read msg", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		body, err := s.decodeFrame(data)
		if errors.Is(err, errNoSecretKey) || errors.Is(err, errDecrypt) {
			// 密钥对不上就重新握手
			s.log.Warn("ws_server decrypt failed, re-handshake", zap.Error(err))
			s.handshake()
			continue
		}
		if err != nil {
			s.log.Warn("ws_server bad frame", zap.Error(err))
			continue
		}

		// 响应 seq 与请求一致
		resp := &WsMsgResp{Body: &RespBody{Seq: body.Seq, Name: body.Name}}
		if body.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(body.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.log.Debug("ws_server read msg", zap.String("name", body.Name), zap.Int64("seq", body.Seq))
			s.router.Dispatch(&WsMsgReq{Body: body, Conn: s}, resp)
		}
		s.send(resp)
	}
}

func (s *WsServer) writeMsgLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-s.outChan:
			if msg.Body.Name != HeartbeatMsg {
				s.log.Debug("ws_server write msg", zap.String("name", msg.Body.Name), zap.Int("code", msg.Body.Code))
			}
			if err := s.write(msg); err != nil {
				s.log.Warn("ws_server write failed", zap.Error(err))
				s.Close()
				return
			}
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writeMu.Unlock()
			if err != nil {
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *WsMsgResp) error {
	frame, err := s.encodeFrame(msg.Body)
	if err != nil {
		return err
	}
	return s.writeRaw(frame)
}

// 压缩后是二进制，必须走 BinaryMessage。
func (s *WsServer) writeRaw(frame []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

var errDecrypt = errors.New("decrypt frame")

func (s *WsServer) decodeFrame(data []byte) (*ReqBody, error) {
	plain, err := security.UnZip(data)
	if err != nil {
		return nil, fmt.Errorf("unzip frame: %w", err)
	}
	plain, err = s.decrypt(plain)
	if err != nil {
		if errors.Is(err, errNoSecretKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errDecrypt, err)
	}
	body := &ReqBody{}
	if err := json.Unmarshal(plain, body); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	return body, nil
}

func (s *WsServer) encodeFrame(body *RespBody) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	raw, err = s.encrypt(raw)
	if err != nil {
		return nil, fmt.Errorf("encrypt frame: %w", err)
	}
	return security.Zip(raw)
}

func (s *WsServer) secretKey() string {
	key, _ := s.GetProperty(SecretKey).(string)
	return key
}

func (s *WsServer) decrypt(data []byte) ([]byte, error) {
	if !s.needSecret {
		return data, nil
	}
	key := s.secretKey()
	if key == "" {
		return nil, errNoSecretKey
	}
	return security.AesCBCDecrypt(data, []byte(key), []byte(key), openssl.ZEROS_PADDING)
}

func (s *WsServer) encrypt(data []byte) ([]byte, error) {
	if !s.needSecret {
		return data, nil
	}
	key := s.secretKey()
	if key == "" {
		return nil, errNoSecretKey
	}
	return security.AesCBCEncrypt(data, []byte(key), []byte(key), openssl.ZEROS_PADDING)
}

// handshake 下发本连接的密钥，握手帧本身只压缩不加密。
func (s *WsServer) handshake() {
	key := ""
	if s.needSecret {
		if key = s.secretKey(); key == "" {
			k, err := security.RandKey()
			if err != nil {
				s.log.Error("ws_server handshake gen key error", zap.Error(err))
				return
			}
			key = k
		}
	}

	raw, err := json.Marshal(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: key}})
	if err != nil {
		s.log.Error("ws_server handshake marshal error", zap.Error(err))
		return
	}
	if key != "" {
		s.SetProperty(SecretKey, key)
	} else {
		s.RemoveProperty(SecretKey)
	}

	frame, err := security.Zip(raw)
	if err != nil {
		s.log.Error("ws_server handshake zip error", zap.Error(err))
		return
	}
	if err := s.writeRaw(frame); err != nil {
		s.log.Warn("ws_server handshake write error", zap.Error(err))
	}
}
