package session

import (
	"NavalWar/internal/shared/transport/ws"
	"sync"

	"github.com/segmentio/ksuid"
)

// PushKicked 同一玩家在别处登录时推给旧连接的消息名。
const PushKicked = "session.kicked"

type Manager interface {
	Bind(uid int, conn ws.WSConn) string
	UnbindConn(conn ws.WSConn)
	UnbindUID(uid int)
	GetConn(uid int) (ws.WSConn, bool)
	GetUID(conn ws.WSConn) (int, bool)
	SessionID(uid int) (string, bool)
}

// SessMgr 玩家与连接一一对应；连接断开且仍是该玩家当前连接时回调 onLeave。
type SessMgr struct {
	sync.RWMutex
	uid2sid  map[int]string
	uid2conn map[int]ws.WSConn
	conn2uid map[ws.WSConn]int
	watched  map[ws.WSConn]struct{}
	onLeave  func(uid int)
}

func NewSessMgr(onLeave func(uid int)) *SessMgr {
	return &SessMgr{
		uid2sid:  make(map[int]string),
		uid2conn: make(map[int]ws.WSConn),
		conn2uid: make(map[ws.WSConn]int),
		watched:  make(map[ws.WSConn]struct{}),
		onLeave:  onLeave,
	}
}

// Bind 绑定并返回新的会话 id。
func (s *SessMgr) Bind(uid int, conn ws.WSConn) string {
	if conn == nil {
		return ""
	}
	sid := ksuid.New().String()

	s.Lock()
	// 为每条连接只启动一次 watcher：连接关闭后自动解绑，避免 conn2uid 逐步膨胀
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	oldConn := s.uid2conn[uid]
	if prev, ok := s.conn2uid[conn]; ok && prev != uid && s.uid2conn[prev] == conn {
		// 同一连接换号，旧号视为离开
		delete(s.uid2conn, prev)
		delete(s.uid2sid, prev)
		defer s.leave(prev)
	}
	s.uid2conn[uid] = conn
	s.conn2uid[conn] = uid
	s.uid2sid[uid] = sid
	s.Unlock()

	// 踢掉原来的那个，Push/Close 不在锁内做
	if oldConn != nil && oldConn != conn {
		oldConn.Push(PushKicked, nil)
		oldConn.Close()
	}
	return sid
}

func (s *SessMgr) leave(uid int) {
	if s.onLeave != nil {
		s.onLeave(uid)
	}
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	uid, bound := s.conn2uid[conn]
	delete(s.watched, conn)
	delete(s.conn2uid, conn)
	current := bound && s.uid2conn[uid] == conn
	if current {
		delete(s.uid2conn, uid)
		delete(s.uid2sid, uid)
	}
	s.Unlock()

	if current {
		s.leave(uid)
	}
}

func (s *SessMgr) UnbindUID(uid int) {
	s.Lock()
	conn, ok := s.uid2conn[uid]
	if ok {
		delete(s.watched, conn)
		delete(s.conn2uid, conn)
	}
	delete(s.uid2conn, uid)
	delete(s.uid2sid, uid)
	s.Unlock()

	if ok {
		s.leave(uid)
	}
}

func (s *SessMgr) GetConn(uid int) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.uid2conn[uid]
	return conn, ok
}

func (s *SessMgr) GetUID(conn ws.WSConn) (int, bool) {
	s.RLock()
	defer s.RUnlock()
	uid, ok := s.conn2uid[conn]
	return uid, ok
}

func (s *SessMgr) SessionID(uid int) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	sid, ok := s.uid2sid[uid]
	return sid, ok
}
