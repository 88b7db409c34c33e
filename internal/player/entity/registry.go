package entity

import (
	"sync"
)

// Registry 会话层持有的玩家表，指令分发只读不增删。
type Registry struct {
	mu      sync.RWMutex
	players map[PlayerID]*Player
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[PlayerID]*Player)}
}

func (r *Registry) Get(id PlayerID) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// GetOrCreate 已存在时忽略 bot 参数。
func (r *Registry) GetOrCreate(id PlayerID, bot bool) *Player {
	r.mu.RLock()
	p, ok := r.players[id]
	r.mu.RUnlock()
	if ok {
		return p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok = r.players[id]; ok {
		return p
	}
	p = New(id, bot)
	r.players[id] = p
	return p
}

func (r *Registry) Remove(id PlayerID) (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if ok {
		delete(r.players, id)
	}
	return p, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// ForEach 遍历快照，fn 内可以借用玩家，也可以调用 Registry 的其它方法。
func (r *Registry) ForEach(fn func(*Player)) {
	r.mu.RLock()
	list := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		list = append(list, p)
	}
	r.mu.RUnlock()
	for _, p := range list {
		fn(p)
	}
}
