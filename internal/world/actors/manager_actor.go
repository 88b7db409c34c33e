package actors

import (
	"NavalWar/internal/shared/actor/messages"
	"NavalWar/internal/shared/transport"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type WorldID int

const DefaultWorldID = WorldID(1)

// ManagerActor 按 world id 把消息转给对应的世界 actor，没有就现建。
// 世界 actor 停掉后从表里摘除，下一条消息会重建。
type ManagerActor struct {
	cfg    Config
	worlds map[WorldID]*actor.PID
	byPID  map[string]WorldID
}

func NewManagerActor(cfg Config) *ManagerActor {
	return &ManagerActor{
		cfg:    cfg.withDefaults(),
		worlds: make(map[WorldID]*actor.PID),
		byPID:  make(map[string]WorldID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
	case messages.WorldMessage:
		if msg == nil {
			ctx.Respond(&messages.FailResp{Code: transport.InvalidParam, Message: "nil request"})
			return
		}
		id := WorldID(msg.WorldID())
		if id <= 0 {
			id = DefaultWorldID
		}
		ctx.Forward(m.getOrSpawn(ctx, id))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, id WorldID) *actor.PID {
	if pid, ok := m.worlds[id]; ok {
		return pid
	}
	cfg := m.cfg
	pid := ctx.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewWorldActor(id, cfg)
	}))
	m.worlds[id] = pid
	m.byPID[pid.String()] = id
	m.cfg.Logger.Info("world actor spawned", zap.Int("world_id", int(id)), zap.String("pid", pid.String()))
	return pid
}

func (m *ManagerActor) forget(pid *actor.PID) {
	if pid == nil {
		return
	}
	id, ok := m.byPID[pid.String()]
	if !ok {
		return
	}
	delete(m.byPID, pid.String())
	if cur, ok := m.worlds[id]; ok && cur.Equal(pid) {
		delete(m.worlds, id)
	}
	m.cfg.Logger.Warn("world actor terminated", zap.Int("world_id", int(id)))
}

// Worlds 当前存活的世界数。
func (m *ManagerActor) Worlds() int {
	return len(m.worlds)
}
