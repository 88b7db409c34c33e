package actors

import (
	"testing"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/world/entity"

	"github.com/asynkron/protoactor-go/actor"
)

func newBareActor() *WorldActor {
	w := NewWorldActor(DefaultWorldID, Config{Radius: 1000})
	w.world = entity.NewWorld(1000, entity.WithSeed(5))
	w.players = player.NewRegistry()
	return w
}

func TestOnTick_清除升级标志(t *testing.T) {
	w := newBareActor()
	p := w.players.GetOrCreate(1, false)
	d, release := p.BorrowMut()
	d.Flags.Upgraded = true
	release()

	w.onTick()
	if p.Snapshot().Flags.Upgraded {
		t.Fatalf("tick 后应清除升级标志")
	}
	if w.Tick() != 1 {
		t.Fatalf("tick 计数应为 1，实际 %d", w.Tick())
	}
}

func TestConfig_默认值(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Radius != defaultRadius || cfg.TickEvery != defaultTickEvery || cfg.Logger == nil {
		t.Fatalf("默认值不对: %+v", cfg)
	}
}

func TestDispatcher_每种消息都有处理器(t *testing.T) {
	d := NewDispatcher()
	if len(d.handlers) != 4 {
		t.Fatalf("期望 4 个处理器，实际 %d", len(d.handlers))
	}
}

func TestManager_世界终止后摘除(t *testing.T) {
	m := NewManagerActor(Config{})
	pid := actor.NewPID("nonhost", "world-1")
	m.worlds[DefaultWorldID] = pid
	m.byPID[pid.String()] = DefaultWorldID

	m.forget(actor.NewPID("nonhost", "other"))
	if m.Worlds() != 1 {
		t.Fatalf("无关 pid 不应影响")
	}
	m.forget(pid)
	if m.Worlds() != 0 || len(m.byPID) != 0 {
		t.Fatalf("终止后应摘除")
	}
}
