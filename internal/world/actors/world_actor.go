package actors

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/actor/messages"
	"NavalWar/internal/shared/transport"
	"NavalWar/internal/world/app/port"
	"NavalWar/internal/world/dc"
	"NavalWar/internal/world/entity"
	"NavalWar/modules/kit/logx"
	"NavalWar/modules/kit/tracex"
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

const (
	defaultRadius    = 2000.0
	defaultTickEvery = 100 * time.Millisecond
	closeTimeout     = 3 * time.Second
)

// Config 世界 actor 的构造参数，由 manager 透传。
type Config struct {
	Radius       float64
	MaxEntities  int
	TickEvery    time.Duration
	FlushEvery   time.Duration
	Repo         port.ScoreRepository
	Logger       logx.Logger
	WorldOptions []entity.Option
}

func (c Config) withDefaults() Config {
	if c.Radius <= 0 {
		c.Radius = defaultRadius
	}
	if c.TickEvery <= 0 {
		c.TickEvery = defaultTickEvery
	}
	if c.Logger == nil {
		c.Logger = logx.Nop()
	}
	return c
}

// WorldActor 一个世界只有它能写，指令与 tick 都按邮箱顺序执行。
type WorldActor struct {
	state      State
	worldID    WorldID
	cfg        Config
	world      *entity.World
	players    *player.Registry
	dc         *dc.ScoreDC
	dispatcher *Dispatcher
	log        logx.Logger
	tick       uint64
	loopStop   chan struct{}
}

type worldTick struct{}

type flushTick struct{}

func (worldTick) NotInfluenceReceiveTimeout() {}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewWorldActor(worldID WorldID, cfg Config) *WorldActor {
	cfg = cfg.withDefaults()
	return &WorldActor{
		state:      None,
		worldID:    worldID,
		cfg:        cfg,
		dispatcher: NewDispatcher(),
		log:        cfg.Logger.With(zap.Int("world_id", int(worldID))),
	}
}

func (p *WorldActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopLoops()
		p.shutdown()
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopLoops()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopLoops()
		p.state = Init
		return
	case worldTick:
		if p.state != Online {
			return
		}
		p.onTick()
		return
	case flushTick:
		if p.state != Online {
			return
		}
		if n := p.dc.Flush(p.players); n > 0 {
			p.log.Debug("score flush queued", zap.Int("players", n))
		}
		return
	case messages.WorldMessage:
		if msg == nil {
			ctx.Respond(&messages.FailResp{Code: transport.InvalidParam, Message: "nil request"})
			return
		}
		if p.state != Online {
			ctx.Respond(&messages.FailResp{Code: transport.UpstreamUnavailable, Message: "world not online"})
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *WorldActor) init(ctx actor.Context) {
	var opts []entity.Option
	if p.cfg.MaxEntities > 0 {
		opts = append(opts, entity.WithMaxEntities(p.cfg.MaxEntities))
	}
	opts = append(opts, p.cfg.WorldOptions...)

	p.world = entity.NewWorld(p.cfg.Radius, opts...)
	p.players = player.NewRegistry()
	p.dc = dc.NewScoreDC(p.cfg.Repo, p.cfg.FlushEvery)
	p.state = Online
	p.startLoops(ctx)
	p.log.Info("world online", zap.Float64("radius", p.cfg.Radius), zap.Int("max_entities", p.cfg.MaxEntities))
}

// onTick 推进实体，并清掉上一 tick 的升级标志。
func (p *WorldActor) onTick() {
	p.tick++
	if expired := p.world.Tick(); expired > 0 {
		p.log.Debug("entities expired", zap.Uint64("tick", p.tick), zap.Int("count", expired))
	}
	p.players.ForEach(func(pl *player.Player) {
		d, release := pl.BorrowMut()
		d.Flags.Upgraded = false
		release()
	})
}

// shutdown 最后收集一次脏分数再关闭写库协程。
func (p *WorldActor) shutdown() {
	if p.dc == nil {
		return
	}
	p.dc.Flush(p.players)
	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := p.dc.Close(closeCtx); err != nil {
		p.log.Error("score dc close failed", zap.Error(err))
	}
	p.dc = nil
}

// logContext 带上 tick 与上游 trace，供 logx 取字段。
func (p *WorldActor) logContext(m messages.WorldBaseMessage) context.Context {
	ctx := tracex.WithTick(context.Background(), p.tick)
	if m.TraceId != "" {
		ctx = tracex.WithTraceID(ctx, m.TraceId)
	}
	return ctx
}

func (p *WorldActor) WorldID() WorldID {
	return p.worldID
}

func (p *WorldActor) World() *entity.World {
	return p.world
}

func (p *WorldActor) Players() *player.Registry {
	return p.players
}

func (p *WorldActor) DC() *dc.ScoreDC {
	return p.dc
}

func (p *WorldActor) Tick() uint64 {
	return p.tick
}

func (p *WorldActor) startLoops(ctx actor.Context) {
	if p.loopStop != nil {
		return
	}
	p.loopStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go tickLoop(p.loopStop, p.cfg.TickEvery, func() { root.Send(self, worldTick{}) })
	go tickLoop(p.loopStop, p.dc.FlushEvery(), func() { root.Send(self, flushTick{}) })
}

func tickLoop(stop <-chan struct{}, every time.Duration, fire func()) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fire()
		case <-stop:
			return
		}
	}
}

func (p *WorldActor) stopLoops() {
	if p.loopStop == nil {
		return
	}
	close(p.loopStop)
	p.loopStop = nil
}
