package actors

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/actor/messages"
	"NavalWar/internal/world/command"
	"NavalWar/modules/kit/errx"
	"NavalWar/modules/kit/logx"
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const loadTimeout = 2 * time.Second

var ErrNotEntered = errx.NewBiz("WORLD_NOT_ENTERED", "player has not entered the world").WithReason(command.ReasonStatus)

type WorldHandler struct{}

var WH = &WorldHandler{}

// HandleEnter 首次进入时从仓库恢复分数；重复进入直接返回当前分数。
func (h *WorldHandler) HandleEnter(ctx actor.Context, w *WorldActor, req messages.HWEnter) {
	id := player.PlayerID(req.PlayerId)
	if p, ok := w.players.Get(id); ok {
		ctx.Respond(messages.WHEnter{Score: p.Snapshot().Score})
		return
	}

	p := w.players.GetOrCreate(id, req.Bot)
	lctx := w.logContext(req.WorldBaseMessage)
	loadCtx, cancel := context.WithTimeout(lctx, loadTimeout)
	defer cancel()
	if err := w.dc.Load(loadCtx, p); err != nil {
		w.players.Remove(id)
		sysErr := errx.ErrUnavailable.WithCause(err)
		logx.ReportSysErrorWithLoggerContext(lctx, w.log, logx.NewSysLog("world.enter", sysErr), zap.Int("player_id", int(id)))
		ctx.Respond(messages.WHEnter{Err: sysErr})
		return
	}
	w.log.WithContext(lctx).Info("player entered", zap.Int("player_id", int(id)), zap.Bool("bot", req.Bot))
	ctx.Respond(messages.WHEnter{Score: p.Snapshot().Score})
}

// HandleLeave 移除存活的船，分数入队后注销玩家。
func (h *WorldHandler) HandleLeave(ctx actor.Context, w *WorldActor, req messages.HWLeave) {
	id := player.PlayerID(req.PlayerId)
	p, ok := w.players.Get(id)
	if !ok {
		ctx.Respond(messages.WHLeave{})
		return
	}

	d, release := p.Borrow()
	alive, isAlive := d.AliveIndex()
	release()
	if isAlive {
		w.world.Remove(alive.EntityIndex, player.DeathReason{Kind: player.DeathUnknown})
	}
	w.dc.Collect(p)
	w.players.Remove(id)

	w.log.WithContext(w.logContext(req.WorldBaseMessage)).Info("player left", zap.Int("player_id", int(id)))
	ctx.Respond(messages.WHLeave{})
}

func (h *WorldHandler) HandleApplyCommand(ctx actor.Context, w *WorldActor, req messages.HWApplyCommand) {
	id := player.PlayerID(req.PlayerId)
	p, ok := w.players.Get(id)
	if !ok {
		ctx.Respond(messages.WHApplyCommand{Err: ErrNotEntered})
		return
	}

	err := command.Apply(req.Command, w.world, p)
	if err != nil {
		action := "world.unknown"
		if req.Command != nil {
			action = "world." + req.Command.Name()
		}
		lctx := w.logContext(req.WorldBaseMessage)
		if errx.IsBiz(err) {
			logx.ReportBizWithLoggerContext(lctx, w.log, logx.BizLogFromError(action, err), zap.Int("player_id", int(id)))
		} else {
			logx.ReportSysErrorWithLoggerContext(lctx, w.log, logx.NewSysLog(action, err), zap.Int("player_id", int(id)))
		}
	}
	ctx.Respond(messages.WHApplyCommand{Err: err})
}

func (h *WorldHandler) HandleStats(ctx actor.Context, w *WorldActor, _ messages.HWStats) {
	ctx.Respond(messages.WHStats{
		Tick:     w.tick,
		Entities: w.world.Len(),
		Players:  w.players.Len(),
		Pending:  w.dc.Pending(),
	})
}
