package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/actor/messages"
	"NavalWar/internal/shared/transport"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/world/actors"
	"NavalWar/internal/world/command"
	"NavalWar/internal/world/entity"
	"NavalWar/internal/world/infra/persistence/memory"
	"NavalWar/modules/kit/errx"
)

func newRuntime(t *testing.T, repo *memory.ScoreRepository) *Runtime {
	t.Helper()
	rt := NewRuntime(actors.Config{
		Radius:       1500,
		TickEvery:    time.Hour,
		FlushEvery:   time.Hour,
		Repo:         repo,
		WorldOptions: []entity.Option{entity.WithSeed(11)},
	}, time.Second)
	t.Cleanup(rt.Shutdown)
	return rt
}

func TestRuntime_未进入世界的指令被拒(t *testing.T) {
	rt := newRuntime(t, memory.NewScoreRepository())
	err := rt.Apply(context.Background(), 1, command.Spawn{EntityType: "fairmile"})
	if !errors.Is(err, actors.ErrNotEntered) {
		t.Fatalf("期望 ErrNotEntered，实际 %v", err)
	}
}

func TestRuntime_进入出生与统计(t *testing.T) {
	repo := memory.NewScoreRepository()
	if err := repo.SaveScores(context.Background(), []player.ScorePersistSnapshot{{PlayerID: 1, Score: 70}}); err != nil {
		t.Fatalf("预置分数失败: %v", err)
	}
	rt := newRuntime(t, repo)
	ctx := context.Background()

	score, err := rt.Enter(ctx, 1, false)
	if err != nil {
		t.Fatalf("Enter 失败: %v", err)
	}
	if score != 70 {
		t.Fatalf("期望恢复分数 70，实际 %d", score)
	}
	if err := rt.Apply(ctx, 1, command.Spawn{EntityType: "fairmile"}); err != nil {
		t.Fatalf("出生失败: %v", err)
	}
	err = rt.Apply(ctx, 1, command.Spawn{EntityType: "fairmile"})
	if !errors.Is(err, command.ErrAlreadyAlive) {
		t.Fatalf("期望 ErrAlreadyAlive，实际 %v", err)
	}

	stats, err := rt.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats 失败: %v", err)
	}
	if stats.Entities != 1 || stats.Players != 1 {
		t.Fatalf("统计不对: %+v", stats)
	}

	if err := rt.Leave(ctx, 1); err != nil {
		t.Fatalf("Leave 失败: %v", err)
	}
	stats, _ = rt.Stats(ctx)
	if stats.Entities != 0 || stats.Players != 0 {
		t.Fatalf("离开后船和玩家都应移除: %+v", stats)
	}
}

func TestRuntime_关闭时分数落库(t *testing.T) {
	repo := memory.NewScoreRepository()
	_ = repo.SaveScores(context.Background(), []player.ScorePersistSnapshot{{PlayerID: 3, Score: 100}})
	rt := NewRuntime(actors.Config{
		Radius:     1500,
		TickEvery:  time.Hour,
		FlushEvery: time.Hour,
		Repo:       repo,
	}, time.Second)
	ctx := context.Background()

	if _, err := rt.Enter(ctx, 3, false); err != nil {
		t.Fatalf("Enter 失败: %v", err)
	}
	// 空世界第一艘船落在原点
	if err := rt.Apply(ctx, 3, command.Spawn{EntityType: "fairmile"}); err != nil {
		t.Fatalf("出生失败: %v", err)
	}
	if err := rt.Apply(ctx, 3, command.Pay{Position: mathx.Zero}); err != nil {
		t.Fatalf("支付失败: %v", err)
	}
	rt.Shutdown()

	got, err := repo.LoadScore(ctx, 3)
	if err != nil {
		t.Fatalf("LoadScore 失败: %v", err)
	}
	if got != 100-command.PayWithdraw {
		t.Fatalf("期望落库分数 %d，实际 %d", 100-command.PayWithdraw, got)
	}
}

func TestRuntime_空指令(t *testing.T) {
	rt := newRuntime(t, memory.NewScoreRepository())
	err := rt.Apply(context.Background(), 1, nil)
	if CodeFromError(err) != transport.InvalidParam {
		t.Fatalf("期望 InvalidParam，实际 %v", err)
	}
}

func TestCodeFromError(t *testing.T) {
	if CodeFromError(nil) != transport.OK {
		t.Fatalf("nil 应为 OK")
	}
	if CodeFromError(&RuntimeError{Code: transport.UpstreamTimeout}) != transport.UpstreamTimeout {
		t.Fatalf("应取 RuntimeError 的 code")
	}
	if CodeFromError(errors.New("x")) != transport.SystemError {
		t.Fatalf("普通错误应为 SystemError")
	}
}

func TestAs_返回类型非法(t *testing.T) {
	_, err := as[messages.WHStats]("oops")
	if CodeFromError(err) != transport.SystemError || !errors.Is(err, errx.ErrInternal) {
		t.Fatalf("期望 SystemError 且带 ErrInternal，实际 %v", err)
	}
	_, err = as[messages.WHStats](&messages.FailResp{Code: transport.UpstreamUnavailable})
	if CodeFromError(err) != transport.UpstreamUnavailable {
		t.Fatalf("FailResp 应保留 code，实际 %v", err)
	}
}
