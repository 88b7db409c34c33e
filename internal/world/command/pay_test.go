package command

import (
	"math"
	"testing"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/gameconfig/entitytype"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/world/entity"
)

func TestPay_成功扣固定金额(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	boat := mustEntity(t, w, idx)
	setScore(p, 50)

	if err := Apply(Pay{Position: boat.Transform.Position.Add(mathx.V(5, 0))}, w, p); err != nil {
		t.Fatalf("支付失败: %v", err)
	}
	if got := p.Snapshot().Score; got != 50-PayWithdraw {
		t.Fatalf("期望分数 %d，实际 %d", 50-PayWithdraw, got)
	}
	if countType(w, entitytype.Coin) != 1 {
		t.Fatalf("应放出一枚金币")
	}
	if coin := findType(t, w, string(entitytype.Coin)); coin.Player != p {
		t.Fatalf("金币应归属支付者")
	}
}

func TestPay_余额不足(t *testing.T) {
	w := newWorld()
	p, _ := spawnAs(t, w, 1, "fairmile")
	// 1 级门槛为 0，需要至少 20
	setScore(p, entitytype.LevelToScore(1)+PayWithdraw-1)

	assertErr(t, Apply(Pay{Position: mathx.Zero}, w, p), ErrInsufficientFunds)
	if got := p.Snapshot().Score; got != PayWithdraw-1 {
		t.Fatalf("分数不应变化，实际 %d", got)
	}
	if countType(w, entitytype.Coin) != 0 {
		t.Fatalf("余额不足时不应产生金币")
	}
}

func TestPay_等级门槛计入(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	w.ChangeEntityType(idx, "typeviic")
	setScore(p, entitytype.LevelToScore(2)+PayWithdraw-1)

	assertErr(t, Apply(Pay{Position: mathx.Zero}, w, p), ErrInsufficientFunds)

	setScore(p, entitytype.LevelToScore(2)+PayWithdraw)
	if err := Apply(Pay{Position: mathx.Zero}, w, p); err != nil {
		t.Fatalf("刚好够时应成功: %v", err)
	}
	if got := p.Snapshot().Score; got != entitytype.LevelToScore(2) {
		t.Fatalf("扣款后分数不对: %d", got)
	}
}

func TestPay_距离太远(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	boat := mustEntity(t, w, idx)
	setScore(p, 100)
	_, outer := boat.Data().Radii()

	assertErr(t, Apply(Pay{Position: boat.Transform.Position.Add(mathx.V(outer+1, 0))}, w, p), ErrPayTooFar)
	if p.Snapshot().Score != 100 {
		t.Fatalf("被拒时不应扣分")
	}
}

func TestPay_放置失败不扣分(t *testing.T) {
	w := newWorld(entity.WithMaxEntities(1))
	p, _ := spawnAs(t, w, 1, "fairmile")
	setScore(p, 100)

	if err := Apply(Pay{Position: mathx.Zero}, w, p); err != nil {
		t.Fatalf("放置失败时指令本身仍成功: %v", err)
	}
	if got := p.Snapshot().Score; got != 100 {
		t.Fatalf("放置失败不应扣分，实际 %d", got)
	}
}

func TestPay_非有限值与未存活(t *testing.T) {
	w := newWorld()
	assertErr(t, Apply(Pay{Position: mathx.V(0, math.NaN())}, w, player.New(2, false)), ErrNotFinite)
	assertErr(t, Apply(Pay{Position: mathx.Zero}, w, player.New(3, false)), ErrNotAlive)
}

func TestPay_分数永不为负(t *testing.T) {
	w := newWorld()
	p, _ := spawnAs(t, w, 1, "fairmile")
	setScore(p, 45)
	for i := 0; i < 5; i++ {
		_ = Apply(Pay{Position: mathx.V(float64(i), 0)}, w, p)
		if s := p.Snapshot().Score; s < 0 {
			t.Fatalf("分数变为负数: %d", s)
		}
	}
	if got := p.Snapshot().Score; got != 5 {
		t.Fatalf("期望 45-20-20=5，实际 %d", got)
	}
}
