package command

import (
	"testing"
	"time"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/world/entity"
)

func TestSpawn_成功后存活且实体在库(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	e := mustEntity(t, w, idx)
	if e.Player != p {
		t.Fatalf("出生的船应归属该玩家")
	}
	if e.Type != "fairmile" {
		t.Fatalf("类型不对: %s", e.Type)
	}
}

func TestSpawn_重复出生被拒(t *testing.T) {
	w := newWorld()
	p, _ := spawnAs(t, w, 1, "fairmile")
	before := w.Len()

	assertErr(t, Apply(Spawn{EntityType: "fairmile"}, w, p), ErrAlreadyAlive)
	if w.Len() != before {
		t.Fatalf("实体数不应变化: %d -> %d", before, w.Len())
	}
}

func TestSpawn_类型资格(t *testing.T) {
	w := newWorld()
	human := player.New(1, false)
	assertErr(t, Apply(Spawn{EntityType: "bismarck"}, w, human), ErrCannotSpawnAs)
	assertErr(t, Apply(Spawn{EntityType: "mark18"}, w, human), ErrCannotSpawnAs)
	assertErr(t, Apply(Spawn{EntityType: "nope"}, w, human), ErrCannotSpawnAs)

	bot := player.New(2, true)
	assertErr(t, Apply(Spawn{EntityType: "dredger"}, w, bot), ErrCannotSpawnAs)
	if w.Len() != 0 {
		t.Fatalf("被拒的出生不应产生实体")
	}
	if _, ok := bot.Snapshot().Status.(player.Spawning); !ok {
		t.Fatalf("被拒后状态不应改变")
	}
}

func placeBoat(t *testing.T, w *entity.World, owner *player.Player, pos mathx.Vec2) *entity.Entity {
	t.Helper()
	e := entity.New("fairmile", entity.Transform{Position: pos}, owner)
	idx, ok := w.SpawnHereOrNearby(e, 0, nil)
	if !ok {
		t.Fatalf("放置失败: %v", pos)
	}
	d, release := owner.BorrowMut()
	d.Status = player.Alive{EntityIndex: idx}
	release()
	return e
}

func TestSpawn_邀请人附近出生(t *testing.T) {
	w := newWorld()
	inviter := player.New(2, false)
	ally := placeBoat(t, w, inviter, mathx.V(600, 0))

	p := player.New(1, false)
	d, release := p.BorrowMut()
	d.Invitation = &player.Invitation{Inviter: 2}
	release()

	if err := Apply(Spawn{EntityType: "fairmile"}, w, p); err != nil {
		t.Fatalf("出生失败: %v", err)
	}
	e := mustEntity(t, w, aliveIndex(t, p))
	limit := ally.Data().Radius() + AllySpawnMargin
	if dist := e.Transform.Position.Distance(ally.Transform.Position); dist > limit {
		t.Fatalf("应在邀请人 %v 以内出生，实际距离 %v", limit, dist)
	}
}

func TestSpawn_队友附近出生(t *testing.T) {
	w := newWorld()
	mate := player.New(2, false)
	md, release := mate.BorrowMut()
	md.TeamID = 5
	release()
	ally := placeBoat(t, w, mate, mathx.V(-500, 300))

	stranger := player.New(3, false)
	placeBoat(t, w, stranger, mathx.V(0, -600))

	p := player.New(1, false)
	d, release := p.BorrowMut()
	d.TeamID = 5
	release()

	if err := Apply(Spawn{EntityType: "fairmile"}, w, p); err != nil {
		t.Fatalf("出生失败: %v", err)
	}
	e := mustEntity(t, w, aliveIndex(t, p))
	limit := ally.Data().Radius() + AllySpawnMargin
	if dist := e.Transform.Position.Distance(ally.Transform.Position); dist > limit {
		t.Fatalf("应在队友 %v 以内出生，实际距离 %v", limit, dist)
	}
}

func TestSpawn_他杀后避开死亡点(t *testing.T) {
	now := time.Unix(5000, 0)
	w := entity.NewWorld(3000, entity.WithSeed(3), entity.WithClock(func() time.Time { return now }))

	// 队友正好在排除区内，不能作为锚点
	mate := player.New(2, false)
	md, release := mate.BorrowMut()
	md.TeamID = 9
	release()
	placeBoat(t, w, mate, mathx.V(600, 0))

	p := player.New(1, false)
	death := mathx.V(600, 0)
	d, release := p.BorrowMut()
	d.TeamID = 9
	d.Status = player.Dead{
		Reason:   player.DeathReason{Kind: player.DeathWeapon, Killer: 4},
		Position: death,
		Time:     now.Add(-2 * time.Second),
	}
	release()

	if err := Apply(Spawn{EntityType: "fairmile"}, w, p); err != nil {
		t.Fatalf("出生失败: %v", err)
	}
	e := mustEntity(t, w, aliveIndex(t, p))
	if dist := e.Transform.Position.Distance(death); dist < entity.ExclusionRadius {
		t.Fatalf("出生点离死亡点太近: %v", dist)
	}
}

func TestSpawn_没有空位(t *testing.T) {
	w := newWorld(entity.WithMaxEntities(1))
	spawnAs(t, w, 1, "fairmile")

	p := player.New(2, false)
	assertErr(t, Apply(Spawn{EntityType: "fairmile"}, w, p), ErrNoSpawnSpace)
	if _, ok := p.Snapshot().Status.(player.Spawning); !ok {
		t.Fatalf("失败后状态应保持 Spawning")
	}
	if w.Len() != 1 {
		t.Fatalf("失败后不应有新实体")
	}
}
