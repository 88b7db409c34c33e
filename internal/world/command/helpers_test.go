package command

import (
	"errors"
	"testing"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/gameconfig/entitytype"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/world/entity"
	"NavalWar/internal/world/store"
)

type modifyCall struct {
	pos    mathx.Vec2
	radius float64
}

// fakeTerrain 全是海，只记录 Modify 调用。
type fakeTerrain struct {
	calls []modifyCall
}

func (f *fakeTerrain) Modify(pos mathx.Vec2, radius float64) {
	f.calls = append(f.calls, modifyCall{pos: pos, radius: radius})
}

func (f *fakeTerrain) Collides(mathx.Vec2, float64) bool {
	return false
}

func newWorld(opts ...entity.Option) *entity.World {
	return entity.NewWorld(1000, append([]entity.Option{entity.WithSeed(7)}, opts...)...)
}

// spawnAs 让新玩家以 t 出生，返回玩家与实体句柄。
func spawnAs(t *testing.T, w *entity.World, id player.PlayerID, typ entitytype.Type) (*player.Player, store.Index) {
	t.Helper()
	p := player.New(id, false)
	if err := Apply(Spawn{EntityType: typ}, w, p); err != nil {
		t.Fatalf("出生失败: %v", err)
	}
	return p, aliveIndex(t, p)
}

func aliveIndex(t *testing.T, p *player.Player) store.Index {
	t.Helper()
	a, ok := p.Snapshot().Status.(player.Alive)
	if !ok {
		t.Fatalf("期望 Alive，实际 %T", p.Snapshot().Status)
	}
	return a.EntityIndex
}

func mustEntity(t *testing.T, w *entity.World, i store.Index) *entity.Entity {
	t.Helper()
	e, ok := w.Get(i)
	if !ok {
		t.Fatalf("句柄 %v 没有对应实体", i)
	}
	return e
}

func setScore(p *player.Player, score int) {
	d, release := p.BorrowMut()
	d.Score = score
	release()
}

func countType(w *entity.World, typ entitytype.Type) int {
	n := 0
	for _, e := range w.Entities.All() {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func assertErr(t *testing.T, got, want error) {
	t.Helper()
	if want == nil {
		if got != nil {
			t.Fatalf("期望成功，实际 %v", got)
		}
		return
	}
	if got == nil || !errors.Is(got, want) {
		t.Fatalf("期望错误 %v，实际 %v", want, got)
	}
}
