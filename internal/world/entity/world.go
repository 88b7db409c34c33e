package entity

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/gameconfig/entitytype"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/world/store"
	"NavalWar/internal/world/terrain"
)

// ExclusionRadius 他杀后出生点需要远离死亡点的距离。
const ExclusionRadius = 1250.0

// spawnAttempts 放置搜索的随机尝试次数（含原地一次）。
const spawnAttempts = 64

// Terrain 指令层只用到修改与碰撞两个能力。
type Terrain interface {
	Modify(pos mathx.Vec2, radius float64)
	Collides(pos mathx.Vec2, radius float64) bool
}

type World struct {
	Radius      float64
	Entities    *store.Store[*Entity]
	Terrain     Terrain
	MaxEntities int

	rng *rand.Rand
	now func() time.Time
}

type Option func(*World)

func WithMaxEntities(n int) Option {
	return func(w *World) { w.MaxEntities = n }
}

func WithTerrain(t Terrain) Option {
	return func(w *World) { w.Terrain = t }
}

// WithSeed 固定随机种子，测试用。
func WithSeed(seed uint64) Option {
	return func(w *World) { w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func WithClock(now func() time.Time) Option {
	return func(w *World) { w.now = now }
}

func NewWorld(radius float64, opts ...Option) *World {
	w := &World{
		Radius:   radius,
		Entities: store.New[*Entity](),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.Terrain == nil {
		w.Terrain = terrain.New(radius)
	}
	return w
}

func (w *World) Now() time.Time {
	return w.now()
}

// RandomAngle [-π, π) 均匀分布。
func (w *World) RandomAngle() mathx.Angle {
	return mathx.Angle((w.rng.Float64()*2 - 1) * math.Pi)
}

func (w *World) Get(i store.Index) (*Entity, bool) {
	return w.Entities.Get(i)
}

func (w *World) Len() int {
	return w.Entities.Len()
}

// FindBoat 并行扫描任意一艘满足 pred 的船，命中顺序不保证。
func (w *World) FindBoat(ctx context.Context, pred func(store.Index, *Entity) bool) (store.Index, *Entity, bool) {
	return w.Entities.FindAny(ctx, func(i store.Index, e *Entity) bool {
		return e.Data().Kind == entitytype.KindBoat && pred(i, e)
	})
}

// SpawnHereOrNearby 先试实体当前位置，不行再在 radius 内随机找空位。
//
// exclusion 不为空时，离它 ExclusionRadius 以内的位置都不要。失败时实体被丢弃，不入库。
func (w *World) SpawnHereOrNearby(e *Entity, radius float64, exclusion *mathx.Vec2) (store.Index, bool) {
	if w.MaxEntities > 0 && w.Entities.Len() >= w.MaxEntities {
		return store.Index{}, false
	}
	attempts := spawnAttempts
	if radius <= 0 {
		attempts = 1
	}
	center := e.Transform.Position
	for i := 0; i < attempts; i++ {
		pos := center
		if i > 0 {
			// 半径随尝试次数逐步放大，先近后远
			r := radius * float64(i) / float64(attempts-1) * math.Sqrt(w.rng.Float64())
			pos = center.Add(w.RandomAngle().Vec().Scale(r))
		}
		if w.canPlace(e, pos, exclusion) {
			e.Transform.Position = pos
			return w.Entities.Insert(e), true
		}
	}
	return store.Index{}, false
}

func (w *World) canPlace(e *Entity, pos mathx.Vec2, exclusion *mathx.Vec2) bool {
	if !pos.IsFinite() || pos.Length() > w.Radius {
		return false
	}
	if exclusion != nil && pos.Distance(*exclusion) < ExclusionRadius {
		return false
	}
	d := e.Data()
	r := d.Radius()
	if w.Terrain.Collides(pos, r) {
		return false
	}
	if d.Kind != entitytype.KindBoat {
		return true
	}
	_, _, hit := w.FindBoat(context.Background(), func(_ store.Index, other *Entity) bool {
		sum := r + other.Data().Radius()
		return other.Transform.Position.DistanceSquared(pos) < sum*sum
	})
	return !hit
}

// ChangeEntityType 原地换类型，句柄不变。
func (w *World) ChangeEntityType(i store.Index, t entitytype.Type) bool {
	e, ok := w.Entities.Get(i)
	if !ok {
		return false
	}
	e.ChangeType(t)
	return true
}

// Remove 销毁实体；若是玩家当前操控的船，玩家转为 Dead。
func (w *World) Remove(i store.Index, reason player.DeathReason) bool {
	e, ok := w.Entities.Remove(i)
	if !ok {
		return false
	}
	if e.Player == nil || e.Ext == nil {
		return true
	}
	d, release := e.Player.BorrowMut()
	defer release()
	if a, alive := d.AliveIndex(); alive && a.EntityIndex == i {
		d.Status = player.Dead{
			Reason:   reason,
			Position: e.Transform.Position,
			Time:     w.now(),
		}
	}
	return true
}

// Tick 推进装填、出生保护与武器寿命，返回过期移除的实体数。
func (w *World) Tick() int {
	var expired []store.Index
	for i, e := range w.Entities.All() {
		if !e.tick() {
			expired = append(expired, i)
		}
	}
	for _, i := range expired {
		w.Remove(i, player.DeathReason{Kind: player.DeathUnknown})
	}
	return len(expired)
}
