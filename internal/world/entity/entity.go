package entity

import (
	"math"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/gameconfig/entitytype"
	"NavalWar/internal/sim/mathx"
)

type Transform struct {
	Position  mathx.Vec2
	Direction mathx.Angle
	Velocity  float64
}

// Guidance 物理步朝它收敛的目标。
type Guidance struct {
	DirectionTarget mathx.Angle `mapstructure:"direction_target"`
	VelocityTarget  float64     `mapstructure:"velocity_target"`
}

// SpawnProtectionTicks 出生保护时长，首次开火即失效。
const SpawnProtectionTicks = entitytype.Ticks(10 * entitytype.TicksPerSecond)

// Extension 只有船才有。
type Extension struct {
	Reloads         []entitytype.Ticks
	Turrets         []mathx.Angle
	Active          bool
	AltitudeTarget  float64
	SpawnProtection entitytype.Ticks
}

func NewExtension(d *entitytype.Data) *Extension {
	x := &Extension{
		Active:          true,
		SpawnProtection: SpawnProtectionTicks,
	}
	x.reshape(d)
	return x
}

// reshape 按新类型的武器与炮塔布局重置，装填归零，炮塔回到初始角。
func (x *Extension) reshape(d *entitytype.Data) {
	x.Reloads = make([]entitytype.Ticks, len(d.Armaments))
	x.Turrets = make([]mathx.Angle, len(d.Turrets))
	for i, t := range d.Turrets {
		x.Turrets[i] = mathx.FromRadians(t.Angle)
	}
}

type Entity struct {
	Type      entitytype.Type
	Transform Transform
	Guidance  Guidance
	// Altitude 小于 0 表示潜航。
	Altitude float64
	// Lifespan 剩余存活 tick，0 表示不限。
	Lifespan entitytype.Ticks
	Player   *player.Player
	Ext      *Extension
}

// New 构造未入库的实体；t 必须是目录里的类型。
func New(t entitytype.Type, transform Transform, owner *player.Player) *Entity {
	d := t.Data()
	e := &Entity{
		Type:      t,
		Transform: transform,
		Player:    owner,
	}
	switch d.Kind {
	case entitytype.KindBoat:
		e.Ext = NewExtension(d)
	case entitytype.KindWeapon:
		if d.Speed > 0 && d.Range > 0 {
			e.Lifespan = entitytype.Ticks(math.Ceil(d.Range / d.Speed * entitytype.TicksPerSecond))
		}
	}
	return e
}

func (e *Entity) Data() *entitytype.Data {
	return e.Type.Data()
}

func (e *Entity) IsBoat() bool {
	return e.Data().Kind == entitytype.KindBoat
}

func (e *Entity) IsSubmerged() bool {
	return e.Altitude < 0
}

// ChangeType 原地换类型，扩展按新布局重建。
func (e *Entity) ChangeType(t entitytype.Type) {
	e.Type = t
	d := t.Data()
	if d.Kind != entitytype.KindBoat {
		e.Ext = nil
		return
	}
	if e.Ext == nil {
		e.Ext = NewExtension(d)
		return
	}
	e.Ext.reshape(d)
}

// ArmamentTransform 第 index 个武器在世界坐标里的发射位置与朝向。
func (e *Entity) ArmamentTransform(index int) Transform {
	var turrets []mathx.Angle
	if e.Ext != nil {
		turrets = e.Ext.Turrets
	}
	offset, angle := e.Data().ArmamentTransform(turrets, index)
	return Transform{
		Position:  e.Transform.Position.Add(offset.Rotate(e.Transform.Direction)),
		Direction: e.Transform.Direction.Add(angle),
		Velocity:  e.Transform.Velocity,
	}
}

// ConsumeArmament 开火后按武器类型重置装填。
func (e *Entity) ConsumeArmament(index int) {
	a := e.Data().Armaments[index]
	e.Ext.Reloads[index] = a.Type.Data().Reload
}

func (e *Entity) ClearSpawnProtection() {
	if e.Ext != nil {
		e.Ext.SpawnProtection = 0
	}
}

// tick 倒计时；返回 false 表示寿命耗尽。
func (e *Entity) tick() bool {
	if x := e.Ext; x != nil {
		for i, r := range x.Reloads {
			if r > 0 {
				x.Reloads[i] = r - 1
			}
		}
		if x.SpawnProtection > 0 {
			x.SpawnProtection--
		}
	}
	if e.Lifespan > 0 {
		e.Lifespan--
		return e.Lifespan > 0
	}
	return true
}
