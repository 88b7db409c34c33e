package entity

import (
	"time"

	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/world/store"
)

// Status 玩家状态机：Spawning -> Alive -> Dead -> Alive ...
//
// 只有三个实现，type switch 时必须覆盖全部分支。
type Status interface {
	isStatus()
}

// Spawning 尚未出生，没有受控实体。
type Spawning struct{}

// Alive 受控实体在世界里的句柄；AimTarget 已经过校验与夹取。
type Alive struct {
	EntityIndex store.Index
	AimTarget   *mathx.Vec2
}

// Dead 最近一次死亡，用于计算出生排除区。
type Dead struct {
	Reason   DeathReason
	Position mathx.Vec2
	Time     time.Time
}

func (Spawning) isStatus() {}
func (Alive) isStatus()    {}
func (Dead) isStatus()     {}

type DeathKind string

const (
	DeathBorder    DeathKind = "border"
	DeathTerrain   DeathKind = "terrain"
	DeathCollision DeathKind = "collision"
	DeathWeapon    DeathKind = "weapon"
	DeathUnknown   DeathKind = "unknown"
)

type DeathReason struct {
	Kind DeathKind
	// Killer 造成死亡的玩家，0 表示环境因素。
	Killer PlayerID
}

func (r DeathReason) IsDueToPlayer() bool {
	return r.Killer != 0
}

// ExclusionWindow 他杀后多久之内出生要避开死亡点。
const ExclusionWindow = 10 * time.Second

// ExclusionZone 返回出生排除区中心；仅他杀且未超过 ExclusionWindow 时存在。
func (d Dead) ExclusionZone(now time.Time) (mathx.Vec2, bool) {
	if !d.Reason.IsDueToPlayer() || now.Sub(d.Time) >= ExclusionWindow {
		return mathx.Vec2{}, false
	}
	return d.Position, true
}
