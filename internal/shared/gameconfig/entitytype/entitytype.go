package entitytype

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"sync"

	"NavalWar/internal/sim/mathx"

	"github.com/spf13/viper"
)

//go:embed entities.json
var entitiesJSON []byte

// Type 实体类型标识，对应 entities.json 的 key。
type Type string

type Kind string

const (
	KindBoat        Kind = "boat"
	KindWeapon      Kind = "weapon"
	KindCollectible Kind = "collectible"
)

type SubKind string

const (
	SubKindDredger     SubKind = "dredger"
	SubKindSubmarine   SubKind = "submarine"
	SubKindDestroyer   SubKind = "destroyer"
	SubKindBattleship  SubKind = "battleship"
	SubKindTorpedo     SubKind = "torpedo"
	SubKindShell       SubKind = "shell"
	SubKindRocket      SubKind = "rocket"
	SubKindMissile     SubKind = "missile"
	SubKindSam         SubKind = "sam"
	SubKindDepositor   SubKind = "depositor"
	SubKindDepthCharge SubKind = "depth_charge"
	SubKindCoin        SubKind = "coin"
)

const (
	Coin      Type = "coin"
	Depositor Type = "depositor"
)

// Ticks 模拟步数，每秒 TicksPerSecond 步。
type Ticks uint16

const TicksPerSecond = 10

type Sensors struct {
	Visual float64 `mapstructure:"visual"`
	Radar  float64 `mapstructure:"radar"`
	Sonar  float64 `mapstructure:"sonar"`
}

func (s Sensors) MaxRange() float64 {
	return math.Max(s.Visual, math.Max(s.Radar, s.Sonar))
}

type Armament struct {
	Type     Type    `mapstructure:"type"`
	Turret   *int    `mapstructure:"turret"` // nil 表示固定安装
	Vertical bool    `mapstructure:"vertical"`
	Forward  float64 `mapstructure:"forward"`
	Side     float64 `mapstructure:"side"`
	Angle    float64 `mapstructure:"angle"`
}

type Turret struct {
	Forward float64 `mapstructure:"forward"`
	Angle   float64 `mapstructure:"angle"`
	// Azimuth 允许开火的半弧宽（相对 Angle），>= π 表示无限制。
	Azimuth float64 `mapstructure:"azimuth"`
}

// WithinAzimuth 炮塔当前角度（相对船体）是否在允许开火的弧内。
func (t Turret) WithinAzimuth(current mathx.Angle) bool {
	if t.Azimuth >= math.Pi {
		return true
	}
	return current.Sub(mathx.Angle(t.Angle)).Abs().Radians() <= t.Azimuth
}

// Data 某一实体类型的静态数据。
type Data struct {
	Kind      Kind       `mapstructure:"kind"`
	SubKind   SubKind    `mapstructure:"sub_kind"`
	Level     uint8      `mapstructure:"level"`
	Length    float64    `mapstructure:"length"`
	Width     float64    `mapstructure:"width"`
	Speed     float64    `mapstructure:"speed"`
	Range     float64    `mapstructure:"range"`
	Reload    Ticks      `mapstructure:"reload"`
	Sensors   Sensors    `mapstructure:"sensors"`
	Armaments []Armament `mapstructure:"armaments"`
	Turrets   []Turret   `mapstructure:"turrets"`
	NPCOnly   bool       `mapstructure:"npc_only"`
	NoBots    bool       `mapstructure:"no_bots"`
}

// Radius 碰撞外半径。
func (d *Data) Radius() float64 {
	return d.Length / 2
}

// Radii 内外半径（船宽一半，船长一半）。
func (d *Data) Radii() (inner, outer float64) {
	return d.Width / 2, d.Length / 2
}

// ArmamentTransform 第 index 个武器相对船体的位置偏移与朝向。
func (d *Data) ArmamentTransform(turretAngles []mathx.Angle, index int) (offset mathx.Vec2, angle mathx.Angle) {
	a := d.Armaments[index]
	offset = mathx.V(a.Forward, a.Side)
	angle = mathx.FromRadians(a.Angle)
	if a.Turret != nil {
		t := d.Turrets[*a.Turret]
		turretAngle := mathx.Angle(t.Angle)
		if *a.Turret < len(turretAngles) {
			turretAngle = turretAngles[*a.Turret]
		}
		offset = mathx.V(t.Forward, 0).Add(offset.Rotate(turretAngle))
		angle = angle.Add(turretAngle)
	}
	return offset, angle
}

type catalogFile struct {
	Entities map[Type]*Data `mapstructure:"entities"`
}

var (
	loadOnce sync.Once
	catalog  map[Type]*Data
)

// Load 解析内嵌的 entities.json；重复调用只解析一次。
func Load() {
	loadOnce.Do(func() {
		v := viper.New()
		v.SetConfigType("json")
		if err := v.ReadConfig(bytes.NewReader(entitiesJSON)); err != nil {
			panic(fmt.Errorf("read entity catalog: %w", err))
		}
		var f catalogFile
		if err := v.Unmarshal(&f); err != nil {
			panic(fmt.Errorf("decode entity catalog: %w", err))
		}
		for t, d := range f.Entities {
			for i, a := range d.Armaments {
				if _, ok := f.Entities[a.Type]; !ok {
					panic(fmt.Sprintf("entity %s armament %d references unknown type %s", t, i, a.Type))
				}
				if a.Turret != nil && (*a.Turret < 0 || *a.Turret >= len(d.Turrets)) {
					panic(fmt.Sprintf("entity %s armament %d references unknown turret %d", t, i, *a.Turret))
				}
			}
		}
		catalog = f.Entities
	})
}

// Data 返回静态数据；未知类型返回 nil。
func (t Type) Data() *Data {
	Load()
	return catalog[t]
}

func (t Type) Valid() bool {
	return t.Data() != nil
}

// All 全部已知类型（无序）。
func All() []Type {
	Load()
	out := make([]Type, 0, len(catalog))
	for t := range catalog {
		out = append(out, t)
	}
	return out
}

// LevelToScore 达到 level 所需的最低分数。
func LevelToScore(level uint8) int {
	if level <= 1 {
		return 0
	}
	l := int(level)
	return (l*l - 1) * 10
}

// CanSpawnAs 只能以 1 级船出生；npc_only 与 no_bots 分别限制人类与机器人。
func (t Type) CanSpawnAs(bot bool) bool {
	d := t.Data()
	if d == nil || d.Kind != KindBoat || d.Level != 1 {
		return false
	}
	return d.allowedFor(bot)
}

// CanUpgradeTo 目标必须是下一级的船，且分数达到目标等级门槛。
func (t Type) CanUpgradeTo(target Type, score int, bot bool) bool {
	cur, next := t.Data(), target.Data()
	if cur == nil || next == nil || next.Kind != KindBoat {
		return false
	}
	if next.Level != cur.Level+1 {
		return false
	}
	return score >= LevelToScore(next.Level) && next.allowedFor(bot)
}

func (d *Data) allowedFor(bot bool) bool {
	if d.NPCOnly && !bot {
		return false
	}
	if d.NoBots && bot {
		return false
	}
	return true
}
