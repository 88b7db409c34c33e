// Package command 玩家指令：校验后修改世界与玩家状态。
//
// 所有指令都在世界 actor 内串行执行，不会和其它指令或物理步并发。
// 任何校验失败都不留下部分修改。
package command

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/gameconfig/entitytype"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/world/entity"
)

// Command 封闭集合，只有本包内的类型实现。
type Command interface {
	Name() string
	isCommand()
}

type Spawn struct {
	EntityType entitytype.Type `mapstructure:"entity_type"`
}

// Control 部分更新：缺省字段保持原值（瞄准点除外，缺省即清空）。
type Control struct {
	Guidance       *entity.Guidance `mapstructure:"guidance"`
	AimTarget      *mathx.Vec2      `mapstructure:"aim_target"`
	Active         bool             `mapstructure:"active"`
	AltitudeTarget *float64         `mapstructure:"altitude_target"`
	Fire           *Fire            `mapstructure:"fire"`
	Pay            *Pay             `mapstructure:"pay"`
	Hint           *Hint            `mapstructure:"hint"`
}

type Fire struct {
	ArmamentIndex  int        `mapstructure:"armament_index"`
	PositionTarget mathx.Vec2 `mapstructure:"position_target"`
}

type Pay struct {
	Position mathx.Vec2 `mapstructure:"position"`
}

type Hint struct {
	Aspect float64 `mapstructure:"aspect"`
}

type Upgrade struct {
	EntityType entitytype.Type `mapstructure:"entity_type"`
}

func (Spawn) Name() string   { return "spawn" }
func (Control) Name() string { return "control" }
func (Fire) Name() string    { return "fire" }
func (Pay) Name() string     { return "pay" }
func (Hint) Name() string    { return "hint" }
func (Upgrade) Name() string { return "upgrade" }

func (Spawn) isCommand()   {}
func (Control) isCommand() {}
func (Fire) isCommand()    {}
func (Pay) isCommand()     {}
func (Hint) isCommand()    {}
func (Upgrade) isCommand() {}

// Apply 唯一入口。调用方负责解码、鉴权、限流，并保证独占世界。
func Apply(cmd Command, w *entity.World, p *player.Player) error {
	switch c := cmd.(type) {
	case Spawn:
		return applySpawn(c, w, p)
	case Control:
		return applyControl(c, w, p)
	case Fire:
		return applyFire(c, w, p)
	case Pay:
		return applyPay(c, w, p)
	case Hint:
		return applyHint(c, p)
	case Upgrade:
		return applyUpgrade(c, w, p)
	default:
		return ErrUnsupportedCommand
	}
}

// controlled 玩家当前操控的实体；调用方需持有该玩家的借用。
func controlled(d *player.Data, w *entity.World) (player.Alive, *entity.Entity, error) {
	alive, ok := d.AliveIndex()
	if !ok {
		return player.Alive{}, nil, ErrNotAlive
	}
	e, ok := w.Get(alive.EntityIndex)
	if !ok || e.Ext == nil {
		return player.Alive{}, nil, ErrEntityMissing
	}
	return alive, e, nil
}
