package command

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/gameconfig/entitytype"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/sim/sanitize"
	"NavalWar/internal/world/entity"
)

const (
	// DepositorRadius 挖泥船一次倾倒的半径，也是目标点离发射点的最大距离。
	DepositorRadius = 60.0
	// DepositorCutoff 超过该距离直接拒绝，以内的目标点夹到 DepositorRadius。
	DepositorCutoff = DepositorRadius * 2
)

// launchDeviation 发射时随机偏角的倍率。
func launchDeviation(sub entitytype.SubKind) float64 {
	switch sub {
	case entitytype.SubKindRocket:
		return 0.05
	case entitytype.SubKindShell:
		return 0.01
	default:
		return 0.03
	}
}

func applyFire(c Fire, w *entity.World, p *player.Player) error {
	d, release := p.Borrow()
	alive, e, err := controlled(d, w)
	upgraded := d.Flags.Upgraded
	release()
	if err != nil {
		return err
	}
	// 升级会销毁限量武器，同一 tick 内开火可能引用已失效的武器
	if upgraded {
		return ErrJustUpgraded
	}

	data := e.Data()
	i := c.ArmamentIndex
	if i < 0 || i >= len(data.Armaments) {
		return ErrArmamentIndex
	}
	if e.Ext.Reloads[i] != 0 {
		return ErrNotReloaded
	}

	armament := data.Armaments[i]
	weaponData := armament.Type.Data()
	if e.IsSubmerged() && (weaponData.SubKind == entitytype.SubKindShell || weaponData.SubKind == entitytype.SubKindSam) {
		return ErrSubmerged
	}
	if armament.Turret != nil {
		t := *armament.Turret
		if !data.Turrets[t].WithinAzimuth(e.Ext.Turrets[t]) {
			return ErrTurretAzimuth
		}
	}

	launch := e.ArmamentTransform(i)
	if weaponData.SubKind == entitytype.SubKindDepositor {
		target, err := sanitize.Vec2(c.PositionTarget, sanitize.Symmetric(2*w.Radius))
		if err != nil {
			return err
		}
		delta := target.Sub(launch.Position)
		if delta.LengthSquared() > DepositorCutoff*DepositorCutoff {
			return ErrOutsideRange
		}
		w.Terrain.Modify(launch.Position.Add(delta.ClampLengthMax(DepositorRadius)), DepositorRadius)
	} else {
		weapon := entity.New(armament.Type, launch, p)
		weapon.Altitude = e.Altitude

		aim := e.Transform.Direction
		if alive.AimTarget != nil {
			aim = mathx.AngleOf(alive.AimTarget.Sub(launch.Position))
		}
		weapon.Guidance = entity.Guidance{DirectionTarget: aim, VelocityTarget: weaponData.Speed}
		if armament.Vertical {
			weapon.Transform.Direction = aim
		}
		deviation := w.RandomAngle().Scale(launchDeviation(weaponData.SubKind))
		weapon.Transform.Direction = weapon.Transform.Direction.Add(deviation)

		if _, ok := w.SpawnHereOrNearby(weapon, 0, nil); !ok {
			return ErrFireBlocked
		}
	}

	e.ConsumeArmament(i)
	e.ClearSpawnProtection()
	return nil
}
