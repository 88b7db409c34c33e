package command

import (
	"math"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/sim/sanitize"
	"NavalWar/internal/world/entity"
)

// AltitudeRange 高度目标合法区间，负值为潜航。
var AltitudeRange = sanitize.Range{Min: -1, Max: 1}

func applyControl(c Control, w *entity.World, p *player.Player) error {
	if err := controlEntity(c, w, p); err != nil {
		return err
	}

	// 子指令会重新借用玩家，必须在 controlEntity 释放之后执行
	if c.Fire != nil {
		if err := applyFire(*c.Fire, w, p); err != nil {
			return err
		}
	}
	if c.Pay != nil {
		if err := applyPay(*c.Pay, w, p); err != nil {
			return err
		}
	}
	if c.Hint != nil {
		if err := applyHint(*c.Hint, p); err != nil {
			return err
		}
	}
	return nil
}

func controlEntity(c Control, w *entity.World, p *player.Player) error {
	d, release := p.BorrowMut()
	defer release()

	_, e, err := controlled(d, w)
	if err != nil {
		return err
	}

	var guidance *entity.Guidance
	if c.Guidance != nil {
		g, err := sanitizeGuidance(*c.Guidance, e.Data().Speed)
		if err != nil {
			return err
		}
		guidance = &g
	}

	var aim *mathx.Vec2
	if c.AimTarget != nil {
		target, err := sanitize.Vec2(*c.AimTarget, sanitize.Symmetric(2*w.Radius))
		if err != nil {
			return err
		}
		pos := e.Transform.Position
		clamped := target.Sub(pos).ClampLengthMax(e.Data().Sensors.MaxRange()).Add(pos)
		aim = &clamped
	}

	var altitude *float64
	if c.AltitudeTarget != nil {
		a, err := sanitize.Float(*c.AltitudeTarget, AltitudeRange)
		if err != nil {
			return err
		}
		altitude = &a
	}

	if guidance != nil {
		e.Guidance = *guidance
	}
	d.SetAimTarget(aim)
	e.Ext.Active = c.Active
	if altitude != nil {
		e.Ext.AltitudeTarget = *altitude
	}
	return nil
}

// sanitizeGuidance 方向归一化，速度夹到 [-speed, speed]。
func sanitizeGuidance(g entity.Guidance, speed float64) (entity.Guidance, error) {
	dir, err := sanitize.Float(g.DirectionTarget.Radians(), sanitize.Symmetric(math.MaxFloat64))
	if err != nil {
		return entity.Guidance{}, err
	}
	v, err := sanitize.Float(g.VelocityTarget, sanitize.Symmetric(speed))
	if err != nil {
		return entity.Guidance{}, err
	}
	return entity.Guidance{DirectionTarget: mathx.FromRadians(dir), VelocityTarget: v}, nil
}
