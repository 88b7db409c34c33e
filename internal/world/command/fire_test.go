package command

import (
	"math"
	"testing"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/world/entity"
)

func findType(t *testing.T, w *entity.World, typ string) *entity.Entity {
	t.Helper()
	for _, e := range w.Entities.All() {
		if string(e.Type) == typ {
			return e
		}
	}
	t.Fatalf("没有找到 %s", typ)
	return nil
}

func TestFire_成功后重置装填并清出生保护(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	boat := mustEntity(t, w, idx)
	if boat.Ext.SpawnProtection == 0 {
		t.Fatalf("刚出生应有出生保护")
	}

	if err := Apply(Fire{ArmamentIndex: 0}, w, p); err != nil {
		t.Fatalf("开火失败: %v", err)
	}
	if w.Len() != 2 {
		t.Fatalf("开火后应多一个实体，实际 %d", w.Len())
	}
	torpedo := findType(t, w, "mark18")
	if torpedo.Player != p {
		t.Fatalf("鱼雷应记住发射者")
	}
	if torpedo.Guidance.VelocityTarget != torpedo.Data().Speed {
		t.Fatalf("鱼雷目标速度应为额定速度，实际 %v", torpedo.Guidance.VelocityTarget)
	}
	if boat.Ext.Reloads[0] != torpedo.Data().Reload {
		t.Fatalf("装填应重置为 %d，实际 %d", torpedo.Data().Reload, boat.Ext.Reloads[0])
	}
	if boat.Ext.SpawnProtection != 0 {
		t.Fatalf("开火后应失去出生保护")
	}

	// 未装填完成
	before := w.Len()
	assertErr(t, Apply(Fire{ArmamentIndex: 0}, w, p), ErrNotReloaded)
	if w.Len() != before || boat.Ext.Reloads[0] != torpedo.Data().Reload {
		t.Fatalf("未装填时不应产生实体或修改装填")
	}
}

func TestFire_越界(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	boat := mustEntity(t, w, idx)
	n := len(boat.Data().Armaments)

	for _, i := range []int{n, n + 5, -1} {
		assertErr(t, Apply(Fire{ArmamentIndex: i}, w, p), ErrArmamentIndex)
	}
	if w.Len() != 1 {
		t.Fatalf("越界不应产生实体")
	}
	for i, r := range boat.Ext.Reloads {
		if r != 0 {
			t.Fatalf("越界不应修改装填: reloads[%d]=%d", i, r)
		}
	}
}

func TestFire_未存活(t *testing.T) {
	w := newWorld()
	assertErr(t, Apply(Fire{}, w, player.New(1, false)), ErrNotAlive)
}

func TestFire_潜航时不能用炮(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	boat := mustEntity(t, w, idx)
	boat.Altitude = -0.5

	assertErr(t, Apply(Fire{ArmamentIndex: 2}, w, p), ErrSubmerged)
	if boat.Ext.Reloads[2] != 0 {
		t.Fatalf("被拒时不应修改装填")
	}

	// 鱼雷不受限制，并继承高度
	if err := Apply(Fire{ArmamentIndex: 0}, w, p); err != nil {
		t.Fatalf("潜航发射鱼雷应成功: %v", err)
	}
	if torpedo := findType(t, w, "mark18"); torpedo.Altitude != boat.Altitude {
		t.Fatalf("武器应继承发射者高度，实际 %v", torpedo.Altitude)
	}
}

func TestFire_炮塔方位限制(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	boat := mustEntity(t, w, idx)
	boat.Ext.Turrets[0] = mathx.FromRadians(3.0)

	assertErr(t, Apply(Fire{ArmamentIndex: 2}, w, p), ErrTurretAzimuth)
	if w.Len() != 1 {
		t.Fatalf("方位不合法时不应产生实体")
	}

	boat.Ext.Turrets[0] = mathx.FromRadians(2.0)
	if err := Apply(Fire{ArmamentIndex: 2}, w, p); err != nil {
		t.Fatalf("方位合法时应能开火: %v", err)
	}
}

func TestFire_朝瞄准点发射(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	boat := mustEntity(t, w, idx)

	aim := mathx.V(0, 300)
	if err := Apply(Control{AimTarget: &aim, Active: true}, w, p); err != nil {
		t.Fatalf("Control 失败: %v", err)
	}
	launch := boat.ArmamentTransform(0)
	if err := Apply(Fire{ArmamentIndex: 0}, w, p); err != nil {
		t.Fatalf("开火失败: %v", err)
	}
	torpedo := findType(t, w, "mark18")
	want := mathx.AngleOf(aim.Sub(launch.Position))
	if d := torpedo.Guidance.DirectionTarget.Sub(want).Abs(); d > 1e-9 {
		t.Fatalf("引导方向应指向瞄准点: 期望 %v 实际 %v", want, torpedo.Guidance.DirectionTarget)
	}
	// 非垂直发射保持发射口朝向，只加随机偏差
	if d := torpedo.Transform.Direction.Sub(launch.Direction).Abs().Radians(); d > 0.03*math.Pi+1e-9 {
		t.Fatalf("偏差超出范围: %v", d)
	}
}

func TestFire_垂直发射转向瞄准方向(t *testing.T) {
	w := newWorld()
	p, idx := spawnAs(t, w, 1, "fairmile")
	if !w.ChangeEntityType(idx, "kolkata") {
		t.Fatalf("换类型失败")
	}

	aim := mathx.V(-200, 0)
	if err := Apply(Control{AimTarget: &aim, Active: true}, w, p); err != nil {
		t.Fatalf("Control 失败: %v", err)
	}
	boat := mustEntity(t, w, idx)
	launch := boat.ArmamentTransform(3)
	if err := Apply(Fire{ArmamentIndex: 3}, w, p); err != nil {
		t.Fatalf("开火失败: %v", err)
	}
	missile := findType(t, w, "brahmos")
	want := mathx.AngleOf(aim.Sub(launch.Position))
	if dev := missile.Transform.Direction.Sub(want).Abs().Radians(); dev > 0.03*math.Pi+1e-9 {
		t.Fatalf("垂直发射应朝向瞄准方向: 期望 %v 实际 %v", want, missile.Transform.Direction)
	}
}

func TestFire_发射位置被占用(t *testing.T) {
	w := newWorld(entity.WithMaxEntities(1))
	p, idx := spawnAs(t, w, 1, "fairmile")
	boat := mustEntity(t, w, idx)

	assertErr(t, Apply(Fire{ArmamentIndex: 0}, w, p), ErrFireBlocked)
	if boat.Ext.Reloads[0] != 0 || boat.Ext.SpawnProtection == 0 {
		t.Fatalf("发射失败不应消耗武器或出生保护")
	}
}

func TestFire_挖泥船改地形(t *testing.T) {
	terr := &fakeTerrain{}
	w := newWorld(entity.WithTerrain(terr))
	p, idx := spawnAs(t, w, 1, "dredger")
	boat := mustEntity(t, w, idx)
	launch := boat.ArmamentTransform(0).Position

	// 超出 cutoff 直接拒绝
	assertErr(t, Apply(Fire{ArmamentIndex: 0, PositionTarget: launch.Add(mathx.V(DepositorCutoff+1, 0))}, w, p), ErrOutsideRange)
	assertErr(t, Apply(Fire{ArmamentIndex: 0, PositionTarget: mathx.V(math.Inf(-1), 0)}, w, p), ErrNotFinite)
	if len(terr.calls) != 0 || boat.Ext.Reloads[0] != 0 {
		t.Fatalf("被拒时不应修改地形或装填")
	}

	// cutoff 以内夹到 DepositorRadius
	target := launch.Add(mathx.V(90, 0))
	if err := Apply(Fire{ArmamentIndex: 0, PositionTarget: target}, w, p); err != nil {
		t.Fatalf("倾倒失败: %v", err)
	}
	if len(terr.calls) != 1 {
		t.Fatalf("期望一次地形修改，实际 %d", len(terr.calls))
	}
	call := terr.calls[0]
	want := launch.Add(mathx.V(DepositorRadius, 0))
	if call.pos.Distance(want) > 1e-9 || call.radius != DepositorRadius {
		t.Fatalf("修改位置不对: %+v 期望 %v", call, want)
	}
	if w.Len() != 1 {
		t.Fatalf("倾倒不产生实体")
	}
	if boat.Ext.Reloads[0] == 0 {
		t.Fatalf("倾倒后应进入装填")
	}
}
