package entitytype

import (
	"math"
	"testing"

	"NavalWar/internal/sim/mathx"
)

func TestLoad_内嵌目录可解析(t *testing.T) {
	d := Type("fairmile").Data()
	if d == nil {
		t.Fatalf("期望 fairmile 存在")
	}
	if d.Kind != KindBoat || d.Level != 1 {
		t.Fatalf("期望 fairmile 为 1 级船, got kind=%s level=%d", d.Kind, d.Level)
	}
	if len(d.Armaments) != 3 || d.Armaments[2].Turret == nil || *d.Armaments[2].Turret != 0 {
		t.Fatalf("期望第 3 个武器装在 0 号炮塔, got=%+v", d.Armaments)
	}
	if d.Armaments[0].Turret != nil {
		t.Fatalf("期望鱼雷为固定安装")
	}
	if got := Type("mark18").Data().Reload; got != 80 {
		t.Fatalf("期望 mark18 reload=80, got=%d", got)
	}
	if got := d.Sensors.MaxRange(); got != 600 {
		t.Fatalf("期望 MaxRange=600, got=%v", got)
	}
	if Type("nope").Valid() {
		t.Fatalf("期望未知类型无效")
	}
}

func TestCanSpawnAs_按等级与人机限制(t *testing.T) {
	cases := []struct {
		typ  Type
		bot  bool
		want bool
	}{
		{"fairmile", false, true},
		{"fairmile", true, true},
		{"dredger", false, true},
		{"dredger", true, false},
		{"typeviic", false, false},
		{"mark18", false, false},
		{"coin", true, false},
		{"nope", false, false},
	}
	for _, c := range cases {
		if got := c.typ.CanSpawnAs(c.bot); got != c.want {
			t.Fatalf("CanSpawnAs(%s, bot=%v): want=%v got=%v", c.typ, c.bot, c.want, got)
		}
	}
}

func TestCanUpgradeTo_需要下一级且分数足够(t *testing.T) {
	if Type("fairmile").CanUpgradeTo("typeviic", LevelToScore(2)-1, false) {
		t.Fatalf("期望分数不足时不能升级")
	}
	if !Type("fairmile").CanUpgradeTo("typeviic", LevelToScore(2), false) {
		t.Fatalf("期望分数刚好达到时可以升级")
	}
	if Type("fairmile").CanUpgradeTo("kolkata", 10_000, false) {
		t.Fatalf("期望不能跳级")
	}
	if Type("fairmile").CanUpgradeTo("lcs", 10_000, false) {
		t.Fatalf("期望人类不能升级为 npc_only 船")
	}
	if !Type("fairmile").CanUpgradeTo("lcs", 10_000, true) {
		t.Fatalf("期望机器人可以升级为 npc_only 船")
	}
}

func TestLevelToScore(t *testing.T) {
	want := map[uint8]int{0: 0, 1: 0, 2: 30, 3: 80, 4: 150}
	for level, score := range want {
		if got := LevelToScore(level); got != score {
			t.Fatalf("LevelToScore(%d): want=%d got=%d", level, score, got)
		}
	}
}

func TestWithinAzimuth(t *testing.T) {
	tur := Turret{Angle: 0, Azimuth: 1}
	if !tur.WithinAzimuth(mathx.FromRadians(0.9)) {
		t.Fatalf("期望 0.9 在弧内")
	}
	if tur.WithinAzimuth(mathx.FromRadians(-1.1)) {
		t.Fatalf("期望 -1.1 在弧外")
	}
	if !(Turret{Azimuth: math.Pi}).WithinAzimuth(mathx.FromRadians(3)) {
		t.Fatalf("期望 Azimuth>=π 时无限制")
	}
}
