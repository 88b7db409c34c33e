// Package terrain 以世界原点为中心的高度网格。地形生成不在这里，只提供局部修改与碰撞查询。
package terrain

import (
	"math"

	"NavalWar/internal/sim/mathx"
)

const (
	// Scale 每个格子边长（米）。
	Scale = 25.0
	// SeaLevel 高度 >= SeaLevel 视为陆地。
	SeaLevel int16 = 0
	// OceanDepth 未修改格子的默认高度。
	OceanDepth int16 = -40
	// DepositAmount 挖泥船每次倾倒抬高的高度。
	DepositAmount int16 = 12
	MaxHeight     int16 = 60
	// MaxRadius 网格覆盖的最大半径，约 32MB；更远处按深海处理。
	MaxRadius = 50_000.0
)

type Grid struct {
	size    int // 每边格子数
	heights []int16
}

// New 覆盖半径 radius 的网格，初始全部为海。radius 超过 MaxRadius 时按 MaxRadius 建。
func New(radius float64) *Grid {
	if !(radius >= 0) {
		radius = 0
	}
	radius = math.Min(radius, MaxRadius)
	size := int(math.Ceil(2*radius/Scale)) + 1
	heights := make([]int16, size*size)
	for i := range heights {
		heights[i] = OceanDepth
	}
	return &Grid{size: size, heights: heights}
}

func (g *Grid) cell(pos mathx.Vec2) (int, int) {
	half := float64(g.size) / 2
	return int(math.Floor(pos.X/Scale + half)), int(math.Floor(pos.Y/Scale + half))
}

func (g *Grid) center(x, y int) mathx.Vec2 {
	half := float64(g.size) / 2
	return mathx.V((float64(x)-half+0.5)*Scale, (float64(y)-half+0.5)*Scale)
}

func (g *Grid) at(x, y int) (int16, bool) {
	if x < 0 || y < 0 || x >= g.size || y >= g.size {
		return OceanDepth, false
	}
	return g.heights[y*g.size+x], true
}

// Height 网格外视为深海。
func (g *Grid) Height(pos mathx.Vec2) int16 {
	h, _ := g.at(g.cell(pos))
	return h
}

func (g *Grid) IsLand(pos mathx.Vec2) bool {
	return g.Height(pos) >= SeaLevel
}

// each 遍历格子中心落在圆内的格子；圆小于一个格子时至少包含圆心所在格子。
func (g *Grid) each(pos mathx.Vec2, radius float64, fn func(x, y int) bool) {
	cx, cy := g.cell(pos)
	r := int(math.Ceil(radius/Scale)) + 1
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if x < 0 || y < 0 || x >= g.size || y >= g.size {
				continue
			}
			if (x != cx || y != cy) && g.center(x, y).DistanceSquared(pos) > radius*radius {
				continue
			}
			if !fn(x, y) {
				return
			}
		}
	}
}

// Modify 抬高 pos 周围 radius 内的地形。
func (g *Grid) Modify(pos mathx.Vec2, radius float64) {
	g.each(pos, radius, func(x, y int) bool {
		i := y*g.size + x
		g.heights[i] = min(g.heights[i]+DepositAmount, MaxHeight)
		return true
	})
}

// Set 把圆内格子设为指定高度，用于地图生成与测试。
func (g *Grid) Set(pos mathx.Vec2, radius float64, height int16) {
	g.each(pos, radius, func(x, y int) bool {
		g.heights[y*g.size+x] = height
		return true
	})
}

// Collides 圆内是否有陆地。
func (g *Grid) Collides(pos mathx.Vec2, radius float64) bool {
	hit := false
	g.each(pos, radius, func(x, y int) bool {
		if h, _ := g.at(x, y); h >= SeaLevel {
			hit = true
			return false
		}
		return true
	})
	return hit
}
