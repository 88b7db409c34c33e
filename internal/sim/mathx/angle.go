package mathx

import "math"

// Angle 弧度，始终归一化到 [-π, π)。
type Angle float64

const Pi = Angle(math.Pi)

func FromRadians(r float64) Angle {
	return Angle(r).Normalize()
}

// AngleOf 向量方向；零向量返回 0。
func AngleOf(v Vec2) Angle {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return Angle(math.Atan2(v.Y, v.X))
}

func (a Angle) Radians() float64 {
	return float64(a)
}

func (a Angle) Normalize() Angle {
	r := math.Mod(float64(a)+math.Pi, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return Angle(r - math.Pi)
}

func (a Angle) Add(o Angle) Angle {
	return (a + o).Normalize()
}

func (a Angle) Sub(o Angle) Angle {
	return (a - o).Normalize()
}

func (a Angle) Scale(s float64) Angle {
	return Angle(float64(a) * s).Normalize()
}

func (a Angle) Abs() Angle {
	return Angle(math.Abs(float64(a.Normalize())))
}

// Vec 单位方向向量。
func (a Angle) Vec() Vec2 {
	sin, cos := math.Sincos(float64(a))
	return Vec2{X: cos, Y: sin}
}
