// Package sanitize 校验客户端传入的浮点数：非有限值拒绝，其余夹到合法区间。
package sanitize

import (
	"math"

	"NavalWar/internal/sim/mathx"
	"NavalWar/modules/kit/errx"
)

const CodeNotFinite errx.Code = "WORLD_FLOAT_NOT_FINITE"

type reason string

func (r reason) ReasonCode() string { return string(r) }

// ReasonNumeric 数值类拒绝。
const ReasonNumeric = reason("NUMERIC")

var ErrNotFinite = errx.NewBiz(CodeNotFinite, "float not finite").WithReason(ReasonNumeric)

// Range 闭区间 [Min, Max]。
type Range struct {
	Min, Max float64
}

func Symmetric(extent float64) Range {
	return Range{Min: -extent, Max: extent}
}

// Float 非有限值返回 ErrNotFinite，否则夹到 valid 内。
func Float(v float64, valid Range) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return math.Min(math.Max(v, valid.Min), valid.Max), nil
}

// Vec2 逐分量 Float，遇到第一个非有限分量即返回。
func Vec2(v mathx.Vec2, valid Range) (mathx.Vec2, error) {
	x, err := Float(v.X, valid)
	if err != nil {
		return mathx.Vec2{}, err
	}
	y, err := Float(v.Y, valid)
	if err != nil {
		return mathx.Vec2{}, err
	}
	return mathx.Vec2{X: x, Y: y}, nil
}
