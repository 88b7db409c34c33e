package command

import (
	"NavalWar/internal/sim/sanitize"
	"NavalWar/modules/kit/errx"
)

// Reason 拒绝原因的粗分类，ws 层据此映射客户端错误码。
type Reason string

func (r Reason) ReasonCode() string { return string(r) }

const (
	ReasonStatus      Reason = "STATUS"
	ReasonIneligible  Reason = "INELIGIBLE"
	ReasonOutOfBounds Reason = "OUT_OF_BOUNDS"
	ReasonNotReady    Reason = "NOT_READY"
	ReasonGeometry    Reason = "GEOMETRY"
	ReasonNumeric     Reason = Reason(sanitize.ReasonNumeric)
	ReasonCapacity    Reason = "CAPACITY"
)

const (
	CodeNotAlive           errx.Code = "WORLD_NOT_ALIVE"
	CodeAlreadyAlive       errx.Code = "WORLD_ALREADY_ALIVE"
	CodeEntityMissing      errx.Code = "WORLD_ENTITY_MISSING"
	CodeCannotSpawnAs      errx.Code = "WORLD_CANNOT_SPAWN_AS"
	CodeCannotUpgrade      errx.Code = "WORLD_CANNOT_UPGRADE"
	CodeSubmerged          errx.Code = "WORLD_SUBMERGED"
	CodeJustUpgraded       errx.Code = "WORLD_JUST_UPGRADED"
	CodeArmamentIndex      errx.Code = "WORLD_ARMAMENT_INDEX"
	CodeNotReloaded        errx.Code = "WORLD_NOT_RELOADED"
	CodeTurretAzimuth      errx.Code = "WORLD_TURRET_AZIMUTH"
	CodeOutsideRange       errx.Code = "WORLD_OUTSIDE_RANGE"
	CodePayTooFar          errx.Code = "WORLD_PAY_TOO_FAR"
	CodeInsufficientFunds  errx.Code = "WORLD_INSUFFICIENT_FUNDS"
	CodeNoSpawnSpace       errx.Code = "WORLD_NO_SPAWN_SPACE"
	CodeFireBlocked        errx.Code = "WORLD_FIRE_BLOCKED"
	CodeUnsupportedCommand errx.Code = "WORLD_UNSUPPORTED_COMMAND"
)

var (
	// 状态
	ErrNotAlive      = errx.NewBiz(CodeNotAlive, "cannot do this while not alive").WithReason(ReasonStatus)
	ErrAlreadyAlive  = errx.NewBiz(CodeAlreadyAlive, "cannot spawn while already alive").WithReason(ReasonStatus)
	ErrEntityMissing = errx.NewBiz(CodeEntityMissing, "controlled entity missing").WithReason(ReasonStatus)

	// 类型资格
	ErrCannotSpawnAs = errx.NewBiz(CodeCannotSpawnAs, "cannot spawn as given entity type").WithReason(ReasonIneligible)
	ErrCannotUpgrade = errx.NewBiz(CodeCannotUpgrade, "cannot upgrade to provided entity type").WithReason(ReasonIneligible)
	ErrSubmerged     = errx.NewBiz(CodeSubmerged, "cannot fire provided armament while submerged").WithReason(ReasonIneligible)

	ErrArmamentIndex = errx.NewBiz(CodeArmamentIndex, "armament index out of bounds").WithReason(ReasonOutOfBounds)

	ErrJustUpgraded = errx.NewBiz(CodeJustUpgraded, "cannot fire right after upgrading").WithReason(ReasonNotReady)
	ErrNotReloaded  = errx.NewBiz(CodeNotReloaded, "armament not yet reloaded").WithReason(ReasonNotReady)

	// 几何
	ErrTurretAzimuth     = errx.NewBiz(CodeTurretAzimuth, "invalid turret azimuth").WithReason(ReasonGeometry)
	ErrOutsideRange      = errx.NewBiz(CodeOutsideRange, "outside maximum range").WithReason(ReasonGeometry)
	ErrPayTooFar         = errx.NewBiz(CodePayTooFar, "position is too far away to pay").WithReason(ReasonGeometry)
	ErrInsufficientFunds = errx.NewBiz(CodeInsufficientFunds, "insufficient funds").WithReason(ReasonGeometry)

	// 容量
	ErrNoSpawnSpace = errx.NewBiz(CodeNoSpawnSpace, "failed to find enough space to spawn").WithReason(ReasonCapacity)
	ErrFireBlocked  = errx.NewBiz(CodeFireBlocked, "failed to fire from current location").WithReason(ReasonCapacity)

	ErrUnsupportedCommand = errx.NewBiz(CodeUnsupportedCommand, "unsupported command").WithReason(ReasonIneligible)

	ErrNotFinite = sanitize.ErrNotFinite
)
