package command

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/gameconfig/entitytype"
	"NavalWar/internal/sim/sanitize"
	"NavalWar/internal/world/entity"
)

const (
	// CoinValue 一枚金币的价值。
	CoinValue = 10
	// PayWithdraw 支付只有一半效率，扣两倍。
	PayWithdraw = CoinValue * 2
	// coinSearchRadius 金币放置允许的微小挪动。
	coinSearchRadius = 1.0
)

func applyPay(c Pay, w *entity.World, p *player.Player) error {
	position, err := sanitize.Vec2(c.Position, sanitize.Symmetric(2*w.Radius))
	if err != nil {
		return err
	}

	d, release := p.BorrowMut()
	defer release()

	_, e, err := controlled(d, w)
	if err != nil {
		return err
	}
	data := e.Data()
	_, outer := data.Radii()
	if position.DistanceSquared(e.Transform.Position) > outer*outer {
		return ErrPayTooFar
	}
	if d.Score < entitytype.LevelToScore(data.Level)+PayWithdraw {
		return ErrInsufficientFunds
	}

	// 金币不是船，放置时不会借用任何玩家
	coin := entity.New(entitytype.Coin, entity.Transform{Position: position}, e.Player)
	if _, ok := w.SpawnHereOrNearby(coin, coinSearchRadius, nil); ok {
		d.Score -= PayWithdraw
	}
	return nil
}
