package command

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/world/entity"
)

func applyUpgrade(c Upgrade, w *entity.World, p *player.Player) error {
	d, release := p.BorrowMut()
	alive, e, err := controlled(d, w)
	if err != nil {
		release()
		return err
	}
	if !e.Type.CanUpgradeTo(c.EntityType, d.Score, p.Bot()) {
		release()
		return ErrCannotUpgrade
	}
	d.Flags.Upgraded = true
	release()

	w.ChangeEntityType(alive.EntityIndex, c.EntityType)
	return nil
}
