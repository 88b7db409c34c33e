package command

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/sim/sanitize"
)

var AspectRange = sanitize.Range{Min: 0.5, Max: 2.0}

func applyHint(c Hint, p *player.Player) error {
	aspect, err := sanitize.Float(c.Aspect, AspectRange)
	if err != nil {
		return err
	}
	d, release := p.BorrowMut()
	d.Hint = player.Hint{Aspect: aspect}
	release()
	return nil
}
