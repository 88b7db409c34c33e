package command

import (
	"context"

	player "NavalWar/internal/player/entity"
	"NavalWar/internal/shared/gameconfig/entitytype"
	"NavalWar/internal/sim/mathx"
	"NavalWar/internal/world/entity"
	"NavalWar/internal/world/store"
)

// AllySpawnMargin 在队友附近出生时，搜索半径比队友船半径多出的距离。
const AllySpawnMargin = 100.0

func applySpawn(c Spawn, w *entity.World, p *player.Player) error {
	d, release := p.Borrow()
	status := d.Status
	team := d.TeamID
	var inviter player.PlayerID
	if d.Invitation != nil {
		inviter = d.Invitation.Inviter
	}
	release()

	if _, alive := status.(player.Alive); alive {
		return ErrAlreadyAlive
	}
	if !c.EntityType.CanSpawnAs(p.Bot()) {
		return ErrCannotSpawnAs
	}

	var exclusion *mathx.Vec2
	if dead, ok := status.(player.Dead); ok && c.EntityType.Data().Kind == entitytype.KindBoat {
		if zone, ok := dead.ExclusionZone(w.Now()); ok {
			exclusion = &zone
		}
	}

	position, radius := mathx.Zero, w.Radius
	if team != 0 || inviter != 0 {
		_, ally, ok := w.FindBoat(context.Background(), func(_ store.Index, e *entity.Entity) bool {
			if !isAlly(e.Player, p, team, inviter) {
				return false
			}
			return exclusion == nil || e.Transform.Position.Distance(*exclusion) >= entity.ExclusionRadius
		})
		if ok {
			position = ally.Transform.Position
			radius = ally.Data().Radius() + AllySpawnMargin
		}
	}

	boat := entity.New(c.EntityType, entity.Transform{Position: position}, p)
	index, ok := w.SpawnHereOrNearby(boat, radius, exclusion)
	if !ok {
		return ErrNoSpawnSpace
	}

	d, release = p.BorrowMut()
	d.Status = player.Alive{EntityIndex: index}
	release()
	return nil
}

// isAlly 在并行扫描里调用，只做共享借用。
func isAlly(owner, self *player.Player, team player.TeamID, inviter player.PlayerID) bool {
	if owner == nil || owner == self {
		return false
	}
	if inviter != 0 && owner.ID() == inviter {
		return true
	}
	if team == 0 {
		return false
	}
	d, release := owner.Borrow()
	defer release()
	return d.TeamID == team
}
