package handler

import (
	"NavalWar/internal/shared/actor/messages"
	"NavalWar/internal/shared/session"
	"NavalWar/internal/world/command"
	"context"
)

// Runtime 世界 actor 对外的入口，生产环境是 actor.Runtime。
type Runtime interface {
	Enter(ctx context.Context, playerID int, bot bool) (int, error)
	Leave(ctx context.Context, playerID int) error
	Apply(ctx context.Context, playerID int, cmd command.Command) error
	Stats(ctx context.Context) (messages.WHStats, error)
}

type World struct {
	Runtime Runtime
	Session session.Manager
}

func NewWorld(rt Runtime, sess session.Manager) *World {
	return &World{Runtime: rt, Session: sess}
}
