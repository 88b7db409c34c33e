package port

import (
	player "NavalWar/internal/player/entity"
	"context"
)

// ScoreRepository 玩家分数的持久化。LoadScore 对不存在的玩家返回 0。
type ScoreRepository interface {
	LoadScore(ctx context.Context, id player.PlayerID) (int, error)
	SaveScores(ctx context.Context, scores []player.ScorePersistSnapshot) error
}
