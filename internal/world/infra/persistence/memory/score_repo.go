package memory

import (
	player "NavalWar/internal/player/entity"
	"context"
	"sync"
)

// ScoreRepository 进程内实现，重启即丢，用于本地调试与测试。
type ScoreRepository struct {
	mu     sync.RWMutex
	scores map[player.PlayerID]player.ScorePersistSnapshot
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{scores: make(map[player.PlayerID]player.ScorePersistSnapshot)}
}

func (r *ScoreRepository) LoadScore(ctx context.Context, id player.PlayerID) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scores[id].Score, nil
}

func (r *ScoreRepository) SaveScores(ctx context.Context, scores []player.ScorePersistSnapshot) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range scores {
		if cur, ok := r.scores[s.PlayerID]; ok && cur.Version > s.Version {
			continue
		}
		r.scores[s.PlayerID] = s
	}
	return nil
}
