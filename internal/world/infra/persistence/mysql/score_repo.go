package mysql

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/world/infra/persistence/model"
	"NavalWar/modules/kit/errx"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	OpLoadScore  = "repo.score.LoadScore"
	OpSaveScores = "repo.score.SaveScores"
)

type ScoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) WithTx(tx *gorm.DB) *ScoreRepository {
	return &ScoreRepository{db: tx}
}

// AutoMigrate 建表，启动时调用一次。
func (r *ScoreRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&model.Score{})
}

func (r *ScoreRepository) LoadScore(ctx context.Context, id player.PlayerID) (int, error) {
	var m model.Score
	err := r.db.WithContext(ctx).Where("player_id = ?", int(id)).First(&m).Error

	switch {
	case err == nil:
		return m.Score, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, nil
	default:
		// 纯技术错误（连接超时等），包装后交给上级
		return 0, errx.ErrUnavailable.WithCause(err).WithData("op", OpLoadScore).WithData("player_id", int(id))
	}
}

func (r *ScoreRepository) SaveScores(ctx context.Context, scores []player.ScorePersistSnapshot) error {
	if len(scores) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]model.Score, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, model.SnapshotToScore(s, now))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "bot", "version", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return errx.ErrUnavailable.WithCause(err).WithData("op", OpSaveScores).WithData("count", len(scores))
	}
	return nil
}
