package mongodb

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/world/infra/persistence/model"
	"NavalWar/modules/kit/errx"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "score"

const (
	OpLoadScore  = "repo.score.LoadScore"
	OpSaveScores = "repo.score.SaveScores"
)

var errNilCollection = errors.New("mongodb score collection is nil")

type ScoreRepository struct {
	coll *mongo.Collection
}

func NewScoreRepository(db *mongo.Database) *ScoreRepository {
	if db == nil {
		return &ScoreRepository{}
	}
	return &ScoreRepository{coll: db.Collection(defaultCollectionName)}
}

func (r *ScoreRepository) LoadScore(ctx context.Context, id player.PlayerID) (int, error) {
	if r == nil || r.coll == nil {
		return 0, wrap(OpLoadScore, errNilCollection)
	}

	var doc model.ScoreDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": int(id)}).Decode(&doc)
	switch {
	case err == nil:
		return doc.Score, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return 0, nil
	default:
		return 0, wrap(OpLoadScore, err).WithData("player_id", int(id))
	}
}

func (r *ScoreRepository) SaveScores(ctx context.Context, scores []player.ScorePersistSnapshot) error {
	if len(scores) == 0 {
		return nil
	}
	if r == nil || r.coll == nil {
		return wrap(OpSaveScores, errNilCollection)
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(scores))
	for _, s := range scores {
		doc := model.SnapshotToDoc(s, now)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.PlayerID}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	if _, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return wrap(OpSaveScores, err).WithData("count", len(scores))
	}
	return nil
}

func wrap(op string, err error) *errx.Error {
	return errx.ErrUnavailable.WithCause(err).WithData("op", op)
}
