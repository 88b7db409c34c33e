package model

import (
	player "NavalWar/internal/player/entity"
	"time"
)

// model
type Score struct {
	PlayerID  int       `gorm:"column:player_id;type:int;comment:玩家id;primaryKey;not null;" json:"player_id"`
	Score     int       `gorm:"column:score;type:int;comment:分数;not null;default:0;" json:"score"`
	Bot       bool      `gorm:"column:bot;type:tinyint(1);comment:是否机器人;not null;default:0;" json:"bot"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;comment:快照版本;not null;default:0;" json:"version"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (m *Score) TableName() string {
	return "player_score"
}

// ScoreDoc mongodb 文档，_id 即玩家 id。
type ScoreDoc struct {
	PlayerID  int       `bson:"_id"`
	Score     int       `bson:"score"`
	Bot       bool      `bson:"bot"`
	Version   uint64    `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func SnapshotToScore(s player.ScorePersistSnapshot, now time.Time) Score {
	return Score{
		PlayerID:  int(s.PlayerID),
		Score:     s.Score,
		Bot:       s.Bot,
		Version:   s.Version,
		UpdatedAt: now,
	}
}

func SnapshotToDoc(s player.ScorePersistSnapshot, now time.Time) ScoreDoc {
	return ScoreDoc{
		PlayerID:  int(s.PlayerID),
		Score:     s.Score,
		Bot:       s.Bot,
		Version:   s.Version,
		UpdatedAt: now,
	}
}
