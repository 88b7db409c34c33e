package entity

// ScorePersistSnapshot 一个玩家待落库的分数。
type ScorePersistSnapshot struct {
	Version  uint64
	PlayerID PlayerID
	Bot      bool
	Score    int
}

// ScoreBatch 一次 flush 产生的全部脏玩家。
type ScoreBatch struct {
	Version uint64
	Scores  []ScorePersistSnapshot
}
