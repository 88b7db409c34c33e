package entity

import (
	"sync"

	"NavalWar/internal/sim/mathx"
)

type PlayerID int

type TeamID int

// Invitation 待接受的组队邀请。
type Invitation struct {
	Inviter PlayerID
	TeamID  TeamID
}

type Hint struct {
	Aspect float64
}

// Flags 只在当前 tick 有效，世界 tick 结束时清掉。
type Flags struct {
	Upgraded bool
}

// Data 玩家的可变部分，只能在借用期间读写。
type Data struct {
	TeamID     TeamID // 0 表示无队伍
	Invitation *Invitation
	Score      int
	Hint       Hint
	Flags      Flags
	Status     Status
}

const DefaultAspect = 1.0

// Player 玩家记录。实体通过 *Player 共享持有，炮弹可以比发射它的船活得更久。
type Player struct {
	id  PlayerID
	bot bool

	mu    sync.RWMutex
	data  Data
	saved int
}

func New(id PlayerID, bot bool) *Player {
	return &Player{
		id:  id,
		bot: bot,
		data: Data{
			Hint:   Hint{Aspect: DefaultAspect},
			Status: Spawning{},
		},
	}
}

func (p *Player) ID() PlayerID {
	return p.id
}

func (p *Player) Bot() bool {
	return p.bot
}

// Borrow 共享借用。持有期间不能再调用同一玩家的 BorrowMut，否则死锁。
func (p *Player) Borrow() (*Data, func()) {
	p.mu.RLock()
	return &p.data, p.mu.RUnlock
}

// BorrowMut 独占借用。调用方必须在任何可能再次借用该玩家的调用之前 release。
func (p *Player) BorrowMut() (*Data, func()) {
	p.mu.Lock()
	return &p.data, p.mu.Unlock
}

// Snapshot 拷贝一份当前数据，指针字段也一并复制。
func (p *Player) Snapshot() Data {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d := p.data
	if d.Invitation != nil {
		inv := *d.Invitation
		d.Invitation = &inv
	}
	if a, ok := d.Status.(Alive); ok && a.AimTarget != nil {
		aim := *a.AimTarget
		a.AimTarget = &aim
		d.Status = a
	}
	return d
}

// AliveIndex 受控实体句柄，未存活返回 false。
func (d *Data) AliveIndex() (Alive, bool) {
	a, ok := d.Status.(Alive)
	return a, ok
}

func (d *Data) SetAimTarget(aim *mathx.Vec2) {
	if a, ok := d.Status.(Alive); ok {
		a.AimTarget = aim
		d.Status = a
	}
}

func (p *Player) Dirty() bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data.Score != p.saved
}

// ClearDirty 以当前分数为已落库基准。
func (p *Player) ClearDirty() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.saved = p.data.Score
	p.mu.Unlock()
}

// Restore 从持久层恢复分数，不算脏。
func (p *Player) Restore(score int) {
	p.mu.Lock()
	p.data.Score = score
	p.saved = score
	p.mu.Unlock()
}

func (p *Player) BuildPersistSnapshot(version uint64) (*ScorePersistSnapshot, bool) {
	if p == nil {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.data.Score == p.saved {
		return nil, false
	}
	return &ScorePersistSnapshot{
		Version:  version,
		PlayerID: p.id,
		Bot:      p.bot,
		Score:    p.data.Score,
	}, true
}
