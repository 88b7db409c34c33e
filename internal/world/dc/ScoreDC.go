package dc

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/world/app/port"
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"
)

const (
	defaultFlushEvery = 3000 * time.Millisecond
	retryBackoff      = 200 * time.Millisecond
)

// ScoreDC 分数数据中心：世界 actor 定时收集脏玩家，写库在独立 goroutine 里完成。
type ScoreDC struct {
	repo       port.ScoreRepository
	flushEvery time.Duration

	mu      sync.Mutex
	pending map[player.PlayerID]player.ScorePersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewScoreDC(repo port.ScoreRepository, flushEvery time.Duration) *ScoreDC {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	d := &ScoreDC{
		repo:       repo,
		flushEvery: flushEvery,
		pending:    make(map[player.PlayerID]player.ScorePersistSnapshot),
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load 恢复玩家分数，恢复后的记录不算脏。
func (d *ScoreDC) Load(ctx context.Context, p *player.Player) error {
	if d.repo == nil {
		return errors.New("score repository is nil")
	}
	score, err := d.repo.LoadScore(ctx, p.ID())
	if err != nil {
		return err
	}
	p.Restore(score)
	return nil
}

// Collect 玩家有未落库的分数时生成快照并入队。
func (d *ScoreDC) Collect(p *player.Player) bool {
	if d.repo == nil || p == nil {
		return false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := p.BuildPersistSnapshot(version)
	if !ok {
		return false
	}
	p.ClearDirty()
	d.enqueue([]player.ScorePersistSnapshot{*s})
	return true
}

// Flush 收集注册表里所有脏玩家，返回入队数量。
func (d *ScoreDC) Flush(reg *player.Registry) int {
	if d.repo == nil || reg == nil {
		return 0
	}
	n := 0
	reg.ForEach(func(p *player.Player) {
		if d.Collect(p) {
			n++
		}
	})
	return n
}

func (d *ScoreDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Pending 尚未写库的玩家数。
func (d *ScoreDC) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *ScoreDC) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue 同一玩家只保留版本最高的快照。
func (d *ScoreDC) enqueue(list []player.ScorePersistSnapshot) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	for _, s := range list {
		if cur, ok := d.pending[s.PlayerID]; !ok || cur.Version < s.Version {
			d.pending[s.PlayerID] = s
		}
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *ScoreDC) popPending() []player.ScorePersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return nil
	}
	list := slices.Collect(maps.Values(d.pending))
	clear(d.pending)
	slices.SortFunc(list, func(a, b player.ScorePersistSnapshot) int {
		return int(a.PlayerID) - int(b.PlayerID)
	})
	return list
}

func (d *ScoreDC) requeueOnError(list []player.ScorePersistSnapshot) {
	d.mu.Lock()
	for _, s := range list {
		if cur, ok := d.pending[s.PlayerID]; !ok || cur.Version < s.Version {
			d.pending[s.PlayerID] = s
		}
	}
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return
	}

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *ScoreDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending 关闭后只再尝试一次，仍失败的快照丢弃。
func (d *ScoreDC) consumePending(final bool) {
	for {
		list := d.popPending()
		if len(list) == 0 {
			return
		}
		if err := d.repo.SaveScores(context.TODO(), list); err != nil {
			if final {
				return
			}
			// 写库失败时重排；若期间已有更新快照，会被更高 version 覆盖。
			d.requeueOnError(list)
			select {
			case <-d.stop:
				final = true
			case <-time.After(retryBackoff):
			}
			continue
		}
	}
}
