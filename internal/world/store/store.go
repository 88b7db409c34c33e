// Package store 实体存储：slot map + 代数校验。
//
// 槽位在删除后复用，每次复用代数 +1，旧 Index 失效而不是悄悄指向新实体。
package store

import (
	"context"
	"errors"
	"iter"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Index 稳定句柄，零值永远无效。
type Index struct {
	slot uint32
	gen  uint32
}

func (i Index) Slot() uint32 {
	return i.slot
}

func (i Index) IsZero() bool {
	return i.gen == 0
}

type entry[T any] struct {
	gen  uint32
	live bool
	val  T
}

type Store[T any] struct {
	entries []entry[T]
	free    []uint32
	len     int
}

func New[T any]() *Store[T] {
	return &Store[T]{}
}

func (s *Store[T]) Len() int {
	return s.len
}

// Insert 优先复用空闲槽位。
func (s *Store[T]) Insert(v T) Index {
	s.len++
	if n := len(s.free); n > 0 {
		slot := s.free[n-1]
		s.free = s.free[:n-1]
		e := &s.entries[slot]
		e.gen++
		e.live = true
		e.val = v
		return Index{slot: slot, gen: e.gen}
	}
	s.entries = append(s.entries, entry[T]{gen: 1, live: true, val: v})
	return Index{slot: uint32(len(s.entries) - 1), gen: 1}
}

func (s *Store[T]) Get(i Index) (T, bool) {
	if e := s.lookup(i); e != nil {
		return e.val, true
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Contains(i Index) bool {
	return s.lookup(i) != nil
}

func (s *Store[T]) Remove(i Index) (T, bool) {
	e := s.lookup(i)
	var zero T
	if e == nil {
		return zero, false
	}
	v := e.val
	e.live = false
	e.val = zero
	s.free = append(s.free, i.slot)
	s.len--
	return v, true
}

func (s *Store[T]) lookup(i Index) *entry[T] {
	if i.gen == 0 || int(i.slot) >= len(s.entries) {
		return nil
	}
	e := &s.entries[i.slot]
	if !e.live || e.gen != i.gen {
		return nil
	}
	return e
}

// All 按槽位顺序遍历存活实体。遍历期间不能 Insert/Remove。
func (s *Store[T]) All() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		for slot := range s.entries {
			e := &s.entries[slot]
			if !e.live {
				continue
			}
			if !yield(Index{slot: uint32(slot), gen: e.gen}, e.val) {
				return
			}
		}
	}
}

// 实体数低于该值时直接串行扫描，起 goroutine 不划算。
const parallelThreshold = 512

var errFound = errors.New("store: found")

// FindAny 并行只读扫描，返回任意一个满足 pred 的实体。
//
// 多个 worker 同时命中时谁先写入谁赢，结果顺序不稳定。pred 必须只读，
// 调用方需保证扫描期间没有写者（世界 actor 单写）。
func (s *Store[T]) FindAny(ctx context.Context, pred func(Index, T) bool) (Index, T, bool) {
	var zero T
	if s.len == 0 {
		return Index{}, zero, false
	}
	if s.len < parallelThreshold {
		for i, v := range s.All() {
			if pred(i, v) {
				return i, v, true
			}
		}
		return Index{}, zero, false
	}

	var (
		once  sync.Once
		found Index
		val   T
	)
	g, gctx := errgroup.WithContext(ctx)
	shards := runtime.GOMAXPROCS(0)
	size := (len(s.entries) + shards - 1) / shards
	for start := 0; start < len(s.entries); start += size {
		end := min(start+size, len(s.entries))
		g.Go(func() error {
			for slot := start; slot < end; slot++ {
				if slot%64 == 0 && gctx.Err() != nil {
					return nil
				}
				e := &s.entries[slot]
				if !e.live {
					continue
				}
				idx := Index{slot: uint32(slot), gen: e.gen}
				if pred(idx, e.val) {
					once.Do(func() {
						found, val = idx, e.val
					})
					return errFound
				}
			}
			return nil
		})
	}
	if err := g.Wait(); errors.Is(err, errFound) {
		return found, val, true
	}
	return Index{}, zero, false
}
