package service

import (
	"context"
	"sync"

	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/metrics"
)

// subscribers fans board updates out to listeners. Each listener holds at
// most one pending view; a newer view replaces an unread one.
type subscribers struct {
	mu   sync.Mutex
	next uint64
	set  map[uint64]chan types.BoardView
}

func newSubscribers() *subscribers {
	return &subscribers{set: make(map[uint64]chan types.BoardView)}
}

func (s *subscribers) add() (uint64, chan types.BoardView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	ch := make(chan types.BoardView, 1)
	s.set[id] = ch
	return id, ch
}

func (s *subscribers) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.set[id]; ok {
		delete(s.set, id)
		close(ch)
	}
}

func (s *subscribers) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.set {
		delete(s.set, id)
		close(ch)
	}
}

func (s *subscribers) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.set)
}

func (s *subscribers) broadcast(view types.BoardView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.set {
		select {
		case ch <- view:
			continue
		default:
		}
		// Drop the stale view and retry once; nobody else sends on ch.
		select {
		case <-ch:
			metrics.RecordFeedDrop()
		default:
		}
		select {
		case ch <- view:
		default:
		}
	}
	metrics.RecordFeedBroadcast()
}

// Subscribe returns a channel that receives the board after every change,
// and a cancel func that closes it. Only the latest unread board is kept.
func (s *Service) Subscribe() (<-chan types.BoardView, func()) {
	id, ch := s.subs.add()
	var once sync.Once
	return ch, func() { once.Do(func() { s.subs.remove(id) }) }
}

func (s *Service) publishLocked(ctx context.Context) {
	if s.subs.len() == 0 {
		return
	}
	s.subs.broadcast(s.boardLocked(ctx))
}
