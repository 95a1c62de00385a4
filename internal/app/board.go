package service

import (
	"context"
	"fmt"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/ranking"
	"github.com/okian/arena/internal/domain/types"
)

// Board renders every group in configured order with its slots reordered
// for display.
func (s *Service) Board(ctx context.Context) types.BoardView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boardLocked(ctx)
}

// Slot renders a single slot. Empty slots render with Filled false.
func (s *Service) Slot(ctx context.Context, key model.SlotKey) (types.SlotView, error) {
	if !s.inLayout(key) {
		return types.SlotView{}, fmt.Errorf("%w: %s", ErrUnknownSlot, key)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slotLocked(ctx, key), nil
}

// Ranks returns the global ranking, best first.
func (s *Service) Ranks(ctx context.Context) []types.RankView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.store.All(ctx)
	entries := ranking.ComputeRanks(scoredOf(records))
	out := make([]types.RankView, len(entries))
	for i, e := range entries {
		out[i] = types.RankView{
			Rank:  e.Rank,
			Group: e.Key.Group,
			Index: e.Key.Index,
			Name:  records[e.Key].Name,
			Score: e.Score,
		}
	}
	return out
}

func (s *Service) boardLocked(ctx context.Context) types.BoardView {
	ranks := s.rankIndexLocked(ctx)
	view := types.BoardView{Groups: make([]types.GroupView, 0, len(s.order))}
	for _, group := range s.order {
		positions := ranking.ReorderGroup(s.store.Group(ctx, group, s.layout[group]))
		gv := types.GroupView{Group: group, Slots: make([]types.SlotView, len(positions))}
		for i, p := range positions {
			gv.Slots[i] = s.render(model.SlotKey{Group: group, Index: p.Index}, p.Record, ranks)
			if p.Record != nil {
				view.Filled++
			}
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}

func (s *Service) slotLocked(ctx context.Context, key model.SlotKey) types.SlotView {
	rec, err := s.store.Get(ctx, key)
	if err != nil {
		return types.SlotView{Group: key.Group, Index: key.Index}
	}
	return s.render(key, &rec, s.rankIndexLocked(ctx))
}

func (s *Service) rankIndexLocked(ctx context.Context) map[model.SlotKey]int {
	entries := ranking.ComputeRanks(scoredOf(s.store.All(ctx)))
	out := make(map[model.SlotKey]int, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Rank
	}
	return out
}

func (s *Service) render(key model.SlotKey, rec *model.SlotRecord, ranks map[model.SlotKey]int) types.SlotView {
	view := types.SlotView{Group: key.Group, Index: key.Index}
	if rec == nil {
		return view
	}
	rank := ranks[key]
	view.Filled = true
	view.Record = rec
	view.Score = rec.Score
	view.DisplayScore = s.printer.Sprintf("%d pt", rec.Score)
	view.Rank = rank
	view.RankLabel = ranking.RankLabel(rank)
	view.StyleLabel = rec.Style.Label()
	view.Ace = rec.IsAce
	return view
}

func scoredOf(records map[model.SlotKey]model.SlotRecord) []ranking.Scored {
	out := make([]ranking.Scored, 0, len(records))
	for k, r := range records {
		out = append(out, ranking.Scored{Key: k, Score: r.Score})
	}
	return out
}
