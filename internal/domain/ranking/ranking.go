// Package ranking orders filled slots globally by score and locally within a group.
package ranking

import (
	"fmt"
	"slices"
	"sort"

	"github.com/okian/arena/internal/domain/model"
)

// Scored is one filled slot as seen by the ranking pass.
type Scored struct {
	Key   model.SlotKey
	Score int
}

// RankedEntry is a scored slot with its competition rank.
type RankedEntry struct {
	Key   model.SlotKey `json:"-"`
	Score int           `json:"score"`
	Rank  int           `json:"rank"`
}

// ComputeRanks sorts entries by score descending and assigns competition
// ranks: tied scores share the rank of the first tied position and the next
// distinct score takes its own 1-based position (500, 500, 300 -> 1, 1, 3).
// Ties are ordered by key so output is deterministic.
func ComputeRanks(in []Scored) []RankedEntry {
	out := make([]RankedEntry, len(in))
	for i, s := range in {
		out[i] = RankedEntry{Key: s.Key, Score: s.Score}
	}
	sortEntries(out)
	assignCompetitionRanks(out)
	return out
}

// RankLabel renders the global rank shown on a slot.
func RankLabel(rank int) string {
	return fmt.Sprintf("全体 %d位", rank)
}

// sortEntries orders by score desc, then group asc, then index asc.
func sortEntries(entries []RankedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Key.Group != entries[j].Key.Group {
			return entries[i].Key.Group < entries[j].Key.Group
		}
		return entries[i].Key.Index < entries[j].Key.Index
	})
}

func assignCompetitionRanks(entries []RankedEntry) {
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// Position is one fixed slot of a group. Record is nil for an empty slot.
type Position struct {
	Index  int
	Record *model.SlotRecord
}

// ReorderGroup returns the group's positions in render order: filled before
// empty, the ace first, then style precedence, then original index. Empty
// positions keep their relative order. The input slice is not modified.
func ReorderGroup(positions []Position) []Position {
	out := make([]Position, len(positions))
	copy(out, positions)
	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i], out[j])
	})
	return out
}

func before(a, b Position) bool {
	switch {
	case a.Record == nil && b.Record == nil:
		return false
	case a.Record == nil:
		return false
	case b.Record == nil:
		return true
	}
	if a.Record.IsAce != b.Record.IsAce {
		return a.Record.IsAce
	}
	if d := a.Record.Style.Order() - b.Record.Style.Order(); d != 0 {
		return d < 0
	}
	return a.Index < b.Index
}

// OrderGroups lists every group in layout: the ids named in order first,
// once each and only if present, then the rest alphabetically.
func OrderGroups(layout map[string]int, order []string) []string {
	out := make([]string, 0, len(layout))
	seen := make(map[string]bool, len(layout))
	for _, id := range order {
		if _, ok := layout[id]; ok && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	rest := make([]string, 0, len(layout)-len(out))
	for id := range layout {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}
