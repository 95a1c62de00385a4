// Package types contains the read shapes rendered by the board surfaces.
package types

import "github.com/okian/arena/internal/domain/model"

// SlotView is everything a client needs to paint one slot.
type SlotView struct {
	Group        string            `json:"group"`
	Index        int               `json:"index"`
	Filled       bool              `json:"filled"`
	Record       *model.SlotRecord `json:"record,omitempty"`
	Score        int               `json:"score,omitempty"`
	DisplayScore string            `json:"display_score,omitempty"`
	Rank         int               `json:"rank,omitempty"`
	RankLabel    string            `json:"rank_label,omitempty"`
	StyleLabel   string            `json:"style_label,omitempty"`
	Ace          bool              `json:"ace,omitempty"`
}

// GroupView is one group's slots in render order.
type GroupView struct {
	Group string     `json:"group"`
	Slots []SlotView `json:"slots"`
}

// BoardView is the full board.
type BoardView struct {
	Groups []GroupView `json:"groups"`
	Filled int         `json:"filled"`
}

// RankView is one row of the global ranking.
type RankView struct {
	Rank  int    `json:"rank"`
	Group string `json:"group"`
	Index int    `json:"index"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}
