// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySeparator joins group and index in the persisted "<group>-<index>" form.
const KeySeparator = "-"

// Style is a racing-strategy tag with a fixed sort precedence.
type Style string

// Known styles, in sort precedence order.
const (
	StyleEscape  Style = "escape"
	StyleLeading Style = "leading"
	StyleBetween Style = "between"
	StyleChasing Style = "chasing"
)

var styleOrder = map[Style]int{
	StyleEscape:  0,
	StyleLeading: 1,
	StyleBetween: 2,
	StyleChasing: 3,
}

var styleLabels = map[Style]string{
	StyleEscape:  "逃げ",
	StyleLeading: "先行",
	StyleBetween: "差し",
	StyleChasing: "追込",
}

// ParseStyle maps loose input onto a known style. Unknown values yield escape.
func ParseStyle(s string) Style {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := styleOrder[st]; ok {
		return st
	}
	return StyleEscape
}

// Valid reports whether s is one of the known styles.
func (s Style) Valid() bool {
	_, ok := styleOrder[s]
	return ok
}

// Order returns the sort precedence (escape first).
func (s Style) Order() int {
	if o, ok := styleOrder[s]; ok {
		return o
	}
	return 0
}

// Label returns the display label shown on a slot.
func (s Style) Label() string {
	return styleLabels[s]
}

// Rarity selects the unique-skill score table.
type Rarity string

// Known rarities.
const (
	RarityHigh Rarity = "high"
	RarityLow  Rarity = "low"
)

// ParseRarity maps input onto a rarity. Empty input is high; anything that
// is not "high" selects the low table.
func ParseRarity(s string) Rarity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(RarityHigh):
		return RarityHigh
	default:
		return RarityLow
	}
}

// SlotKey identifies one slot position inside a group.
type SlotKey struct {
	Group string
	Index int
}

// String renders the persisted "<group>-<index>" form.
func (k SlotKey) String() string {
	return k.Group + KeySeparator + strconv.Itoa(k.Index)
}

// ParseSlotKey splits a persisted key on its first separator.
func ParseSlotKey(s string) (SlotKey, error) {
	group, idx, ok := strings.Cut(s, KeySeparator)
	if !ok || group == "" {
		return SlotKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return SlotKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return SlotKey{Group: group, Index: n}, nil
}

// SlotRecord is one filled slot. Score is derived and always recomputed.
type SlotRecord struct {
	Name             string  `json:"name"`
	Style            Style   `json:"style"`
	Wisdom           float64 `json:"wisdom"`
	IsAce            bool    `json:"isAce"`
	StartDash        bool    `json:"startDash"`
	UniqueRarity     Rarity  `json:"uniqueRarity"`
	UniqueLevel      int     `json:"uniqueLevel"`
	UniqueActivation float64 `json:"uniqueActivation"`
	GoldSkill        int     `json:"goldSkill"`
	WhiteSkill       int     `json:"whiteSkill"`
	InheritSkill     int     `json:"inheritSkill"`
	Score            int     `json:"score"`
}
