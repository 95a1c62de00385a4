package model

import "strings"

// Draft is a partially filled slot record as supplied by a form submission
// or a stored snapshot. Nil fields take their value from Defaults.
type Draft struct {
	Name             *string  `json:"name,omitempty"`
	Style            *string  `json:"style,omitempty"`
	Wisdom           *float64 `json:"wisdom,omitempty"`
	IsAce            *bool    `json:"isAce,omitempty"`
	StartDash        *bool    `json:"startDash,omitempty"`
	UniqueRarity     *string  `json:"uniqueRarity,omitempty"`
	UniqueLevel      *int     `json:"uniqueLevel,omitempty"`
	UniqueActivation *float64 `json:"uniqueActivation,omitempty"`
	GoldSkill        *int     `json:"goldSkill,omitempty"`
	WhiteSkill       *int     `json:"whiteSkill,omitempty"`
	InheritSkill     *int     `json:"inheritSkill,omitempty"`
}

// UnnamedPlaceholder is shown for records saved without a name.
const UnnamedPlaceholder = "（未設定）"

// Defaults enumerates the value used for every absent Draft field.
var Defaults = SlotRecord{
	Name:             UnnamedPlaceholder,
	Style:            StyleEscape,
	Wisdom:           0,
	IsAce:            false,
	StartDash:        false,
	UniqueRarity:     RarityHigh,
	UniqueLevel:      4,
	UniqueActivation: 0,
	GoldSkill:        0,
	WhiteSkill:       0,
	InheritSkill:     0,
}

// Normalize produces a fully populated record from d. The returned Score is
// zero; callers compute it.
func Normalize(d Draft) SlotRecord {
	r := Defaults
	if d.Name != nil && strings.TrimSpace(*d.Name) != "" {
		r.Name = *d.Name
	}
	if d.Style != nil {
		r.Style = ParseStyle(*d.Style)
	}
	if d.Wisdom != nil {
		r.Wisdom = nonNegative(*d.Wisdom)
	}
	if d.IsAce != nil {
		r.IsAce = *d.IsAce
	}
	if d.StartDash != nil {
		r.StartDash = *d.StartDash
	}
	if d.UniqueRarity != nil {
		r.UniqueRarity = ParseRarity(*d.UniqueRarity)
	}
	if d.UniqueLevel != nil {
		r.UniqueLevel = *d.UniqueLevel
	}
	if d.UniqueActivation != nil {
		r.UniqueActivation = nonNegative(*d.UniqueActivation)
	}
	if d.GoldSkill != nil {
		r.GoldSkill = max(*d.GoldSkill, 0)
	}
	if d.WhiteSkill != nil {
		r.WhiteSkill = max(*d.WhiteSkill, 0)
	}
	if d.InheritSkill != nil {
		r.InheritSkill = max(*d.InheritSkill, 0)
	}
	r.Score = 0
	return r
}

// DraftOf converts a complete record back into a draft with every field set.
func DraftOf(r SlotRecord) Draft {
	style := string(r.Style)
	rarity := string(r.UniqueRarity)
	return Draft{
		Name:             &r.Name,
		Style:            &style,
		Wisdom:           &r.Wisdom,
		IsAce:            &r.IsAce,
		StartDash:        &r.StartDash,
		UniqueRarity:     &rarity,
		UniqueLevel:      &r.UniqueLevel,
		UniqueActivation: &r.UniqueActivation,
		GoldSkill:        &r.GoldSkill,
		WhiteSkill:       &r.WhiteSkill,
		InheritSkill:     &r.InheritSkill,
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}
