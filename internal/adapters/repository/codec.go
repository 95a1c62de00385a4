package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/arena/internal/domain/model"
)

// wrapperField is the optional envelope key older snapshots nest slots under.
const wrapperField = "slots"

// Scorer recomputes a record's score.
type Scorer interface {
	Apply(rec model.SlotRecord) model.SlotRecord
}

// Decoded is the result of reading a snapshot.
type Decoded struct {
	Records map[model.SlotKey]model.SlotRecord
	// Extras holds separator keyed entries that are not usable slots, such
	// as a non-numeric index or a non-object value. They are kept verbatim so
	// the next write carries them forward.
	Extras map[string]json.RawMessage
	// Skipped lists keys without a separator. They are dropped.
	Skipped []string
}

// EncodeSnapshot writes records in the flat "<group>-<index>" mapping form.
// extras are merged in verbatim; a record wins over an extra with the same key.
func EncodeSnapshot(records map[model.SlotKey]model.SlotRecord, extras map[string]json.RawMessage) ([]byte, error) {
	flat := make(map[string]json.RawMessage, len(records)+len(extras))
	for k, raw := range extras {
		flat[k] = raw
	}
	for k, v := range records {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		flat[k.String()] = b
	}
	b, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot reads a flat mapping or a {"slots": {...}} envelope. Every
// field defaults independently and scores are recomputed with scorer; stored
// scores are ignored. Keys without a separator are skipped; other entries that
// cannot become a record land in Extras. Malformed JSON yields
// ErrMalformedSnapshot and no records.
func DecodeSnapshot(data []byte, scorer Scorer) (Decoded, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	entries := top
	if raw, ok := top[wrapperField]; ok && isObject(raw) {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			return Decoded{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		entries = nested
	}

	out := Decoded{
		Records: make(map[model.SlotKey]model.SlotRecord, len(entries)),
		Extras:  make(map[string]json.RawMessage),
	}
	for name, raw := range entries {
		if !strings.Contains(name, model.KeySeparator) {
			out.Skipped = append(out.Skipped, name)
			continue
		}
		key, err := model.ParseSlotKey(name)
		if err != nil {
			out.Extras[name] = raw
			continue
		}
		draft, ok := decodeDraft(raw)
		if !ok {
			out.Extras[name] = raw
			continue
		}
		out.Records[key] = scorer.Apply(model.Normalize(draft))
	}
	sort.Strings(out.Skipped)
	return out, nil
}

// decodeDraft reads each field on its own so one bad field only defaults itself.
func decodeDraft(raw json.RawMessage) (model.Draft, bool) {
	var fields map[string]json.RawMessage
	if !isObject(raw) || json.Unmarshal(raw, &fields) != nil {
		return model.Draft{}, false
	}

	var d model.Draft
	field(fields, "name", &d.Name)
	field(fields, "style", &d.Style)
	field(fields, "wisdom", &d.Wisdom)
	field(fields, "isAce", &d.IsAce)
	field(fields, "startDash", &d.StartDash)
	field(fields, "uniqueRarity", &d.UniqueRarity)
	field(fields, "uniqueLevel", &d.UniqueLevel)
	field(fields, "uniqueActivation", &d.UniqueActivation)
	field(fields, "goldSkill", &d.GoldSkill)
	field(fields, "whiteSkill", &d.WhiteSkill)
	field(fields, "inheritSkill", &d.InheritSkill)
	return d, true
}

func field[T any](fields map[string]json.RawMessage, name string, dst **T) {
	raw, ok := fields[name]
	if !ok {
		return
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
