package repository

import "github.com/okian/arena/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithRecords seeds the store with an initial record set.
func WithRecords(records map[model.SlotKey]model.SlotRecord) Option {
	return func(s *MemoryStore) {
		for k, v := range records {
			s.byKey[k] = v
		}
	}
}

// WithShardLabel sets the label used when reporting per-store metrics.
func WithShardLabel(label string) Option {
	return func(s *MemoryStore) {
		if label != "" {
			s.label = label
		}
	}
}
