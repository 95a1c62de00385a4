// Package repository holds the slot records of a board and their snapshot codec.
package repository

import (
	"context"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/ranking"
)

// Store provides read/write access to the slot records.
type Store interface {
	// Put replaces the record at key wholesale.
	Put(ctx context.Context, key model.SlotKey, rec model.SlotRecord) error

	// Get returns the record at key.
	// Returns ErrNotFound if the slot is empty.
	Get(ctx context.Context, key model.SlotKey) (model.SlotRecord, error)

	// Delete empties the slot at key. Returns false if it was already empty.
	Delete(ctx context.Context, key model.SlotKey) (bool, error)

	// All returns a copy of every filled slot.
	All(ctx context.Context) map[model.SlotKey]model.SlotRecord

	// Group returns positions 0..size-1 of group, filled or empty.
	Group(ctx context.Context, group string, size int) []ranking.Position

	// Replace swaps the whole record set, e.g. after loading a snapshot.
	Replace(ctx context.Context, records map[model.SlotKey]model.SlotRecord)

	// Count returns the number of filled slots.
	Count(ctx context.Context) int
}
