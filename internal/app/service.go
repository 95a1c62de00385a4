// Package service provides the board controller that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/adapters/storage"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/ranking"
	"github.com/okian/arena/internal/domain/scoring"
	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// DefaultStorageKey is the single durable key holding the board snapshot.
const DefaultStorageKey = "uma-arena-slot-data"

// Snapshot load outcomes reported to metrics.
const (
	loadOK        = "ok"
	loadEmpty     = "empty"
	loadMalformed = "malformed"
	loadError     = "error"
)

// Service owns the board state and its persistence.
type Service struct {
	// mu serializes mutations so readers always see a settled board.
	mu sync.RWMutex

	// Core components
	store   repository.Store
	calc    *scoring.Calculator
	kv      storage.KV
	printer *message.Printer

	// Configuration
	storageKey string
	layout     map[string]int
	order      []string

	// State
	started bool
	subs    *subscribers
	// extras are stored entries that are not slots; written back untouched.
	extras map[string]json.RawMessage

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the in-memory record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCalculator sets the score calculator.
func WithCalculator(calc *scoring.Calculator) Option {
	return func(s *Service) {
		if calc != nil {
			s.calc = calc
		}
	}
}

// WithStorage sets the durable backend the snapshot is written to.
func WithStorage(kv storage.KV) Option {
	return func(s *Service) {
		if kv != nil {
			s.kv = kv
		}
	}
}

// WithStorageKey sets the key the snapshot lives under.
func WithStorageKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.storageKey = key
		}
	}
}

// WithLayout sets the groups and their slot counts. order fixes the render
// order; groups missing from it follow alphabetically.
func WithLayout(groups map[string]int, order []string) Option {
	return func(s *Service) {
		if len(groups) == 0 {
			return
		}
		s.layout = make(map[string]int, len(groups))
		for id, n := range groups {
			if n > 0 {
				s.layout[id] = n
			}
		}
		s.order = ranking.OrderGroups(s.layout, order)
	}
}

// WithLanguage sets the locale used for display scores.
func WithLanguage(tag language.Tag) Option {
	return func(s *Service) {
		s.printer = message.NewPrinter(tag)
	}
}

// DefaultLayout returns the built-in groups with five slots each.
func DefaultLayout() (map[string]int, []string) {
	order := []string{"sprint", "mile", "middle", "long", "dirt"}
	groups := make(map[string]int, len(order))
	for _, id := range order {
		groups[id] = 5
	}
	return groups, order
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	groups, order := DefaultLayout()
	s := &Service{
		store:      repository.NewMemoryStore(),
		calc:       scoring.NewCalculator(),
		kv:         storage.NewMemoryKV(),
		printer:    message.NewPrinter(language.Japanese),
		storageKey: DefaultStorageKey,
		layout:     groups,
		order:      order,
		subs:       newSubscribers(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the persisted board. It is a no-op once started.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting board service...",
		logger.String("storageKey", s.storageKey),
		logger.Int("groups", len(s.layout)),
	)
	if err := s.loadLocked(ctx); err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "board service started", logger.Int("filled", s.store.Count(ctx)))
	return nil
}

// Stop closes every subscription.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.subs.closeAll()
	s.started = false
	s.logger.Info(context.Background(), "board service stopped")
}

// Load replaces the in-memory board with the persisted snapshot. A missing
// or malformed snapshot leaves the board empty without an error. A failing
// backend is reported and the current board is kept.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	s.publishLocked(ctx)
	return nil
}

func (s *Service) loadLocked(ctx context.Context) error {
	s.ensureLogger()

	data, err := s.kv.Get(ctx, s.storageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.store.Replace(ctx, nil)
		s.extras = nil
		metrics.RecordSnapshotLoad(loadEmpty)
		metrics.UpdateFilledSlots(0)
		return nil
	case err != nil:
		metrics.RecordSnapshotLoad(loadError)
		metrics.RecordErrorByComponent("service", "load")
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	decoded, err := repository.DecodeSnapshot(data, s.calc)
	if err != nil {
		s.store.Replace(ctx, nil)
		s.extras = nil
		metrics.RecordSnapshotLoad(loadMalformed)
		s.logger.Warn(ctx, "discarding malformed snapshot", logger.Error(err), logger.Int("bytes", len(data)))
		metrics.UpdateFilledSlots(0)
		return nil
	}
	for _, name := range decoded.Skipped {
		s.logger.Warn(ctx, "skipping entry without slot separator", logger.String("key", name))
	}
	for name := range decoded.Extras {
		s.logger.Warn(ctx, "keeping unreadable slot entry as stored", logger.String("key", name))
	}

	// Records outside the layout stay ranked and persisted; they are only
	// left off the rendered board.
	for key, rec := range decoded.Records {
		if !s.inLayout(key) {
			s.logger.Warn(ctx, "slot outside layout is kept but not shown", logger.String("key", key.String()))
		}
		metrics.RecordSlotScore(rec.Score)
	}
	s.store.Replace(ctx, decoded.Records)
	s.extras = decoded.Extras

	metrics.RecordSnapshotLoad(loadOK)
	metrics.UpdateSnapshotBytes(len(data))
	metrics.UpdateFilledSlots(len(decoded.Records))
	s.logger.Debug(ctx, "snapshot loaded",
		logger.Int("slots", len(decoded.Records)),
		logger.Int("kept", len(decoded.Extras)),
		logger.Int("skipped", len(decoded.Skipped)))
	return nil
}

// Save normalizes the draft, scores it and replaces the slot wholesale.
// The snapshot is written before the in-memory board changes, so a failed
// write leaves the board as it was.
func (s *Service) Save(ctx context.Context, key model.SlotKey, draft model.Draft) (types.SlotView, error) {
	if !s.inLayout(key) {
		return types.SlotView{}, fmt.Errorf("%w: %s", ErrUnknownSlot, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLogger()

	rec := s.calc.Apply(model.Normalize(draft))

	next := s.store.All(ctx)
	next[key] = rec
	extras := s.extrasWithout(key)
	if err := s.persistLocked(ctx, next, extras); err != nil {
		return types.SlotView{}, err
	}
	if err := s.store.Put(ctx, key, rec); err != nil {
		return types.SlotView{}, err
	}
	s.extras = extras

	metrics.RecordSlotSave()
	metrics.RecordSlotScore(rec.Score)
	metrics.UpdateFilledSlots(len(next))
	s.logger.Debug(ctx, "slot saved",
		logger.String("key", key.String()),
		logger.String("name", rec.Name),
		logger.Int("score", rec.Score),
	)
	s.publishLocked(ctx)
	return s.slotLocked(ctx, key), nil
}

// Delete empties the slot. Deleting an empty slot is a no-op.
func (s *Service) Delete(ctx context.Context, key model.SlotKey) error {
	if !s.inLayout(key) {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLogger()

	next := s.store.All(ctx)
	_, filled := next[key]
	_, kept := s.extras[key.String()]
	if !filled && !kept {
		return nil
	}
	delete(next, key)
	extras := s.extrasWithout(key)
	if err := s.persistLocked(ctx, next, extras); err != nil {
		return err
	}
	if _, err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.extras = extras

	metrics.RecordSlotDelete()
	metrics.UpdateFilledSlots(len(next))
	s.logger.Debug(ctx, "slot deleted", logger.String("key", key.String()))
	s.publishLocked(ctx)
	return nil
}

// Reset removes the persisted snapshot and reloads, leaving an empty board.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLogger()

	if err := s.kv.Delete(ctx, s.storageKey); err != nil {
		metrics.RecordErrorByComponent("service", "reset")
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.loadLocked(ctx); err != nil {
		return err
	}

	metrics.RecordBoardReset()
	metrics.UpdateSnapshotBytes(0)
	s.logger.Info(ctx, "board reset", logger.String("storageKey", s.storageKey))
	s.publishLocked(ctx)
	return nil
}

func (s *Service) persistLocked(ctx context.Context, records map[model.SlotKey]model.SlotRecord, extras map[string]json.RawMessage) error {
	data, err := repository.EncodeSnapshot(records, extras)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, s.storageKey, data); err != nil {
		metrics.RecordErrorByComponent("service", "persist")
		s.logger.Error(ctx, "writing snapshot failed", logger.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	metrics.UpdateSnapshotBytes(len(data))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	total := 0
	for _, n := range s.layout {
		total += n
	}
	filled, outside := 0, 0
	for key := range s.store.All(ctx) {
		if s.inLayout(key) {
			filled++
		} else {
			outside++
		}
	}
	metrics.UpdateFilledSlots(filled + outside)

	return map[string]interface{}{
		"started":       s.started,
		"storageKey":    s.storageKey,
		"groups":        slices.Clone(s.order),
		"slots":         total,
		"filled":        filled,
		"outsideLayout": outside,
		"kept":          len(s.extras),
		"subscribers":   s.subs.len(),
	}
}

// Groups returns the group ids in render order.
func (s *Service) Groups() []string {
	return slices.Clone(s.order)
}

func (s *Service) inLayout(key model.SlotKey) bool {
	n, ok := s.layout[key.Group]
	return ok && key.Index >= 0 && key.Index < n
}

// extrasWithout returns the kept entries minus the one key now owned by a
// slot. The receiver's map is never modified.
func (s *Service) extrasWithout(key model.SlotKey) map[string]json.RawMessage {
	name := key.String()
	if _, ok := s.extras[name]; !ok {
		return s.extras
	}
	out := make(map[string]json.RawMessage, len(s.extras)-1)
	for k, v := range s.extras {
		if k != name {
			out[k] = v
		}
	}
	return out
}

func (s *Service) ensureLogger() {
	if s.logger == nil {
		s.logger = logger.Get()
	}
}
