package storage

import (
	"context"
	"errors"
	"time"

	"github.com/okian/arena/pkg/metrics"
)

// instrumented records latency and failures of every backend call.
type instrumented struct {
	next    KV
	backend string
}

// Instrument wraps kv so each operation is reported under backend.
func Instrument(kv KV, backend string) KV {
	if backend == "" {
		backend = BackendMemory
	}
	return &instrumented{next: kv, backend: backend}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordStorageOperation(i.backend, op, ms)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStorageError(i.backend, op)
		metrics.RecordErrorByComponent("storage", op)
	}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	b, err := i.next.Get(ctx, key)
	i.observe("get", start, err)
	return b, err
}

func (i *instrumented) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.next.Put(ctx, key, value)
	i.observe("put", start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.Delete(ctx, key)
	i.observe("delete", start, err)
	return err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
