// Package store persists named collections of records as JSON arrays in a
// key-value backend. Each collection is one key; every operation is a single
// read-modify-write transaction guarded by a per-collection mutex.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"product_draft_studio/apperr"
)

// Record is anything stored in a collection.
type Record interface {
	RecordID() string
}

// Toucher is implemented (on the pointer) by records carrying an updatedAt.
type Toucher interface {
	Touch(now time.Time)
}

// Collection is an ordered sequence of T kept under one key.
type Collection[T Record] struct {
	backend Backend
	key     string
	now     func() time.Time
	mu      sync.Mutex
}

// NewCollection binds a collection to key. now may be nil.
func NewCollection[T Record](b Backend, key string, now func() time.Time) *Collection[T] {
	if now == nil {
		now = time.Now
	}
	return &Collection[T]{backend: b, key: key, now: now}
}

// mutate loads the collection, lets fn transform it and writes it back when
// fn reports a change. A never-initialized key is always written as [].
func (c *Collection[T]) mutate(ctx context.Context, fn func(items []T) ([]T, bool, error)) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result []T
	err := c.backend.Update(ctx, c.key, func(old []byte, found bool) ([]byte, error) {
		items, err := c.decode(old, found)
		if err != nil {
			return nil, err
		}
		next, changed, err := fn(items)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		result = next
		if !changed && found {
			return nil, nil
		}
		data, err := json.Marshal(next)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.CodeInternal, "encode collection "+c.key)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Collection[T]) decode(data []byte, found bool) ([]T, error) {
	if !found {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "decode collection "+c.key)
	}
	return items, nil
}

// List returns every record in stored order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.mutate(ctx, func(items []T) ([]T, bool, error) {
		return items, false, nil
	})
}

// Count returns the number of records.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	items, err := c.List(ctx)
	return len(items), err
}

// Append adds records to the end.
func (c *Collection[T]) Append(ctx context.Context, recs ...T) error {
	_, err := c.mutate(ctx, func(items []T) ([]T, bool, error) {
		return append(items, recs...), len(recs) > 0, nil
	})
	return err
}

// Prepend adds records to the front, keeping their relative order.
func (c *Collection[T]) Prepend(ctx context.Context, recs ...T) error {
	_, err := c.mutate(ctx, func(items []T) ([]T, bool, error) {
		next := make([]T, 0, len(recs)+len(items))
		next = append(next, recs...)
		return append(next, items...), len(recs) > 0, nil
	})
	return err
}

// Remove drops every record with the id. Missing ids are not an error;
// the bool reports whether anything was removed.
func (c *Collection[T]) Remove(ctx context.Context, id string) (bool, error) {
	var removed bool
	_, err := c.mutate(ctx, func(items []T) ([]T, bool, error) {
		kept := items[:0]
		for _, it := range items {
			if it.RecordID() == id {
				removed = true
				continue
			}
			kept = append(kept, it)
		}
		return kept, removed, nil
	})
	return removed, err
}

// Find returns the first record with the id.
func (c *Collection[T]) Find(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, it := range items {
		if it.RecordID() == id {
			return it, true, nil
		}
	}
	return zero, false, nil
}

// Update applies fn to the first record with the id and refreshes its
// updatedAt when T supports it. An error from fn aborts without writing.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, bool, error) {
	var (
		updated T
		found   bool
	)
	_, err := c.mutate(ctx, func(items []T) ([]T, bool, error) {
		for i := range items {
			if items[i].RecordID() != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, false, err
			}
			if t, ok := any(&items[i]).(Toucher); ok {
				t.Touch(c.now())
			}
			updated, found = items[i], true
			return items, true, nil
		}
		return items, false, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return updated, found, nil
}
