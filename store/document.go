package store

import (
	"context"
	"encoding/json"
	"sync"

	"product_draft_studio/apperr"
)

// Document is a singleton JSON object under one key. Loading decodes onto a
// copy of the defaults, so keys missing from storage keep their default.
type Document[T any] struct {
	backend  Backend
	key      string
	defaults func() T
	mu       sync.Mutex
}

func NewDocument[T any](b Backend, key string, defaults func() T) *Document[T] {
	return &Document[T]{backend: b, key: key, defaults: defaults}
}

// Load returns the stored value, persisting the defaults on first access.
func (d *Document[T]) Load(ctx context.Context) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.defaults()
	err := d.backend.Update(ctx, d.key, func(old []byte, found bool) ([]byte, error) {
		if !found {
			return d.encode(v)
		}
		if err := json.Unmarshal(old, &v); err != nil {
			return nil, apperr.Wrap(err, apperr.CodeInternal, "decode document "+d.key)
		}
		return nil, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Save overwrites the stored value wholesale.
func (d *Document[T]) Save(ctx context.Context, v T) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.backend.Update(ctx, d.key, func([]byte, bool) ([]byte, error) {
		return d.encode(v)
	})
}

// Reset restores the defaults and returns them.
func (d *Document[T]) Reset(ctx context.Context) (T, error) {
	v := d.defaults()
	return v, d.Save(ctx, v)
}

func (d *Document[T]) encode(v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "encode document "+d.key)
	}
	return data, nil
}
