package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Backend is the durable key-value storage the collections sit on.
type Backend interface {
	// Get returns the raw value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Update runs fn inside one read-modify-write transaction. A nil slice
	// returned by fn leaves the key untouched.
	Update(ctx context.Context, key string, fn func(old []byte, found bool) ([]byte, error)) error
	Close() error
}

// Badger is a Backend on an embedded badger database.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) a badger database in dir.
func Open(dir string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	return open(opts, logger)
}

// OpenInMemory opens a throwaway database kept entirely in memory.
func OpenInMemory(logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Badger, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger != nil {
		logger.Info("badger database opened", "dir", opts.Dir, "in_memory", opts.InMemory)
	}
	return &Badger{db: db, logger: logger}, nil
}

func (b *Badger) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, true, nil
}

func (b *Badger) Update(ctx context.Context, key string, fn func(old []byte, found bool) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		var old []byte
		found := true
		item, err := txn.Get([]byte(key))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			found = false
		case err != nil:
			return fmt.Errorf("failed to get key %s: %w", key, err)
		default:
			if old, err = item.ValueCopy(nil); err != nil {
				return fmt.Errorf("failed to read key %s: %w", key, err)
			}
		}

		next, err := fn(old, found)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		if err := txn.Set([]byte(key), next); err != nil {
			return fmt.Errorf("failed to set key %s: %w", key, err)
		}
		return nil
	})
}

func (b *Badger) Close() error {
	if b.logger != nil {
		b.logger.Info("closing badger database")
	}
	return b.db.Close()
}
