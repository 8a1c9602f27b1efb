// Package jsonstore persists records as one JSON array file per collection.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Record is anything stored in a Collection.
type Record interface {
	GetID() string
}

// Store owns a data directory. All reads and writes across every collection
// of one Store are serialized by a single lock.
type Store struct {
	dir string
	mu  sync.Mutex
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

type txKey struct{}

// unitOfWork holds the in-memory copy of every collection touched by a
// transaction. Nothing reaches disk until commit.
type unitOfWork struct {
	store  *Store
	staged map[string]any
	dirty  []string
}

func (u *unitOfWork) stage(name string, records any) {
	u.staged[name] = records
	if !slices.Contains(u.dirty, name) {
		u.dirty = append(u.dirty, name)
	}
}

func (s *Store) txFrom(ctx context.Context) *unitOfWork {
	uow, ok := ctx.Value(txKey{}).(*unitOfWork)
	if ok && uow.store == s {
		return uow
	}
	return nil
}

// WithinTransaction runs fn with a context bound to a unit of work. Every
// collection written inside fn is flushed only when fn returns nil; on error
// the staged changes are discarded. A nested call joins the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	uow := &unitOfWork{store: s, staged: make(map[string]any)}
	if err := fn(context.WithValue(ctx, txKey{}, uow)); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	return s.commit(uow)
}

func (s *Store) commit(uow *unitOfWork) error {
	if len(uow.dirty) == 0 {
		return nil
	}

	// write every temp file first so a marshal or disk error leaves the
	// live files untouched
	temps := make(map[string]string, len(uow.dirty))
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}

	for _, name := range uow.dirty {
		data, err := json.MarshalIndent(uow.staged[name], "", "  ")
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}

		tmp, err := writeTemp(s.pathOf(name), data)
		if err != nil {
			cleanup()
			return err
		}
		temps[name] = tmp
	}

	for _, name := range uow.dirty {
		if err := os.Rename(temps[name], s.pathOf(name)); err != nil {
			cleanup()
			return fmt.Errorf("failed to commit %s: %w", name, err)
		}
		delete(temps, name)
	}

	return nil
}

func (s *Store) pathOf(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func writeTemp(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return f.Name(), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
