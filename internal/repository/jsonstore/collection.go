package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"ecomStore/pkg/logger"
)

var ErrDuplicateID = errors.New("record id already exists")

// Collection is a typed view over one JSON file. Every mutating call is a
// full read-modify-write of the file, or of the staged copy when the context
// carries a transaction.
type Collection[T Record] struct {
	store *Store
	name  string
}

func NewCollection[T Record](store *Store, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

// load reads the file. A missing file is created empty; an unreadable or
// corrupt one is treated as empty.
func (c *Collection[T]) load() ([]T, error) {
	path := c.store.pathOf(c.name)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeFileAtomic(path, []byte("[]")); err != nil {
			return nil, err
		}
		return []T{}, nil
	}
	if err != nil {
		logger.Warn("Failed to read collection, treating as empty", "collection", c.name, err)
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("Corrupt collection file, treating as empty", "collection", c.name, err)
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}

	return records, nil
}

func (c *Collection[T]) flush(records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.name, err)
	}

	return writeFileAtomic(c.store.pathOf(c.name), data)
}

func (c *Collection[T]) staged(uow *unitOfWork) ([]T, error) {
	if v, ok := uow.staged[c.name]; ok {
		return v.([]T), nil
	}

	records, err := c.load()
	if err != nil {
		return nil, err
	}
	uow.staged[c.name] = records

	return records, nil
}

func (c *Collection[T]) read(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if uow := c.store.txFrom(ctx); uow != nil {
		records, err := c.staged(uow)
		if err != nil {
			return nil, err
		}
		return slices.Clone(records), nil
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	return c.load()
}

// modify hands fn a private copy of the records. When fn reports a change the
// result replaces the collection: staged inside a transaction, flushed
// otherwise.
func (c *Collection[T]) modify(ctx context.Context, fn func(records []T) ([]T, bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if uow := c.store.txFrom(ctx); uow != nil {
		records, err := c.staged(uow)
		if err != nil {
			return err
		}

		next, changed, err := fn(slices.Clone(records))
		if err != nil || !changed {
			return err
		}
		uow.stage(c.name, next)
		return nil
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	records, err := c.load()
	if err != nil {
		return err
	}

	next, changed, err := fn(records)
	if err != nil || !changed {
		return err
	}

	return c.flush(next)
}

func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	return c.read(ctx)
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	return c.FindOne(ctx, func(r T) bool { return r.GetID() == id })
}

func (c *Collection[T]) FindBy(ctx context.Context, match func(T) bool) ([]T, error) {
	records, err := c.read(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0)
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}

	return out, nil
}

func (c *Collection[T]) FindOne(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T

	records, err := c.read(ctx)
	if err != nil {
		return zero, false, err
	}

	for _, r := range records {
		if match(r) {
			return r, true, nil
		}
	}

	return zero, false, nil
}

func (c *Collection[T]) Create(ctx context.Context, record T) error {
	return c.modify(ctx, func(records []T) ([]T, bool, error) {
		for _, r := range records {
			if r.GetID() == record.GetID() {
				return nil, false, fmt.Errorf("%s %s: %w", c.name, record.GetID(), ErrDuplicateID)
			}
		}
		return append(records, record), true, nil
	})
}

// Update applies mutate to the record with the given id and returns the
// result. found is false when no record matched.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(*T) error) (updated T, found bool, err error) {
	err = c.modify(ctx, func(records []T) ([]T, bool, error) {
		for i := range records {
			if records[i].GetID() != id {
				continue
			}
			if err := mutate(&records[i]); err != nil {
				return nil, false, err
			}
			updated, found = records[i], true
			return records, true, nil
		}
		return nil, false, nil
	})

	return updated, found, err
}

// UpdateBy applies mutate to every matching record and returns how many changed.
func (c *Collection[T]) UpdateBy(ctx context.Context, match func(T) bool, mutate func(*T)) (int, error) {
	n := 0
	err := c.modify(ctx, func(records []T) ([]T, bool, error) {
		for i := range records {
			if match(records[i]) {
				mutate(&records[i])
				n++
			}
		}
		return records, n > 0, nil
	})

	return n, err
}

func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	n, err := c.DeleteBy(ctx, func(r T) bool { return r.GetID() == id })
	return n > 0, err
}

func (c *Collection[T]) DeleteBy(ctx context.Context, match func(T) bool) (int, error) {
	n := 0
	err := c.modify(ctx, func(records []T) ([]T, bool, error) {
		kept := records[:0]
		for _, r := range records {
			if match(r) {
				n++
				continue
			}
			kept = append(kept, r)
		}
		return kept, n > 0, nil
	})

	return n, err
}
