package shared

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrResolution marks a find-or-create that could not complete
var ErrResolution = NewDomainError("RESOLUTION_FAILED", "Entity resolution failed")

// KeyField is one column/value equality used for exact-match lookups
type KeyField struct {
	Column string
	Value  any
}

// Key is an ordered conjunction of key fields
type Key []KeyField

// Columns returns the key's column names in order
func (k Key) Columns() []string {
	cols := make([]string, len(k))
	for i, f := range k {
		cols[i] = f.Column
	}
	return cols
}

// String renders the key as "col=value, col=value" for logs and errors
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, f := range k {
		parts[i] = fmt.Sprintf("%s=%v", f.Column, f.Value)
	}
	return strings.Join(parts, ", ")
}

// Store is the storage contract the resolver needs for one entity kind.
// FindOne returns ErrNotFound when nothing matches every key field.
// Create returns ErrAlreadyExists when a uniqueness constraint rejects the row.
type Store[T any] interface {
	FindOne(ctx context.Context, key Key) (*T, error)
	Create(ctx context.Context, entity *T) error
}

// FindOrCreate returns the entity matching key exactly, or builds and
// persists a new one. The boolean reports whether a new entity was created.
//
// A uniqueness violation on create means another writer won the race for
// the same key; the winner is re-read and returned with created=false.
func FindOrCreate[T any](ctx context.Context, store Store[T], key Key, build func() (*T, error)) (*T, bool, error) {
	if len(key) == 0 {
		return nil, false, WrapDomainError(ErrResolution.Code, "empty resolution key", ErrInvalidInput)
	}

	existing, err := store.FindOne(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, WrapDomainError(ErrResolution.Code, fmt.Sprintf("lookup by %s failed", key), err)
	}

	entity, err := build()
	if err != nil {
		return nil, false, err
	}

	if err := store.Create(ctx, entity); err != nil {
		if !errors.Is(err, ErrAlreadyExists) {
			return nil, false, WrapDomainError(ErrResolution.Code, fmt.Sprintf("create by %s failed", key), err)
		}
		winner, findErr := store.FindOne(ctx, key)
		if findErr != nil {
			// The conflicting row does not match the full key
			return nil, false, WrapDomainError(ErrResolution.Code, fmt.Sprintf("create by %s conflicts with an existing record", key), err)
		}
		return winner, false, nil
	}

	return entity, true, nil
}
