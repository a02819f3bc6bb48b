// Package store persists named collections of records as whole JSON documents.
//
// Every collection is read and rewritten as a unit. Access to one collection is
// serialized through a per-collection lock so read-modify-write cycles never
// interleave inside a single process; writes remain last-writer-wins.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Collection names shared by the server and the operator CLI.
const (
	Users              = "users"
	ChatLogs           = "chatLogs"
	QuizResults        = "quizResults"
	WritingSubmissions = "writingSubmissions"
	AssignedQuizzes    = "assignedQuizzes"
)

// Names lists every collection in a stable order.
var Names = []string{Users, ChatLogs, QuizResults, WritingSubmissions, AssignedQuizzes}

// ErrMalformed reports a persisted collection that could not be decoded.
var ErrMalformed = errors.New("malformed collection")

//go:generate mockgen -source=store.go -destination=../mocks/store/mock_backend.go -package=mock_store

// Backend reads and writes the raw encoded form of a collection.
// Read returns nil data and no error when the collection does not exist yet.
type Backend interface {
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, data []byte) error
}

// Store hands out per-collection locks over a Backend.
type Store struct {
	backend Backend

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		locks:   make(map[string]*sync.RWMutex),
	}
}

func (s *Store) lock(collection string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[collection] = l
	}
	return l
}

// Collection is a typed view over one named collection.
type Collection[T any] struct {
	store *Store
	name  string
}

func NewCollection[T any](s *Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// All returns every record of the collection. A malformed collection is
// logged and treated as empty.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	l := c.store.lock(c.name)
	l.RLock()
	defer l.RUnlock()
	return c.load(ctx)
}

// Update runs fn inside the collection's exclusive section and saves what it returns.
// Returning an error from fn aborts the write.
func (c *Collection[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.save(ctx, updated)
}

// Append adds records to the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, records ...T) error {
	return c.Update(ctx, func(existing []T) ([]T, error) {
		return append(existing, records...), nil
	})
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.store.backend.Read(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("backend.Read(%s) > %w", c.name, err)
	}
	records, err := decode[T](data)
	if err != nil {
		slog.Default().Warn("treating collection as empty",
			"collection", c.name,
			"error", err)
		return []T{}, nil
	}
	return records, nil
}

func (c *Collection[T]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent(%s) > %w", c.name, err)
	}
	if err := c.store.backend.Write(ctx, c.name, data); err != nil {
		return fmt.Errorf("backend.Write(%s) > %w", c.name, err)
	}
	return nil
}

func decode[T any](data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
