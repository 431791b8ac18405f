// Package store holds the in-memory ordered task collection. It owns
// identity and CRUD only; all derived views live in internal/derive.
package store

import (
	"errors"
	"fmt"

	"daywheel/internal/domain"
)

var ErrNotFound = errors.New("task not found")

// Store keeps tasks in insertion order. It is built with New and passed
// around explicitly; it is not safe for concurrent use on its own, the
// engine serializes access.
type Store struct {
	tasks []domain.Task
	index map[string]int
}

func New() *Store {
	return &Store{index: map[string]int{}}
}

// Replace swaps the full contents, used when loading a persisted snapshot.
func (s *Store) Replace(tasks []domain.Task) {
	s.tasks = make([]domain.Task, len(tasks))
	copy(s.tasks, tasks)
	s.index = make(map[string]int, len(tasks))
	for i, t := range s.tasks {
		s.index[t.ID] = i
	}
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) Get(id string) (domain.Task, error) {
	i, ok := s.index[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.tasks[i], nil
}

// Add appends a task. IDs are assigned by the caller and must be unique.
func (s *Store) Add(t domain.Task) error {
	if _, ok := s.index[t.ID]; ok {
		return fmt.Errorf("duplicate task id %s", t.ID)
	}
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t)
	return nil
}

// Put replaces an existing task in place, keeping its position.
func (s *Store) Put(t domain.Task) error {
	i, ok := s.index[t.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, t.ID)
	}
	s.tasks[i] = t
	return nil
}

func (s *Store) Delete(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.tasks); j++ {
		s.index[s.tasks[j].ID] = j
	}
	return nil
}

// Snapshot returns an ordered copy safe to hand to persistence or callers.
func (s *Store) Snapshot() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
