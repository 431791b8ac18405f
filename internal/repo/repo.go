// Package repo is the persistence collaborator: it durably mirrors the
// in-memory store. The engine flushes the full task snapshot after every
// mutation; a flush failure is reported but never invalidates the
// in-memory state.
package repo

import (
	"context"

	"daywheel/internal/domain"
)

// Repo loads and flushes task snapshots and achievement unlocks.
// Every Task field must round-trip losslessly, in order.
type Repo interface {
	LoadTasks(ctx context.Context) ([]domain.Task, error)
	FlushTasks(ctx context.Context, tasks []domain.Task) error
	// LoadUnlocks returns achievement id -> RFC3339 unlock time.
	LoadUnlocks(ctx context.Context) (map[string]string, error)
	SaveUnlock(ctx context.Context, achievementID, unlockedAt string) error
	Close() error
}
