package repo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"daywheel/internal/domain"
)

// File persists the snapshot as a plain JSON task array plus a small
// unlocks map, matching the serialized form the browser storage used.
// A missing file loads as empty; writes go through a temp file and rename.
type File struct {
	dir string
}

func NewFile(dataDir string) (*File, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &File{dir: dataDir}, nil
}

func (r *File) tasksPath() string   { return filepath.Join(r.dir, "tasks.json") }
func (r *File) unlocksPath() string { return filepath.Join(r.dir, "unlocks.json") }

func (r *File) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	b, err := os.ReadFile(r.tasksPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var tasks []domain.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *File) FlushTasks(ctx context.Context, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(r.tasksPath(), b)
}

func (r *File) LoadUnlocks(ctx context.Context) (map[string]string, error) {
	b, err := os.ReadFile(r.unlocksPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	unlocks := map[string]string{}
	if err := json.Unmarshal(b, &unlocks); err != nil {
		return nil, err
	}
	return unlocks, nil
}

func (r *File) SaveUnlock(ctx context.Context, achievementID, unlockedAt string) error {
	unlocks, err := r.LoadUnlocks(ctx)
	if err != nil {
		return err
	}
	if _, ok := unlocks[achievementID]; ok {
		return nil
	}
	unlocks[achievementID] = unlockedAt
	b, err := json.MarshalIndent(unlocks, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(r.unlocksPath(), b)
}

func (r *File) Close() error { return nil }

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
