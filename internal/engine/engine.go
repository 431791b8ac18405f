// Package engine is the command layer: it owns the in-memory store,
// mirrors every mutation to the persistence repo, appends to the event
// diary and keeps achievement unlocks monotonic.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"daywheel/internal/config"
	"daywheel/internal/derive"
	"daywheel/internal/domain"
	"daywheel/internal/events"
	"daywheel/internal/repo"
	"daywheel/internal/store"
)

type Engine struct {
	mu       sync.Mutex
	Store    *store.Store
	Repo     repo.Repo
	Events   events.Writer
	Config   *config.Config
	Now      func() time.Time
	catalog  []derive.Achievement
	unlocked map[string]string
	loadWarn error
	flushErr error
}

func New(r repo.Repo, cfg *config.Config) *Engine {
	return &Engine{
		Store:    store.New(),
		Repo:     r,
		Config:   cfg,
		Now:      time.Now,
		catalog:  derive.Catalog(),
		unlocked: map[string]string{},
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().In(e.Config.Location())
	}
	return time.Now().In(e.Config.Location())
}

// Today is the anchor date in the configured timezone.
func (e *Engine) Today() domain.Day {
	return domain.DayOf(e.now())
}

// Load pulls the persisted snapshot into the store. Absent or corrupt
// storage degrades to an empty store with a recorded warning; the session
// continues on in-memory state.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	tasks, err := e.Repo.LoadTasks(ctx)
	if err != nil {
		e.loadWarn = fmt.Errorf("load tasks: %w", err)
		e.Store.Replace(nil)
	} else {
		e.Store.Replace(tasks)
	}
	unlocks, err := e.Repo.LoadUnlocks(ctx)
	if err != nil {
		e.loadWarn = errors.Join(e.loadWarn, fmt.Errorf("load unlocks: %w", err))
		unlocks = map[string]string{}
	}
	e.unlocked = unlocks
	if e.unlocked == nil {
		e.unlocked = map[string]string{}
	}
	return nil
}

// LoadWarning reports a degraded load, if any. Non-fatal.
func (e *Engine) LoadWarning() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadWarn
}

// LastFlushError reports the most recent failed flush. It clears on the
// next successful flush.
func (e *Engine) LastFlushError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flushErr
}

// flush mirrors the store to the repo. Failures are recorded and logged
// but do not undo the mutation; memory stays authoritative.
func (e *Engine) flush(ctx context.Context) {
	if err := e.Repo.FlushTasks(ctx, e.Store.Snapshot()); err != nil {
		e.flushErr = fmt.Errorf("flush: %w", err)
		_ = e.Events.Append(events.FlushFailed, "", map[string]any{"error": err.Error()})
		return
	}
	e.flushErr = nil
}

// refreshUnlocks ORs the current predicates into the persisted unlock set.
// Unlocks never clear, so a later streak drop cannot take one back.
func (e *Engine) refreshUnlocks(ctx context.Context) {
	tasks := e.Store.Snapshot()
	totals := derive.Totals{
		Completed: derive.TotalCompleted(tasks),
		Streak:    derive.Streak(tasks, e.Today()),
	}
	for _, a := range e.catalog {
		if _, ok := e.unlocked[a.ID]; ok {
			continue
		}
		if !a.Unlock(totals) {
			continue
		}
		at := e.now().UTC().Format(time.RFC3339)
		e.unlocked[a.ID] = at
		if err := e.Repo.SaveUnlock(ctx, a.ID, at); err != nil {
			e.flushErr = fmt.Errorf("save unlock %s: %w", a.ID, err)
		}
		_ = e.Events.Append(events.AchievementUnlocked, "", map[string]any{"achievement": a.ID})
	}
}

// TaskCreateOptions are parameters for creating a task.
type TaskCreateOptions struct {
	Title       string
	Description string
	Date        string
	Priority    string
	Category    string
}

func (e *Engine) CreateTask(ctx context.Context, opts TaskCreateOptions) (domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if opts.Title == "" {
		return domain.Task{}, errors.New("title is required")
	}
	day := e.Today()
	if opts.Date != "" {
		var err error
		day, err = domain.ParseDay(opts.Date)
		if err != nil {
			return domain.Task{}, err
		}
	}
	priority := domain.Priority(opts.Priority)
	if opts.Priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.Task{}, fmt.Errorf("invalid priority %q", opts.Priority)
	}
	category := domain.Category(opts.Category)
	if opts.Category == "" {
		category = domain.CategoryPersonal
	}
	if !category.Valid() {
		return domain.Task{}, fmt.Errorf("invalid category %q", opts.Category)
	}
	now := e.now().UTC().Format(time.RFC3339)
	t := domain.Task{
		ID:          uuid.NewString(),
		Title:       opts.Title,
		Description: opts.Description,
		Date:        day,
		Completed:   false,
		Priority:    priority,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.Store.Add(t); err != nil {
		return domain.Task{}, err
	}
	e.flush(ctx)
	_ = e.Events.Append(events.TaskCreated, t.ID, map[string]any{"title": t.Title, "date": t.Date.String()})
	e.refreshUnlocks(ctx)
	return t, nil
}

// TaskUpdateOptions are the mutable fields; nil leaves a field unchanged.
// Completed is not here: it only moves through ToggleCompleted.
type TaskUpdateOptions struct {
	Title       *string
	Description *string
	Date        *string
	Priority    *string
	Category    *string
}

func (e *Engine) UpdateTask(ctx context.Context, id string, opts TaskUpdateOptions) (domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, err := e.Store.Get(id)
	if err != nil {
		return domain.Task{}, err
	}
	if opts.Title != nil {
		if *opts.Title == "" {
			return domain.Task{}, errors.New("title cannot be empty")
		}
		t.Title = *opts.Title
	}
	if opts.Description != nil {
		t.Description = *opts.Description
	}
	if opts.Date != nil {
		day, err := domain.ParseDay(*opts.Date)
		if err != nil {
			return domain.Task{}, err
		}
		t.Date = day
	}
	if opts.Priority != nil {
		p := domain.Priority(*opts.Priority)
		if !p.Valid() {
			return domain.Task{}, fmt.Errorf("invalid priority %q", *opts.Priority)
		}
		t.Priority = p
	}
	if opts.Category != nil {
		c := domain.Category(*opts.Category)
		if !c.Valid() {
			return domain.Task{}, fmt.Errorf("invalid category %q", *opts.Category)
		}
		t.Category = c
	}
	t.UpdatedAt = e.now().UTC().Format(time.RFC3339)
	if err := e.Store.Put(t); err != nil {
		return domain.Task{}, err
	}
	e.flush(ctx)
	_ = e.Events.Append(events.TaskUpdated, t.ID, nil)
	e.refreshUnlocks(ctx)
	return t, nil
}

func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.Store.Delete(id); err != nil {
		return err
	}
	e.flush(ctx)
	_ = e.Events.Append(events.TaskDeleted, id, nil)
	e.refreshUnlocks(ctx)
	return nil
}

func (e *Engine) ToggleCompleted(ctx context.Context, id string) (domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, err := e.Store.Get(id)
	if err != nil {
		return domain.Task{}, err
	}
	t.Completed = !t.Completed
	t.UpdatedAt = e.now().UTC().Format(time.RFC3339)
	if err := e.Store.Put(t); err != nil {
		return domain.Task{}, err
	}
	e.flush(ctx)
	evt := events.TaskReopened
	if t.Completed {
		evt = events.TaskCompleted
	}
	_ = e.Events.Append(evt, t.ID, map[string]any{"date": t.Date.String()})
	e.refreshUnlocks(ctx)
	return t, nil
}

func (e *Engine) GetTask(id string) (domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Store.Get(id)
}

func (e *Engine) ListTasks() []domain.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Store.Snapshot()
}

// TasksForDate returns the tasks scheduled on the given day, store order.
func (e *Engine) TasksForDate(date string) ([]domain.Task, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return derive.ForDay(e.Store.Snapshot(), day), nil
}

// WeekView groups seven days starting at start; empty start anchors the
// configured week around today.
func (e *Engine) WeekView(start string) ([]derive.DayGroup, error) {
	var day domain.Day
	if start == "" {
		day = e.Today().WeekStart(e.Config.StartWeekday())
	} else {
		var err error
		day, err = domain.ParseDay(start)
		if err != nil {
			return nil, err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return derive.Week(e.Store.Snapshot(), day, e.Config.Week.DayCap), nil
}

// CurrentStreak re-derives the streak from full history; empty anchor
// means today.
func (e *Engine) CurrentStreak(anchor string) (int, error) {
	day := e.Today()
	if anchor != "" {
		var err error
		day, err = domain.ParseDay(anchor)
		if err != nil {
			return 0, err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return derive.Streak(e.Store.Snapshot(), day), nil
}

func (e *Engine) TotalCompleted() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return derive.TotalCompleted(e.Store.Snapshot())
}

func (e *Engine) TotalPending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return derive.TotalPending(e.Store.Snapshot())
}

// AchievementState is one catalog entry with its persisted unlock state.
type AchievementState struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  string `json:"unlocked_at,omitempty"`
}

// AchievementStates maps achievement id to unlocked. Monotonic: this reads
// the persisted unlock set, not a fresh predicate evaluation.
func (e *Engine) AchievementStates() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]bool, len(e.catalog))
	for _, a := range e.catalog {
		_, ok := e.unlocked[a.ID]
		out[a.ID] = ok
	}
	return out
}

func (e *Engine) Achievements() []AchievementState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]AchievementState, 0, len(e.catalog))
	for _, a := range e.catalog {
		at, ok := e.unlocked[a.ID]
		out = append(out, AchievementState{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Unlocked:    ok,
			UnlockedAt:  at,
		})
	}
	return out
}

// Stats is the snapshot the stats widget renders.
type Stats struct {
	TotalTasks        int                `json:"total_tasks"`
	TotalCompleted    int                `json:"total_completed"`
	TotalPending      int                `json:"total_pending"`
	CompletionPercent float64            `json:"completion_percent"`
	Streak            int                `json:"streak"`
	Achievements      []AchievementState `json:"achievements"`
}

func (e *Engine) StatsSnapshot() Stats {
	e.mu.Lock()
	tasks := e.Store.Snapshot()
	today := e.Today()
	e.mu.Unlock()
	s := Stats{
		TotalTasks:        len(tasks),
		TotalCompleted:    derive.TotalCompleted(tasks),
		TotalPending:      derive.TotalPending(tasks),
		CompletionPercent: derive.CompletionPercent(tasks),
		Streak:            derive.Streak(tasks, today),
	}
	s.Achievements = e.Achievements()
	return s
}
