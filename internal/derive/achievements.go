package derive

// Totals is the input to achievement evaluation.
type Totals struct {
	Completed int
	Streak    int
}

// Achievement pairs a static definition with its unlock predicate. Unlock
// state itself is not stored here; the engine persists unlocks so they
// never regress when a streak later drops.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Unlock      func(Totals) bool
}

// Catalog is the fixed achievement set, evaluated independently.
func Catalog() []Achievement {
	return []Achievement{
		{
			ID:          "first-task",
			Title:       "First Steps",
			Description: "Complete your first task",
			Unlock:      func(t Totals) bool { return t.Completed >= 1 },
		},
		{
			ID:          "streak-3",
			Title:       "Warming Up",
			Description: "Keep a 3-day completion streak",
			Unlock:      func(t Totals) bool { return t.Streak >= 3 },
		},
		{
			ID:          "streak-7",
			Title:       "Full Circle",
			Description: "Keep a 7-day completion streak",
			Unlock:      func(t Totals) bool { return t.Streak >= 7 },
		},
		{
			ID:          "tasks-10",
			Title:       "Getting Things Done",
			Description: "Complete 10 tasks",
			Unlock:      func(t Totals) bool { return t.Completed >= 10 },
		},
		{
			ID:          "tasks-50",
			Title:       "Taskmaster",
			Description: "Complete 50 tasks",
			Unlock:      func(t Totals) bool { return t.Completed >= 50 },
		},
	}
}

// Evaluate maps each achievement id to whether its predicate holds for the
// given totals. Callers wanting monotonic unlock state must OR this with
// previously persisted unlocks.
func Evaluate(catalog []Achievement, t Totals) map[string]bool {
	out := make(map[string]bool, len(catalog))
	for _, a := range catalog {
		out[a.ID] = a.Unlock(t)
	}
	return out
}
