// Package derive contains the pure derivations over the task collection:
// per-day groupings for the calendar, the completion streak, achievement
// evaluation and the stat totals. Everything here is stateless and
// recomputed from scratch on each call.
package derive

import "daywheel/internal/domain"

// DefaultDayCap is how many tasks the week dial shows per day before
// collapsing the rest into a "+N more" indicator.
const DefaultDayCap = 3

// ForDay returns the tasks scheduled on exactly the given day, in store
// order. Tasks with malformed dates never match.
func ForDay(tasks []domain.Task, day domain.Day) []domain.Task {
	if !day.Valid() {
		return nil
	}
	var out []domain.Task
	for _, t := range tasks {
		if t.Date == day && t.Date.Valid() {
			out = append(out, t)
		}
	}
	return out
}

// DayGroup is one day's slice of the calendar: at most cap tasks plus the
// count that did not fit.
type DayGroup struct {
	Day      domain.Day    `json:"day"`
	Tasks    []domain.Task `json:"tasks"`
	Overflow int           `json:"overflow"`
	Total    int           `json:"total"`
}

// GroupDay caps ForDay for dial layout. limit <= 0 falls back to DefaultDayCap.
func GroupDay(tasks []domain.Task, day domain.Day, limit int) DayGroup {
	if limit <= 0 {
		limit = DefaultDayCap
	}
	all := ForDay(tasks, day)
	g := DayGroup{Day: day, Tasks: all, Total: len(all)}
	if len(all) > limit {
		g.Tasks = all[:limit]
		g.Overflow = len(all) - limit
	}
	return g
}

// Week produces seven independent day groups starting at start.
func Week(tasks []domain.Task, start domain.Day, limit int) []DayGroup {
	groups := make([]DayGroup, 0, 7)
	for i := 0; i < 7; i++ {
		groups = append(groups, GroupDay(tasks, start.AddDays(i), limit))
	}
	return groups
}
