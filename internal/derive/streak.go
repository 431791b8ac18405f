package derive

import "daywheel/internal/domain"

// Streak counts consecutive days with at least one completed task, walking
// backward from anchor. The walk halts at the first day with no completed
// task, so a gap on the anchor day itself yields 0. A day holding only
// pending tasks breaks the streak. Termination needs no artificial cap:
// the walk can take at most one step per distinct completed day.
func Streak(tasks []domain.Task, anchor domain.Day) int {
	if !anchor.Valid() {
		return 0
	}
	completed := make(map[domain.Day]bool)
	for _, t := range tasks {
		if t.Completed && t.Date.Valid() {
			completed[t.Date] = true
		}
	}
	n := 0
	for day := anchor; completed[day]; day = day.AddDays(-1) {
		n++
	}
	return n
}
