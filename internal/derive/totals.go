package derive

import "daywheel/internal/domain"

func TotalCompleted(tasks []domain.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func TotalPending(tasks []domain.Task) int {
	return len(tasks) - TotalCompleted(tasks)
}

// CompletionPercent is 0 for an empty collection.
func CompletionPercent(tasks []domain.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	return float64(TotalCompleted(tasks)) * 100 / float64(len(tasks))
}
