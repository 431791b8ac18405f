package derive

import (
	"testing"

	"daywheel/internal/domain"
)

func TestTotals(t *testing.T) {
	tasks := []domain.Task{
		onDay("a", "2024-01-01", true),
		onDay("b", "2024-01-01", false),
		onDay("c", "2024-01-02", true),
		onDay("d", "2024-01-03", false),
	}
	if got := TotalCompleted(tasks); got != 2 {
		t.Fatalf("completed: %d", got)
	}
	if got := TotalPending(tasks); got != 2 {
		t.Fatalf("pending: %d", got)
	}
	if got := CompletionPercent(tasks); got != 50 {
		t.Fatalf("percent: %v", got)
	}
	if got := CompletionPercent(nil); got != 0 {
		t.Fatalf("empty percent: %v", got)
	}
}
