package derive

import (
	"fmt"
	"testing"

	"daywheel/internal/domain"
)

func onDay(id string, day domain.Day, completed bool) domain.Task {
	return domain.Task{ID: id, Title: id, Date: day, Completed: completed}
}

func TestForDayMembership(t *testing.T) {
	tasks := []domain.Task{
		onDay("a", "2024-01-01", false),
		onDay("b", "2024-01-02", false),
		onDay("c", "2024-01-01", true),
	}
	got := ForDay(tasks, "2024-01-01")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("got %+v", got)
	}
	// every task appears on its own day and no other
	for _, task := range tasks {
		found := false
		for _, g := range ForDay(tasks, task.Date) {
			if g.ID == task.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s missing from its own day", task.ID)
		}
		for _, g := range ForDay(tasks, "2024-06-06") {
			if g.ID == task.ID {
				t.Fatalf("%s grouped on wrong day", task.ID)
			}
		}
	}
}

func TestForDayEmptyAndMalformed(t *testing.T) {
	if got := ForDay(nil, "2024-01-01"); len(got) != 0 {
		t.Fatalf("empty set: got %+v", got)
	}
	tasks := []domain.Task{
		onDay("bad", "not-a-date", false),
		onDay("none", "", false),
		onDay("ok", "2024-01-01", false),
	}
	if got := ForDay(tasks, "2024-01-01"); len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("malformed dates leaked: %+v", got)
	}
	if got := ForDay(tasks, "not-a-date"); got != nil {
		t.Fatalf("invalid query day matched: %+v", got)
	}
}

func TestGroupDayOverflow(t *testing.T) {
	var tasks []domain.Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, onDay(fmt.Sprintf("t%d", i), "2024-01-01", false))
	}
	g := GroupDay(tasks, "2024-01-01", 3)
	if len(g.Tasks) != 3 || g.Overflow != 2 || g.Total != 5 {
		t.Fatalf("got tasks=%d overflow=%d total=%d", len(g.Tasks), g.Overflow, g.Total)
	}
	// under the cap there is no overflow
	g = GroupDay(tasks[:2], "2024-01-01", 3)
	if len(g.Tasks) != 2 || g.Overflow != 0 {
		t.Fatalf("got tasks=%d overflow=%d", len(g.Tasks), g.Overflow)
	}
}

func TestWeekIsSevenIndependentDays(t *testing.T) {
	tasks := []domain.Task{
		onDay("mon", "2024-01-01", false),
		onDay("sun", "2024-01-07", false),
		onDay("next", "2024-01-08", false),
	}
	groups := Week(tasks, "2024-01-01", 3)
	if len(groups) != 7 {
		t.Fatalf("got %d groups", len(groups))
	}
	if groups[0].Day != "2024-01-01" || groups[6].Day != "2024-01-07" {
		t.Fatalf("bad range: %s..%s", groups[0].Day, groups[6].Day)
	}
	if len(groups[0].Tasks) != 1 || len(groups[6].Tasks) != 1 {
		t.Fatalf("edge days wrong: %+v", groups)
	}
	for i := 1; i < 6; i++ {
		if len(groups[i].Tasks) != 0 {
			t.Fatalf("day %d not empty", i)
		}
	}
}
