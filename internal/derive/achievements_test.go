package derive

import "testing"

func TestEvaluateFirstTaskOnly(t *testing.T) {
	got := Evaluate(Catalog(), Totals{Completed: 1, Streak: 0})
	want := map[string]bool{
		"first-task": true,
		"streak-3":   false,
		"streak-7":   false,
		"tasks-10":   false,
		"tasks-50":   false,
	}
	for id, unlocked := range want {
		if got[id] != unlocked {
			t.Fatalf("%s: got %v want %v", id, got[id], unlocked)
		}
	}
}

func TestEvaluateThresholds(t *testing.T) {
	cases := []struct {
		totals Totals
		id     string
		want   bool
	}{
		{Totals{Completed: 0, Streak: 0}, "first-task", false},
		{Totals{Completed: 9, Streak: 0}, "tasks-10", false},
		{Totals{Completed: 10, Streak: 0}, "tasks-10", true},
		{Totals{Completed: 50, Streak: 0}, "tasks-50", true},
		{Totals{Completed: 0, Streak: 2}, "streak-3", false},
		{Totals{Completed: 0, Streak: 3}, "streak-3", true},
		{Totals{Completed: 0, Streak: 6}, "streak-7", false},
		{Totals{Completed: 0, Streak: 7}, "streak-7", true},
	}
	for _, tc := range cases {
		got := Evaluate(Catalog(), tc.totals)
		if got[tc.id] != tc.want {
			t.Fatalf("%s at %+v: got %v", tc.id, tc.totals, got[tc.id])
		}
	}
}

func TestEvaluateIsIndependentPerAchievement(t *testing.T) {
	got := Evaluate(Catalog(), Totals{Completed: 10, Streak: 7})
	for _, id := range []string{"first-task", "streak-3", "streak-7", "tasks-10"} {
		if !got[id] {
			t.Fatalf("%s should unlock", id)
		}
	}
	if got["tasks-50"] {
		t.Fatal("tasks-50 should stay locked")
	}
}
