package store

import (
	"errors"
	"fmt"
	"testing"

	"daywheel/internal/domain"
)

func task(id, title string) domain.Task {
	return domain.Task{ID: id, Title: title, Date: "2024-01-01"}
}

func TestAddGetDelete(t *testing.T) {
	s := New()
	if err := s.Add(task("a", "one")); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := s.Get("a")
	if err != nil || got.Title != "one" {
		t.Fatalf("get: %v %+v", err, got)
	}
	if err := s.Add(task("a", "dup")); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if err := s.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotFoundLeavesStoreUnchanged(t *testing.T) {
	s := New()
	_ = s.Add(task("a", "one"))
	if err := s.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Put(task("missing", "x")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("put: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("store changed: len=%d", s.Len())
	}
}

func TestOrderPreserved(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		_ = s.Add(task(fmt.Sprintf("t%d", i), "task"))
	}
	_ = s.Delete("t2")
	snap := s.Snapshot()
	want := []string{"t0", "t1", "t3", "t4"}
	if len(snap) != len(want) {
		t.Fatalf("len=%d", len(snap))
	}
	for i, id := range want {
		if snap[i].ID != id {
			t.Fatalf("pos %d: got %s want %s", i, snap[i].ID, id)
		}
	}
	// updates keep position
	u := snap[1]
	u.Title = "renamed"
	if err := s.Put(u); err != nil {
		t.Fatalf("put: %v", err)
	}
	snap = s.Snapshot()
	if snap[1].ID != "t1" || snap[1].Title != "renamed" {
		t.Fatalf("update moved task: %+v", snap[1])
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	_ = s.Add(task("a", "one"))
	snap := s.Snapshot()
	snap[0].Title = "mutated"
	got, _ := s.Get("a")
	if got.Title != "one" {
		t.Fatal("snapshot aliased store memory")
	}
}

func TestReplace(t *testing.T) {
	s := New()
	_ = s.Add(task("old", "x"))
	s.Replace([]domain.Task{task("a", "one"), task("b", "two")})
	if s.Len() != 2 {
		t.Fatalf("len=%d", s.Len())
	}
	if _, err := s.Get("old"); !errors.Is(err, ErrNotFound) {
		t.Fatal("old task survived replace")
	}
	if got, err := s.Get("b"); err != nil || got.Title != "two" {
		t.Fatalf("get b: %v %+v", err, got)
	}
}
