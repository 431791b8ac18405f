package events

import (
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	w := Writer{
		Path: path,
		Now:  func() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) },
	}
	if err := w.Append(TaskCreated, "t1", map[string]any{"title": "a"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Append(TaskCompleted, "t1", nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Append(TaskDeleted, "t1", nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	evts, err := Tail(path, 2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(evts) != 2 || evts[0].Type != TaskCompleted || evts[1].Type != TaskDeleted {
		t.Fatalf("got %+v", evts)
	}
	if evts[0].TS != "2024-01-01T10:00:00Z" || evts[0].TaskID != "t1" {
		t.Fatalf("fields: %+v", evts[0])
	}
}

func TestTailMissingFile(t *testing.T) {
	evts, err := Tail(filepath.Join(t.TempDir(), "none.jsonl"), 10)
	if err != nil || evts != nil {
		t.Fatalf("missing log: %v %+v", err, evts)
	}
}

func TestEmptyPathIsNoop(t *testing.T) {
	w := Writer{}
	if err := w.Append(TaskCreated, "t1", nil); err != nil {
		t.Fatalf("noop append: %v", err)
	}
}
