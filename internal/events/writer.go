// Package events keeps an append-only JSONL diary of store changes in the
// workspace. It is a best-effort log: write failures never fail the
// mutation that produced the event.
package events

import (
	"bufio"
	"encoding/json"
	"os"
	"time"
)

const (
	TaskCreated         = "task.created"
	TaskUpdated         = "task.updated"
	TaskDeleted         = "task.deleted"
	TaskCompleted       = "task.completed"
	TaskReopened        = "task.reopened"
	AchievementUnlocked = "achievement.unlocked"
	FlushFailed         = "flush.failed"
)

type Event struct {
	TS      string         `json:"ts"`
	Type    string         `json:"type"`
	TaskID  string         `json:"task_id,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Writer struct {
	Path string
	Now  func() time.Time
}

func (w Writer) Append(evtType, taskID string, payload map[string]any) error {
	if w.Path == "" {
		return nil
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	e := Event{
		TS:      now().UTC().Format(time.RFC3339),
		Type:    evtType,
		TaskID:  taskID,
		Payload: payload,
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(w.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(data, '\n'))
	return err
}

// Tail returns the last n events, oldest first. A missing log is empty.
func Tail(path string, n int) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	var all []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		all = append(all, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}
