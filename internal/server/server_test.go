package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"daywheel/internal/config"
	"daywheel/internal/engine"
	"daywheel/internal/repo"
	daywheelsdk "daywheel/sdk/go"
)

func newTestServer(t *testing.T) (*daywheelsdk.Client, func()) {
	t.Helper()
	r, err := repo.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("file repo: %v", err)
	}
	cfg := config.Default()
	cfg.Storage = config.StorageFile
	cfg.Timezone = "UTC"
	e := engine.New(r, cfg)
	e.Now = func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) }
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	handler, err := New(Config{Engine: e, BasePath: "/v0"})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	client := daywheelsdk.New("http://" + ln.Addr().String())
	return client, func() {
		srv.Shutdown(context.Background())
		ln.Close()
	}
}

func TestTaskLifecycleOverAPI(t *testing.T) {
	client, done := newTestServer(t)
	defer done()
	ctx := context.Background()

	task, err := client.CreateTask(ctx, "write report", "2024-01-03")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID == "" || task.Date != "2024-01-03" || task.Completed {
		t.Fatalf("created: %+v", task)
	}

	task, err = client.Toggle(ctx, task.ID)
	if err != nil || !task.Completed {
		t.Fatalf("toggle: %v %+v", err, task)
	}

	tasks, err := client.ListTasks(ctx, "2024-01-03")
	if err != nil || len(tasks) != 1 {
		t.Fatalf("list by date: %v %d", err, len(tasks))
	}

	stats, err := client.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Streak != 1 || stats.TotalCompleted != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	unlocked := false
	for _, a := range stats.Achievements {
		if a.ID == "first-task" && a.Unlocked {
			unlocked = true
		}
	}
	if !unlocked {
		t.Fatal("first-task should be unlocked")
	}

	if err := client.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks, err = client.ListTasks(ctx, "")
	if err != nil || len(tasks) != 0 {
		t.Fatalf("after delete: %v %d", err, len(tasks))
	}
}

func TestWeekEndpoint(t *testing.T) {
	client, done := newTestServer(t)
	defer done()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := client.CreateTask(ctx, "busy day", "2024-01-01"); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	days, err := client.Week(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("%d days", len(days))
	}
	if len(days[0].Tasks) != 3 || days[0].Overflow != 2 || days[0].Total != 5 {
		t.Fatalf("day 0: %+v", days[0])
	}

	// default week is anchored around today (Wed 2024-01-03)
	days, err = client.Week(ctx, "")
	if err != nil || days[0].Day != "2024-01-01" {
		t.Fatalf("default week: %v %s", err, days[0].Day)
	}
}

func TestErrorEnvelope(t *testing.T) {
	client, done := newTestServer(t)
	defer done()
	ctx := context.Background()

	err := client.Delete(ctx, "missing")
	apiErr, ok := err.(*daywheelsdk.APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", apiErr.StatusCode)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(apiErr.Body), &envelope); err != nil {
		t.Fatalf("envelope: %v (%s)", err, apiErr.Body)
	}
	if envelope.Error.Code != "not_found" {
		t.Fatalf("code %q", envelope.Error.Code)
	}

	if _, err := client.Week(ctx, "nonsense"); err == nil {
		t.Fatal("expected invalid date error")
	}
}
