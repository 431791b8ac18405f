package daywheelsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Daywheel HTTP API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Task represents the API task model.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

// DayGroup is one day of the week view.
type DayGroup struct {
	Day      string `json:"day"`
	Tasks    []Task `json:"tasks"`
	Overflow int    `json:"overflow"`
	Total    int    `json:"total"`
}

// Achievement is one catalog entry with its unlock state.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  string `json:"unlocked_at,omitempty"`
}

// Stats is the gamification snapshot.
type Stats struct {
	TotalTasks        int           `json:"total_tasks"`
	TotalCompleted    int           `json:"total_completed"`
	TotalPending      int           `json:"total_pending"`
	CompletionPercent float64       `json:"completion_percent"`
	Streak            int           `json:"streak"`
	Achievements      []Achievement `json:"achievements"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateTask creates a task. date may be empty for today.
func (c *Client) CreateTask(ctx context.Context, title, date string) (Task, error) {
	body := map[string]any{"title": title}
	if date != "" {
		body["date"] = date
	}
	var resp struct {
		Task Task `json:"task"`
	}
	err := c.do(ctx, http.MethodPost, "v0/tasks", body, &resp)
	return resp.Task, err
}

// ListTasks lists all tasks, or only one day's when date is set.
func (c *Client) ListTasks(ctx context.Context, date string) ([]Task, error) {
	endpoint := "v0/tasks"
	if date != "" {
		endpoint += "?date=" + url.QueryEscape(date)
	}
	var resp struct {
		Tasks []Task `json:"tasks"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Tasks, err
}

// Toggle flips a task's completion state.
func (c *Client) Toggle(ctx context.Context, id string) (Task, error) {
	var resp struct {
		Task Task `json:"task"`
	}
	endpoint := fmt.Sprintf("v0/tasks/%s/toggle", url.PathEscape(id))
	err := c.do(ctx, http.MethodPost, endpoint, nil, &resp)
	return resp.Task, err
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "v0/tasks/"+url.PathEscape(id), nil, nil)
}

// Week returns the seven-day grouping starting at start (empty for the
// current week).
func (c *Client) Week(ctx context.Context, start string) ([]DayGroup, error) {
	endpoint := "v0/week"
	if start != "" {
		endpoint += "?start=" + url.QueryEscape(start)
	}
	var resp struct {
		Days []DayGroup `json:"days"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Days, err
}

// Stats returns streak, totals and achievement states.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var resp struct {
		Stats Stats `json:"stats"`
	}
	err := c.do(ctx, http.MethodGet, "v0/stats", nil, &resp)
	return resp.Stats, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
