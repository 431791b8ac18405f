package server

import (
	"daywheel/internal/domain"
	"daywheel/internal/engine"
)

// Request payloads

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty" doc:"YYYY-MM-DD; defaults to today"`
	Priority    *string `json:"priority,omitempty" enum:"low,medium,high"`
	Category    *string `json:"category,omitempty" enum:"personal,work,health,shopping,other"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Priority    *string `json:"priority,omitempty" enum:"low,medium,high"`
	Category    *string `json:"category,omitempty" enum:"personal,work,health,shopping,other"`
}

// Responses

type TaskResponse struct {
	Task domain.Task `json:"task"`
}

type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Total int           `json:"total"`
}

type WeekResponse struct {
	Start string            `json:"start"`
	Days  []dayGroupPayload `json:"days"`
}

type dayGroupPayload struct {
	Day      string        `json:"day"`
	Tasks    []domain.Task `json:"tasks"`
	Overflow int           `json:"overflow"`
	Total    int           `json:"total"`
}

type StatsResponse struct {
	Stats engine.Stats `json:"stats"`
}
