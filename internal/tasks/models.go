package tasks

import "time"

type Task struct {
	ID               int        `json:"id"`
	PlanID           int        `json:"plan"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	DueAt            *time.Time `json:"due_at"`
	Notes            *string    `json:"notes"`
	Priority         string     `json:"priority"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	Tags             []string   `json:"tags"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

var (
	validStatuses   = map[string]bool{"pending": true, "in_progress": true, "completed": true}
	validPriorities = map[string]bool{"low": true, "medium": true, "high": true}
)
