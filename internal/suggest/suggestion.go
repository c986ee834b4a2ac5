package suggest

import (
	"encoding/json"
	"strings"
	"time"
)

const maxTitleLen = 255

// TaskSuggestion is a single proposed task. Only the title is required;
// everything else stays nil when the producing tier didn't supply it.
type TaskSuggestion struct {
	Title            string     `json:"title"`
	DueAt            *time.Time `json:"due_at"`
	Notes            *string    `json:"notes"`
	Tags             []string   `json:"tags,omitempty"`
	Confidence       *float64   `json:"confidence,omitempty"`
	Priority         *string    `json:"priority,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	Status           *string    `json:"status,omitempty"`
}

var (
	validPriorities = map[string]bool{"low": true, "medium": true, "high": true}
	validStatuses   = map[string]bool{"pending": true, "in_progress": true, "completed": true}
)

// rawCandidate is the loosely-typed shape we accept from the model.
// A type mismatch on any field fails the unmarshal for that item only.
type rawCandidate struct {
	Title            *string   `json:"title"`
	DueAt            *string   `json:"due_at"`
	Notes            *string   `json:"notes"`
	Tags             []string  `json:"tags"`
	Confidence       *float64  `json:"confidence"`
	Priority         *string   `json:"priority"`
	EstimatedMinutes *int      `json:"estimated_minutes"`
	Status           *string   `json:"status"`
}

// NormalizeCandidate validates one raw model item against the suggestion
// schema. Items are accepted whole or dropped whole: a titled task with a
// corrupted field is worse than no suggestion at all.
func NormalizeCandidate(raw json.RawMessage) (TaskSuggestion, bool) {
	var c rawCandidate
	if err := json.Unmarshal(raw, &c); err != nil {
		return TaskSuggestion{}, false
	}

	if c.Title == nil {
		return TaskSuggestion{}, false
	}
	title := strings.TrimSpace(*c.Title)
	if title == "" || len(title) > maxTitleLen {
		return TaskSuggestion{}, false
	}

	s := TaskSuggestion{Title: title}

	if c.DueAt != nil && *c.DueAt != "" {
		due, ok := parseDue(*c.DueAt)
		if !ok {
			return TaskSuggestion{}, false
		}
		s.DueAt = &due
	}

	if c.Priority != nil && *c.Priority != "" {
		if !validPriorities[*c.Priority] {
			return TaskSuggestion{}, false
		}
		s.Priority = c.Priority
	}

	if c.Status != nil && *c.Status != "" {
		if !validStatuses[*c.Status] {
			return TaskSuggestion{}, false
		}
		s.Status = c.Status
	}

	if c.EstimatedMinutes != nil {
		if *c.EstimatedMinutes < 1 {
			return TaskSuggestion{}, false
		}
		s.EstimatedMinutes = c.EstimatedMinutes
	}

	s.Notes = c.Notes
	s.Tags = c.Tags
	s.Confidence = c.Confidence

	return s, true
}

// NormalizeCandidates runs NormalizeCandidate over a raw tasks array,
// keeping only fully-valid items.
func NormalizeCandidates(items []json.RawMessage) []TaskSuggestion {
	var out []TaskSuggestion
	for _, raw := range items {
		if s, ok := NormalizeCandidate(raw); ok {
			out = append(out, s)
		}
	}
	return out
}

// WrapTitles lifts bare keyword-engine titles into suggestion records.
// withDefaults fills priority=medium so the llm endpoint's output shape
// is uniform regardless of which tier produced it.
func WrapTitles(titles []string, withDefaults bool) []TaskSuggestion {
	out := make([]TaskSuggestion, 0, len(titles))
	for _, t := range titles {
		s := TaskSuggestion{Title: t}
		if withDefaults {
			medium := "medium"
			s.Priority = &medium
		}
		out = append(out, s)
	}
	return out
}

// parseDue accepts ISO-8601 timestamps, with or without zone offset,
// plus plain dates.
func parseDue(v string) (time.Time, bool) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
