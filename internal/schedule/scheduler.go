package schedule

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	// 2 hours of schedulable task time per calendar day.
	dayCapacityMinutes = 120

	// Placement starts at 10:00, offset by the day's accumulated load.
	dayStartMinutes = 10 * 60

	windowDays       = 7
	mustDoWindowDays = 14

	defaultMinutes  = 30
	defaultPriority = "medium"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// RequestItem is one task in a schedule preview request. The optional
// fields are kept raw so a malformed value degrades that field only,
// never the whole request.
type RequestItem struct {
	Title            string          `json:"title"`
	EstimatedMinutes json.RawMessage `json:"estimated_minutes"`
	Priority         json.RawMessage `json:"priority"`
	DueAt            json.RawMessage `json:"due_at"`
}

type PlacedItem struct {
	Title            string `json:"title"`
	Start            string `json:"start"`
	End              string `json:"end"`
	Priority         string `json:"priority"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

type DaySchedule struct {
	Date  string       `json:"date"`
	Items []PlacedItem `json:"items"`
}

type QuickWin struct {
	Title            string `json:"title"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Priority         string `json:"priority"`
}

// item is a normalized task ready for placement.
type item struct {
	title    string
	minutes  int
	priority string
	due      *time.Time
}

// BuildWeek places tasks into the 7 days starting at today, under the
// per-day capacity. Tasks due within 14 days are placed first, in input
// order; everything else follows, in input order. Tasks that fit nowhere
// come back as quick wins. Pure function of its inputs.
func BuildWeek(tasks []RequestItem, today time.Time) ([]DaySchedule, []QuickWin) {
	normalized := normalizeItems(tasks)

	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	var days [windowDays]time.Time
	for i := range days {
		days[i] = todayDate.AddDate(0, 0, i)
	}

	var load [windowDays]int
	var placed [windowDays][]PlacedItem

	// must-dos first: anything due within the next 14 days (overdue
	// included), then the rest; relative input order preserved
	var mustDos, others []item
	for _, it := range normalized {
		if it.due != nil && daysUntil(todayDate, *it.due) <= mustDoWindowDays {
			mustDos = append(mustDos, it)
		} else {
			others = append(others, it)
		}
	}

	place := func(it item) bool {
		for i, d := range days {
			// days are generated ascending, so once a day passes the
			// due date no later day can qualify
			if it.due != nil && d.After(dateOf(*it.due, today.Location())) {
				break
			}
			if load[i]+it.minutes <= dayCapacityMinutes {
				start := d.Add(time.Duration(dayStartMinutes+load[i]) * time.Minute)
				end := start.Add(time.Duration(it.minutes) * time.Minute)
				placed[i] = append(placed[i], PlacedItem{
					Title:            it.title,
					Start:            start.Format(dateTimeLayout),
					End:              end.Format(dateTimeLayout),
					Priority:         it.priority,
					EstimatedMinutes: it.minutes,
				})
				load[i] += it.minutes
				return true
			}
		}
		return false
	}

	quickWins := []QuickWin{}
	for _, it := range append(mustDos, others...) {
		if !place(it) {
			quickWins = append(quickWins, QuickWin{
				Title:            it.title,
				EstimatedMinutes: it.minutes,
				Priority:         it.priority,
			})
		}
	}

	week := make([]DaySchedule, windowDays)
	for i, d := range days {
		items := placed[i]
		if items == nil {
			items = []PlacedItem{}
		}
		week[i] = DaySchedule{Date: d.Format(dateLayout), Items: items}
	}

	return week, quickWins
}

// normalizeItems drops untitled tasks and defaults the rest of the
// fields; individual malformed values never fail the batch.
func normalizeItems(tasks []RequestItem) []item {
	var out []item
	for _, t := range tasks {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			continue
		}

		minutes := parseMinutes(t.EstimatedMinutes)
		if minutes < 1 {
			minutes = defaultMinutes
		}

		priority := parsePriority(t.Priority)
		if priority == "" {
			priority = defaultPriority
		}

		out = append(out, item{
			title:    title,
			minutes:  minutes,
			priority: priority,
			due:      parseDueAt(t.DueAt),
		})
	}
	return out
}

func parseMinutes(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}

func parsePriority(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// parseDueAt treats anything unparsable as "no due date".
func parseDueAt(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return nil
	}
	for _, layout := range []string{
		time.RFC3339,
		dateTimeLayout,
		dateLayout,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func daysUntil(todayDate time.Time, due time.Time) int {
	d := dateOf(due, todayDate.Location())
	return int(d.Sub(todayDate).Hours() / 24)
}
