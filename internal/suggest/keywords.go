package suggest

import "strings"

// keywordEntry maps a trigger word to the task list it contributes.
// Order matters: matches contribute their tasks in table order.
type keywordEntry struct {
	Keyword string
	Tasks   []string
}

var keywordTable = []keywordEntry{
	{
		Keyword: "wedding",
		Tasks: []string{
			"RSVP to the invitation",
			"Send a gift",
			"Book flights",
			"Book hotel",
			"Plan outfit",
			"Arrange transportation to venue",
		},
	},
	{
		Keyword: "trip",
		Tasks: []string{
			"Book flights",
			"Book accommodation",
			"Create itinerary",
			"Set travel budget",
			"Arrange travel insurance",
		},
	},
	{
		Keyword: "birthday",
		Tasks: []string{
			"Plan guest list",
			"Send invitations",
			"Order cake",
			"Buy decorations",
			"Choose venue",
		},
	},
}

var genericTasks = []string{
	"Clarify the goal",
	"List key steps",
	"Set deadlines",
	"Identify required resources",
}

// TasksFromMessage turns a free-text message into an ordered, deduplicated
// list of task titles. The message is assumed non-empty and trimmed;
// the HTTP handler rejects blank input before calling in.
func TasksFromMessage(message string) []string {
	normalized := strings.ToLower(message)

	var tasks []string
	for _, entry := range keywordTable {
		if strings.Contains(normalized, entry.Keyword) {
			tasks = append(tasks, entry.Tasks...)
		}
	}

	if len(tasks) == 0 {
		tasks = genericTasks
	}

	// unique while preserving first-occurrence order
	seen := make(map[string]bool, len(tasks))
	unique := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}
	return unique
}

// PlanTitleFromMessage derives a display title for the generated plan.
func PlanTitleFromMessage(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "wedding"):
		return "Wedding Plan"
	case strings.Contains(lower, "trip"):
		return "Trip Plan"
	case strings.Contains(lower, "birthday"):
		return "Birthday Plan"
	}
	return "New Plan"
}
