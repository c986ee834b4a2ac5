package schedule

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"weekly-planner-backend/internal/analytics"
)

// PreviewHandler proposes slots for tasks within the next 7 days:
// POST /schedule/preview {"tasks": [...]} -> {"week": [...], "quick_wins": [...]}
// An empty effective task list is a valid request, not an error.
func PreviewHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Tasks []RequestItem `json:"tasks"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		week, quickWins := BuildWeek(body.Tasks, time.Now())

		{
			placedCount := 0
			for _, d := range week {
				placedCount += len(d.Items)
			}
			env := analytics.FromRequest(r)
			props := map[string]any{
				"requested":  len(body.Tasks),
				"placed":     placedCount,
				"quick_wins": len(quickWins),
			}
			_ = analytics.Log(r.Context(), dbx, env, "schedule_previewed", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"week":       week,
			"quick_wins": quickWins,
		})
	}
}
