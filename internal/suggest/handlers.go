package suggest

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"weekly-planner-backend/internal/analytics"
)

// GenerateHandler is the keyword-only suggestion endpoint:
// POST /plans/generate {"message": "..."} -> {"tasks": [title, ...]}
func GenerateHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		message := strings.TrimSpace(body.Message)
		if message == "" {
			http.Error(w, "'message' is required", http.StatusBadRequest)
			return
		}

		tasks := TasksFromMessage(message)

		{
			env := analytics.FromRequest(r)
			props := map[string]any{
				"source":   "keyword",
				"count":    len(tasks),
				"text_len": len(message),
			}
			_ = analytics.Log(r.Context(), dbx, env, "tasks_generated", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tasks": tasks,
		})
	}
}

// GenerateLLMHandler is the model-backed suggestion endpoint:
// POST /plans/generate/llm {"message": "..."} -> {"plan_title": ..., "tasks": [TaskSuggestion, ...]}
// Provider failures degrade to keyword tasks; the response stays 200.
func GenerateLLMHandler(dbx *sql.DB, adapter *Adapter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		message := strings.TrimSpace(body.Message)
		if message == "" {
			http.Error(w, "'message' is required", http.StatusBadRequest)
			return
		}

		suggestions := adapter.Suggest(r.Context(), message)
		planTitle := PlanTitleFromMessage(message)

		{
			env := analytics.FromRequest(r)
			props := map[string]any{
				"source":   "llm",
				"count":    len(suggestions),
				"text_len": len(message),
			}
			_ = analytics.Log(r.Context(), dbx, env, "tasks_generated", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"plan_title": planTitle,
			"tasks":      suggestions,
		})
	}
}
