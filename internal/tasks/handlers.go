package tasks

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"weekly-planner-backend/internal/analytics"
	"weekly-planner-backend/internal/auth"
)

const taskColumns = `id, plan_id, title, status, due_at, notes, priority, estimated_minutes, tags, created_at, updated_at`

const taskColumnsT = `t.id, t.plan_id, t.title, t.status, t.due_at, t.notes, t.priority, t.estimated_minutes, t.tags, t.created_at, t.updated_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.PlanID, &t.Title, &t.Status,
		&t.DueAt, &t.Notes, &t.Priority, &t.EstimatedMinutes,
		pq.Array(&t.Tags),
		&t.CreatedAt, &t.UpdatedAt,
	)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, err
}

func ListTasksHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := dbx.Query(`
			SELECT `+taskColumnsT+`
			FROM tasks t
			JOIN plans p ON p.id = t.plan_id
			WHERE p.user_id = $1
			ORDER BY t.created_at DESC
		`, uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []Task{}
		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				http.Error(w, "scan error", http.StatusInternalServerError)
				return
			}
			result = append(result, t)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// UpcomingTasksHandler lists not-completed tasks ordered by due date,
// undated last, then newest first. GET /tasks/upcoming?limit=N
func UpcomingTasksHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		rows, err := dbx.Query(`
			SELECT `+taskColumnsT+`
			FROM tasks t
			JOIN plans p ON p.id = t.plan_id
			WHERE p.user_id = $1 AND t.status <> 'completed'
			ORDER BY t.due_at ASC NULLS LAST, t.created_at DESC
			LIMIT $2
		`, uid, limit)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []Task{}
		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				http.Error(w, "scan error", http.StatusInternalServerError)
				return
			}
			result = append(result, t)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

type taskBody struct {
	Plan             *int       `json:"plan"`
	Title            *string    `json:"title"`
	Status           *string    `json:"status"`
	DueAt            *time.Time `json:"due_at"`
	Notes            *string    `json:"notes"`
	Priority         *string    `json:"priority"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	Tags             []string   `json:"tags"`
}

func (b *taskBody) validate(forCreate bool) string {
	if forCreate {
		if b.Title == nil || strings.TrimSpace(*b.Title) == "" {
			return "title is required"
		}
	}
	if b.Title != nil {
		t := strings.TrimSpace(*b.Title)
		if t == "" || len(t) > 255 {
			return "invalid title"
		}
		*b.Title = t
	}
	if b.Status != nil && !validStatuses[*b.Status] {
		return "invalid status"
	}
	if b.Priority != nil && !validPriorities[*b.Priority] {
		return "invalid priority"
	}
	if b.EstimatedMinutes != nil && *b.EstimatedMinutes < 1 {
		return "estimated_minutes must be positive"
	}
	return ""
}

// ensureDefaultPlan returns the user's "My Plan" plan, creating it if
// needed, for tasks created without an explicit plan.
func ensureDefaultPlan(dbx *sql.DB, uid int) (int, error) {
	var id int
	err := dbx.QueryRow(`
		SELECT id FROM plans
		WHERE user_id = $1 AND title = 'My Plan'
		ORDER BY id LIMIT 1
	`, uid).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = dbx.QueryRow(`
		INSERT INTO plans (user_id, title, status)
		VALUES ($1, 'My Plan', 'active')
		RETURNING id
	`, uid).Scan(&id)
	return id, err
}

func CreateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body taskBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if msg := body.validate(true); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		var planID int
		if body.Plan != nil {
			// plan must belong to the caller
			err := dbx.QueryRow(`
				SELECT id FROM plans WHERE id = $1 AND user_id = $2
			`, *body.Plan, uid).Scan(&planID)
			if err != nil {
				http.Error(w, "plan not found", http.StatusBadRequest)
				return
			}
		} else {
			var err error
			planID, err = ensureDefaultPlan(dbx, uid)
			if err != nil {
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
		}

		status := "pending"
		if body.Status != nil {
			status = *body.Status
		}
		priority := "medium"
		if body.Priority != nil {
			priority = *body.Priority
		}
		tags := body.Tags
		if tags == nil {
			tags = []string{}
		}

		row := dbx.QueryRow(`
			INSERT INTO tasks (plan_id, title, status, due_at, notes, priority, estimated_minutes, tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+taskColumns+`
		`, planID, *body.Title, status, body.DueAt, body.Notes, priority, body.EstimatedMinutes, pq.Array(tags))

		t, err := scanTask(row)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		{
			env := analytics.FromRequest(r)
			env.UserID = uid
			props := map[string]any{
				"task_id":  t.ID,
				"plan_id":  t.PlanID,
				"has_due":  t.DueAt != nil,
				"text_len": len(t.Title),
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_created", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(t)
	}
}

// DetailHandler serves GET/PATCH/DELETE /tasks/{id}.
func DetailHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/tasks/"), "/")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodGet:
			getTask(dbx, w, uid, id)
		case http.MethodPatch, http.MethodPut:
			updateTask(dbx, w, r, uid, id)
		case http.MethodDelete:
			deleteTask(dbx, w, uid, id)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func getTask(dbx *sql.DB, w http.ResponseWriter, uid, id int) {
	row := dbx.QueryRow(`
		SELECT `+taskColumnsT+`
		FROM tasks t
		JOIN plans p ON p.id = t.plan_id
		WHERE t.id = $1 AND p.user_id = $2
	`, id, uid)

	t, err := scanTask(row)
	if err != nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}

func updateTask(dbx *sql.DB, w http.ResponseWriter, r *http.Request, uid, id int) {
	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if msg := body.validate(false); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	var tagsArg any
	if body.Tags != nil {
		tagsArg = pq.Array(body.Tags)
	}

	row := dbx.QueryRow(`
		UPDATE tasks t
		SET title             = COALESCE($1, t.title),
		    status            = COALESCE($2, t.status),
		    due_at            = COALESCE($3, t.due_at),
		    notes             = COALESCE($4, t.notes),
		    priority          = COALESCE($5, t.priority),
		    estimated_minutes = COALESCE($6, t.estimated_minutes),
		    tags              = COALESCE($7, t.tags),
		    updated_at        = now()
		FROM plans p
		WHERE t.id = $8 AND p.id = t.plan_id AND p.user_id = $9
		RETURNING `+taskColumnsT+`
	`, body.Title, body.Status, body.DueAt, body.Notes, body.Priority, body.EstimatedMinutes, tagsArg, id, uid)

	t, err := scanTask(row)
	if err != nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}

func deleteTask(dbx *sql.DB, w http.ResponseWriter, uid, id int) {
	res, err := dbx.Exec(`
		DELETE FROM tasks t
		USING plans p
		WHERE t.id = $1 AND p.id = t.plan_id AND p.user_id = $2
	`, id, uid)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
