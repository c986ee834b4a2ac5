package plans

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"weekly-planner-backend/internal/analytics"
	"weekly-planner-backend/internal/auth"
)

type Plan struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ListPlansHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := dbx.Query(`
			SELECT id, title, status, created_at, updated_at
			FROM plans
			WHERE user_id = $1
			ORDER BY created_at DESC
		`, uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []Plan{}
		for rows.Next() {
			var p Plan
			if err := rows.Scan(&p.ID, &p.Title, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
				http.Error(w, "scan error", http.StatusInternalServerError)
				return
			}
			result = append(result, p)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func CreatePlanHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Title  string `json:"title"`
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		if len(body.Title) > 200 {
			http.Error(w, "title too long", http.StatusBadRequest)
			return
		}
		if body.Status == "" {
			body.Status = "active"
		}
		if body.Status != "active" && body.Status != "archived" {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		var p Plan
		p.Title = body.Title
		p.Status = body.Status
		err := dbx.QueryRow(`
			INSERT INTO plans (user_id, title, status)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`, uid, body.Title, body.Status).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		{
			env := analytics.FromRequest(r)
			env.UserID = uid
			props := map[string]any{
				"plan_id":  p.ID,
				"text_len": len(body.Title),
			}
			_ = analytics.Log(r.Context(), dbx, env, "plan_created", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)
	}
}

// DetailHandler serves GET/PATCH/DELETE /plans/{id}.
func DetailHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/plans/"), "/")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			http.Error(w, "invalid plan id", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodGet:
			getPlan(dbx, w, uid, id)
		case http.MethodPatch, http.MethodPut:
			updatePlan(dbx, w, r, uid, id)
		case http.MethodDelete:
			deletePlan(dbx, w, uid, id)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func getPlan(dbx *sql.DB, w http.ResponseWriter, uid, id int) {
	var p Plan
	err := dbx.QueryRow(`
		SELECT id, title, status, created_at, updated_at
		FROM plans
		WHERE id = $1 AND user_id = $2
	`, id, uid).Scan(&p.ID, &p.Title, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

func updatePlan(dbx *sql.DB, w http.ResponseWriter, r *http.Request, uid, id int) {
	var body struct {
		Title  *string `json:"title"`
		Status *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if body.Title != nil {
		t := strings.TrimSpace(*body.Title)
		if t == "" || len(t) > 200 {
			http.Error(w, "invalid title", http.StatusBadRequest)
			return
		}
		*body.Title = t
	}
	if body.Status != nil && *body.Status != "active" && *body.Status != "archived" {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	var p Plan
	err := dbx.QueryRow(`
		UPDATE plans
		SET title  = COALESCE($1, title),
		    status = COALESCE($2, status),
		    updated_at = now()
		WHERE id = $3 AND user_id = $4
		RETURNING id, title, status, created_at, updated_at
	`, body.Title, body.Status, id, uid).Scan(&p.ID, &p.Title, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

func deletePlan(dbx *sql.DB, w http.ResponseWriter, uid, id int) {
	res, err := dbx.Exec(`DELETE FROM plans WHERE id = $1 AND user_id = $2`, id, uid)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
