package main

import (
	"log"
	"net/http"

	"github.com/rs/cors"

	"weekly-planner-backend/internal/auth"
	"weekly-planner-backend/internal/config"
	"weekly-planner-backend/internal/db"
	"weekly-planner-backend/internal/plans"
	"weekly-planner-backend/internal/schedule"
	"weekly-planner-backend/internal/suggest"
	"weekly-planner-backend/internal/tasks"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("failed to connect DB:", err)
	}
	defer database.Close()

	log.Println("connected to PostgreSQL")

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		log.Fatal("JWT_SECRET is required")
	}
	mw := auth.New(secret)

	// model client is optional: no key means the llm endpoint serves
	// keyword-based suggestions
	var adapter *suggest.Adapter
	if cfg.OpenAIKey != "" {
		adapter = suggest.NewAdapter(suggest.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel))
		log.Println("model suggestions enabled:", cfg.OpenAIModel)
	} else {
		adapter = suggest.NewAdapter(nil)
		log.Println("no OPENAI_API_KEY, model suggestions fall back to keywords")
	}

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ----- AUTH API -----
	mux.HandleFunc("/auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("/auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("/auth/me", mw.Wrap(auth.MeHandler(database)))

	// ----- PLANS API -----
	mux.HandleFunc("/plans", mw.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			plans.ListPlansHandler(database)(w, r)
		case http.MethodPost:
			plans.CreatePlanHandler(database)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/plans/", mw.Wrap(plans.DetailHandler(database)))

	// ----- SUGGESTIONS API -----
	mux.HandleFunc("/plans/generate", mw.Wrap(requirePost(suggest.GenerateHandler(database))))
	mux.HandleFunc("/plans/generate/llm", mw.Wrap(requirePost(suggest.GenerateLLMHandler(database, adapter))))

	// ----- TASKS API -----
	mux.HandleFunc("/tasks", mw.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			tasks.ListTasksHandler(database)(w, r)
		case http.MethodPost:
			tasks.CreateTaskHandler(database)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/tasks/upcoming", mw.Wrap(tasks.UpcomingTasksHandler(database)))
	mux.HandleFunc("/tasks/", mw.Wrap(tasks.DetailHandler(database)))

	// ----- SCHEDULE API -----
	mux.HandleFunc("/schedule/preview", mw.Wrap(requirePost(schedule.PreviewHandler(database))))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	log.Println("API server is running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}

func requirePost(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			next(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
