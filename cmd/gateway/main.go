package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/mentoring-core/internal/api/http"
	auth "github.com/mind-engage/mentoring-core/internal/auth/middleware"
	"github.com/mind-engage/mentoring-core/internal/config"
	"github.com/mind-engage/mentoring-core/internal/db"
	"github.com/mind-engage/mentoring-core/internal/events"
	"github.com/mind-engage/mentoring-core/internal/mentoring"
	"github.com/mind-engage/mentoring-core/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		dbh      *sql.DB
		blocks   mentoring.BlockStore
		states   mentoring.StateStore
		sessions mentoring.SessionStore
		answers  mentoring.AnswerStore
		pub      mentoring.Publisher
		sublog   mentoring.SubmissionLogger
	)
	if cfg.StoreDriver == "memory" {
		mem := mentoring.NewMemoryStore()
		blocks, states, sessions, answers = mem, mem, mem, mem
	} else {
		var err error
		dbh, err = db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		store := mentoring.NewSQLStore(dbh, cfg.DBDriver)
		blocks, states, sessions, answers = store, store, store, store
		pub = events.NewEventRepo(dbh, cfg.SiteID)
		sublog = mentoring.NewSQLSubmissionLog(dbh)
	}

	svc := mentoring.NewService(blocks, states, sessions, answers, pub, sublog)
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", api.LoginHandler(authSvc, dbh, cfg.AdminUser, cfg.AdminPassHash))
	}

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Authoring
		pr.With(rbac.Require("block:author")).
			Post("/blocks", api.UpsertBlockHandler(blocks))
		pr.With(rbac.Require("blocks:list")).
			Get("/blocks", api.ListBlocksHandler(blocks))

		// Student/Teacher: fetch block (answer keys stripped for students)
		pr.With(rbac.Require("block:view")).
			Get("/blocks/{blockID}", api.GetBlockHandler(blocks))

		// Student flow
		pr.With(rbac.Require("block:submit")).
			Post("/blocks/{blockID}/submit", api.SubmitHandler(svc))
		pr.With(rbac.Require("block:submit")).
			Post("/blocks/{blockID}/submit-step", api.SubmitStepHandler(svc))
		pr.With(rbac.Require("block:submit")).
			Post("/blocks/{blockID}/try-again", api.TryAgainHandler(svc))
		pr.With(rbac.RequireAny("state:view-own", "state:view-all")).
			Get("/blocks/{blockID}/state", api.GetStateHandler(svc))

		if dbh != nil {
			pr.With(rbac.Require("user:change_password")).
				Post("/users/change-password", api.ChangePasswordHandler(dbh))
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, store=%s)", cfg.HTTPAddr, cfg.Mode, cfg.StoreDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
