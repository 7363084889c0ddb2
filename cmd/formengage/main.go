package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/formengage/formengage/internal/analytics"
	api "github.com/formengage/formengage/internal/api/http"
	"github.com/formengage/formengage/internal/auth"
	"github.com/formengage/formengage/internal/config"
	"github.com/formengage/formengage/internal/db"
	"github.com/formengage/formengage/internal/form"
	"github.com/formengage/formengage/internal/submission"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	forms := form.NewSQLStore(dbh, cfg.DBDriver)
	subs := submission.NewSQLStore(dbh, cfg.DBDriver)

	// --- Analytics cache (optional) ---
	var cache *analytics.Cache
	if cfg.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		cache = analytics.NewCache(rc, cfg.AnalyticsCacheTTL)
	}
	invalidate := func(formID int64) {
		if err := cache.Invalidate(context.Background(), formID); err != nil {
			log.Printf("analytics cache invalidate form %d: %v", formID, err)
		}
	}

	// --- Auth (builder sessions) ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
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

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.AdminUser, cfg.AdminPassHash))

	// Builder API (JWT)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Post("/forms", api.CreateFormHandler(forms))
		pr.Get("/forms", api.ListFormsHandler(forms))
		pr.Get("/forms/{formID}", api.GetFormHandler(forms))
		pr.Delete("/forms/{formID}", api.DeleteFormHandler(forms))

		pr.Put("/forms/{formID}/rules", api.PutRulesHandler(forms))
		pr.Get("/forms/{formID}/rules", api.GetRulesHandler(forms))

		pr.Post("/forms/{formID}/preview", api.PreviewHandler(forms))

		pr.Get("/forms/{formID}/submissions", api.ListSubmissionsHandler(subs))
		pr.Get("/submissions/{submissionID}/breakdown", api.BreakdownHandler(forms, subs))

		pr.Get("/forms/{formID}/analytics/summary", api.SummaryHandler(forms, subs, cache))
		pr.Get("/forms/{formID}/analytics/distribution", api.DistributionHandler(forms, subs, cache))
		pr.Get("/forms/{formID}/analytics/top", api.TopPerformersHandler(subs))
	})

	// Public respondent API (anonymous)
	r.Route("/public", func(pub chi.Router) {
		pub.Get("/forms/{formID}", api.GetPublicFormHandler(forms))
		pub.Post("/forms/{formID}/submissions", api.CreateSubmissionHandler(subs))
		pub.Post("/submissions/{submissionID}/answers", api.SaveAnswersHandler(subs))
		pub.Post("/submissions/{submissionID}/visibility", api.VisibilityHandler(forms, subs))
		pub.Post("/submissions/{submissionID}/submit", api.SubmitHandler(forms, subs, invalidate))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("formengage listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
