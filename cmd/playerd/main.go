package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/microlearn/courseplayer/internal/api/http"
	"github.com/microlearn/courseplayer/internal/auth"
	"github.com/microlearn/courseplayer/internal/config"
	"github.com/microlearn/courseplayer/internal/course"
	"github.com/microlearn/courseplayer/internal/kv"
	"github.com/microlearn/courseplayer/internal/progress"
	"github.com/microlearn/courseplayer/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- Persistence ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var backend kv.Store
	if cfg.DBDriver == "memory" {
		backend = kv.NewInMemoryStore()
	} else {
		dbh, err := kv.Open(ctx, kv.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		backend = kv.NewSQLStore(dbh)
	}
	store := progress.NewStore(backend)

	// --- Catalog ---
	cat := course.Load(cfg.DataDir)
	log.Printf("catalog loaded: %d modules from %s", len(cat.Modules()), cfg.DataDir)

	// --- Media ---
	bs, err := storage.NewFSStore(cfg.MediaDir)
	if err != nil {
		log.Fatalf("media store: %v", err)
	}

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Pass"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public: identity + catalog
	r.Post("/auth/identify", api.IdentifyHandler(authSvc, store))
	r.Route("/courses", func(cr chi.Router) {
		cr.Get("/modules", api.ListModulesHandler(cat))
		cr.Get("/modules/{moduleID}", api.GetModuleHandler(cat))
		cr.Get("/modules/{moduleID}/clips", api.ListClipsHandler(cat))
		cr.Get("/modules/{moduleID}/clips/{clipID}/questions", api.ListClipQuestionsHandler(cat))
		cr.Get("/modules/{moduleID}/quiz", api.GetQuizHandler(cat))
	})
	r.Route("/media", func(mr chi.Router) {
		api.MountMedia(mr, bs)
	})

	// Learner progress (token required)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Get("/me", api.WhoAmIHandler(store))
		pr.Route("/progress/{moduleID}", func(mr chi.Router) {
			mr.Get("/", api.GetProgressHandler(store))
			mr.Put("/", api.PutProgressHandler(store))
			mr.Post("/audio", api.SaveAudioTimeHandler(store))
			mr.Post("/reflections", api.SaveReflectionsHandler(store))
			mr.Post("/clip-answers", api.SaveClipAnswerHandler(store, cat))
			mr.Post("/selections", api.SaveSelectionHandler(store))
			mr.Post("/submit", api.SubmitQuizHandler(store, cat))
			mr.Get("/certificate", api.CertificateHandler(store, cat))
		})
	})

	// Operator endpoints
	r.Group(func(ar chi.Router) {
		ar.Use(auth.AdminMiddleware(cfg.AdminPassHash))
		ar.Post("/admin/reload", api.ReloadCatalogHandler(cat, cfg.DataDir))
		ar.Post("/admin/media/*", api.UploadMediaHandler(bs))
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("courseplayer listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
