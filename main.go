package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"statedash/auth"
	"statedash/config"
	"statedash/datasets"
	"statedash/handlers"
	"statedash/middleware"
	"statedash/repository"
)

type HealthResponse struct {
	Status   string `json:"status"`
	DBStatus string `json:"db_status"`
	Error    string `json:"error,omitempty"`
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Status: "ok"}

	if config.DB == nil {
		response.Status = "error"
		response.DBStatus = "not_initialized"
		response.Error = "Database connection not initialized"
	} else if err := config.CheckPostgresHealth(); err != nil {
		response.Status = "error"
		response.DBStatus = "connection_error"
		response.Error = err.Error()
	} else {
		response.DBStatus = "connected"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func main() {
	startTime := time.Now()
	log.Printf("Starting server initialization at %s", startTime.Format(time.RFC3339))

	if err := config.LoadEnv(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	port := config.GetEnvWithDefault("PORT", "8080")

	log.Println("Initializing PostgreSQL database...")
	if err := config.InitDBWithRetry(5); err != nil {
		log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	defer config.CloseDB()

	config.InitCache()

	tokenAuth := auth.NewEnvTokenAuth("")
	repo := repository.NewPostgresProjectRepository(config.DB, tokenAuth)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure projects schema: %v", err)
	}

	// Dashboard datasets: fan out the five fetches and refresh hourly. The
	// derived-series cache is flushed on every reload so it never serves a
	// stale generation.
	fetcher := datasets.NewFetcher(nil, datasets.EndpointsFromEnv(os.Getenv))
	dataCtx := datasets.NewContext(fetcher)
	refreshDatasets := func() {
		dataCtx.Load(context.Background())
		config.DatasetCache.Flush()
	}
	go refreshDatasets()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 * * * *", refreshDatasets); err != nil {
		log.Fatalf("Failed to schedule dataset refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	projectHandler := handlers.NewProjectHandler(repo)
	dashboardHandler := handlers.NewDashboardHandler(dataCtx)
	syncHandler := handlers.NewSyncHandler(
		handlers.NewHTTPSheetImporter(config.GetEnvWithDefault("SYNC_IMPORTER_URL", "")))

	r := mux.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"https://statedash.my",
			"https://www.statedash.my",
		},
		AllowedMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
			"X-Sync-Secret",
			"Origin",
		},
		ExposedHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
		},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	r.Use(corsHandler.Handler)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.CompressHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	registerRoutes(api, projectHandler, dashboardHandler, syncHandler, tokenAuth)
	log.Println("Routes registered successfully")

	api.HandleFunc("/health/detailed", healthCheck).Methods("GET")

	srv := &http.Server{
		Handler:           r,
		Addr:              ":" + port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("Shutdown signal received")
	case err := <-serverErrors:
		log.Printf("Server error received: %v", err)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server shutdown completed successfully")
	}
}

func registerRoutes(
	api *mux.Router,
	projects *handlers.ProjectHandler,
	dashboard *handlers.DashboardHandler,
	sheetSync *handlers.SyncHandler,
	verifier auth.Verifier,
) {
	requireAuth := middleware.RequireAuth(verifier)
	authed := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	// Project routes. Reads are public; mutations and export require an
	// authenticated identity, with the role gate inside the repository.
	api.HandleFunc("/projects", projects.ListProjects).Methods("GET", "OPTIONS")
	api.Handle("/projects", authed(projects.CreateProject)).Methods("POST", "OPTIONS")
	api.HandleFunc("/projects/stats", projects.GetStatistics).Methods("GET", "OPTIONS")
	api.Handle("/projects/export-excel", authed(projects.ExportProjects)).Methods("GET", "OPTIONS")
	api.HandleFunc("/projects/{id}", projects.GetProject).Methods("GET", "OPTIONS")
	api.Handle("/projects/{id}", authed(projects.UpdateProject)).Methods("PUT", "OPTIONS")
	api.Handle("/projects/{id}", authed(projects.DeleteProject)).Methods("DELETE", "OPTIONS")

	// Dashboard routes
	api.HandleFunc("/dashboard/states", dashboard.GetStates).Methods("GET", "OPTIONS")
	api.HandleFunc("/dashboard/series", dashboard.GetSeries).Methods("GET", "OPTIONS")
	api.HandleFunc("/dashboard/latest", dashboard.GetLatest).Methods("GET", "OPTIONS")

	// Sheet sync trigger, gated by shared secret
	api.HandleFunc("/sync/sheet", sheetSync.TriggerSync).Methods("POST", "OPTIONS")

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
}
