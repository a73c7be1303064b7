package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/vetwriter/vetwriter/internal/ai"
	"github.com/vetwriter/vetwriter/internal/delivery"
	"github.com/vetwriter/vetwriter/internal/domain"
	"github.com/vetwriter/vetwriter/internal/infra"
	"github.com/vetwriter/vetwriter/internal/notify"
	"github.com/vetwriter/vetwriter/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / DB INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}

	if err := infra.InitSchema(ctx, db); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	blobStore, err := infra.NewS3Store()
	if err != nil {
		log.Fatalf("failed to init s3: %v", err)
	}

	jobQueue := infra.NewJobQueue(db, envInt("JOB_LEASE_SECONDS", 600))
	noteRepo := infra.NewNoteRepo(db)
	userRepo := infra.NewUserRepo(db)

	// =========================================================================
	// CLIENTS / NOTIFICATION
	// =========================================================================

	openAIClient := ai.NewClient()
	notifier := notify.NewTelegram()

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	authService := domain.NewAuthService(userRepo)
	noteService := domain.NewNoteService(noteRepo)
	intakeService := domain.NewIntakeService(blobStore, jobQueue, os.Getenv("WHISPER_MODEL"))

	// =========================================================================
	// BACKGROUND WORKERS
	// =========================================================================

	processor := worker.New(
		jobQueue,
		blobStore,
		openAIClient, // Whisper
		openAIClient, // SOAP note completion
		noteRepo,
		notifier,
		worker.Config{
			MaxAttempts:  envInt("JOB_MAX_ATTEMPTS", 3),
			StageTimeout: time.Duration(envInt("STAGE_TIMEOUT_SECONDS", 120)) * time.Second,
			PollInterval: time.Duration(envInt("POLL_INTERVAL_SECONDS", 2)) * time.Second,
		},
	)

	for i := 0; i < envInt("WORKER_CONCURRENCY", 1); i++ {
		go processor.Run(context.Background())
	}

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// HANDLERS
	visitHandler := delivery.NewVisitHandler(intakeService, zl)
	noteHandler := delivery.NewNoteHandler(noteService, zl)
	authHandler := delivery.NewAuthHandler(authService)

	// ROUTES
	delivery.RegisterRoutes(r, visitHandler, noteHandler, authHandler, authService)

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "vetwriter",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", name, err)
	}
	return n
}
