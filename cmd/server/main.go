package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notesmith-server/internal/config"
	"notesmith-server/internal/handler"
	"notesmith-server/internal/llm"
	"notesmith-server/internal/middleware"
	"notesmith-server/internal/repository"
	"notesmith-server/internal/service"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Server.Env)
	defer logger.Sync()

	couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)

	client, err := kivik.New("couch", couchURL)
	if err != nil {
		logger.Fatal("failed to connect to CouchDB", zap.Error(err))
	}

	exists, err := client.DBExists(context.Background(), cfg.Database.Name)
	if err != nil {
		logger.Fatal("failed to check database existence", zap.Error(err))
	}

	if !exists {
		if err := client.CreateDB(context.Background(), cfg.Database.Name); err != nil {
			logger.Fatal("failed to create database", zap.Error(err))
		}
		logger.Info("created database", zap.String("name", cfg.Database.Name))
	}

	userRepo := repository.NewUserRepository(client, cfg.Database.Name)
	notebookRepo := repository.NewNotebookRepository(client, cfg.Database.Name)
	noteRepo := repository.NewNoteRepository(client, cfg.Database.Name)
	rawInputRepo := repository.NewRawInputRepository(client, cfg.Database.Name)
	qaRepo := repository.NewQARepository(client, cfg.Database.Name)

	gateway, err := llm.NewGeminiGateway(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	if err != nil {
		logger.Fatal("failed to init LLM gateway", zap.Error(err))
	}
	llmService := llm.NewService(gateway)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	quotaService := service.NewQuotaService(userRepo, cfg.LLM.DailyLimit)
	notebookService := service.NewNotebookService(notebookRepo, noteRepo, rawInputRepo, qaRepo)
	noteService := service.NewNoteService(noteRepo, qaRepo, rawInputRepo, notebookRepo, llmService)
	rawInputService := service.NewRawInputService(rawInputRepo, noteRepo, notebookRepo, llmService)

	authHandler := handler.NewAuthHandler(authService, logger)
	notebookHandler := handler.NewNotebookHandler(notebookService, logger)
	noteHandler := handler.NewNoteHandler(noteService, logger)
	rawInputHandler := handler.NewRawInputHandler(rawInputService, logger)

	quota := middleware.LLMQuotaMiddleware(quotaService)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(authService))

	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	protected.HandleFunc("/auth/update-password", authHandler.UpdatePassword).Methods("PATCH", "OPTIONS")
	protected.HandleFunc("/auth/update-view-preference", authHandler.UpdateViewPreference).Methods("PATCH", "OPTIONS")

	protected.HandleFunc("/notebooks", notebookHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notebooks", notebookHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notebooks/{id}", notebookHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notebooks/{id}", notebookHandler.Update).Methods("PATCH", "OPTIONS")
	protected.HandleFunc("/notebooks/{id}", notebookHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/notebooks/{id}/raw-content", notebookHandler.RawContent).Methods("GET", "OPTIONS")

	protected.HandleFunc("/notes", noteHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes", noteHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Update).Methods("PATCH", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.Handle("/notes/{id}/ask", quota(http.HandlerFunc(noteHandler.Ask))).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}/qa", noteHandler.QAHistory).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}/qa/{qaId}", noteHandler.DeleteQA).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/raw-inputs", rawInputHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/raw-inputs", rawInputHandler.Create).Methods("POST", "OPTIONS")
	protected.Handle("/raw-inputs/multi", quota(http.HandlerFunc(rawInputHandler.GenerateNotes))).Methods("POST", "OPTIONS")
	protected.Handle("/raw-inputs/generate-from-topic", quota(http.HandlerFunc(rawInputHandler.GenerateFromTopic))).Methods("POST", "OPTIONS")
	protected.HandleFunc("/raw-inputs/{id}", rawInputHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/raw-inputs/{id}", rawInputHandler.Delete).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/health", healthHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 15*time.Second, // generation requests wait on the model
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting notesmith server",
			zap.String("addr", addr),
			zap.String("env", cfg.Server.Env),
			zap.String("model", cfg.LLM.Model),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"notesmith-server"}`))
}
