package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/ssbprep/interview-coach/backend/internal/config"
	"github.com/ssbprep/interview-coach/backend/internal/handler"
	"github.com/ssbprep/interview-coach/backend/internal/model/question"
	"github.com/ssbprep/interview-coach/backend/internal/service/feedback"
	sentimentservice "github.com/ssbprep/interview-coach/backend/internal/service/sentiment"
	"github.com/ssbprep/interview-coach/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Load the static question catalog once; an unreadable catalog leaves
	// the endpoint serving an empty list rather than failing startup.
	questions, err := question.LoadFile(cfg.Storage.QuestionsPath)
	if err != nil {
		log.Printf("warning: %v", err)
		log.Println("continuing with an empty question catalog")
	}
	catalog := question.NewMemoryStore(questions)
	log.Printf("loaded %d questions from %s", len(questions), cfg.Storage.QuestionsPath)

	// Classifier and generative models are constructed once and shared
	// read-only across requests.
	classifier := sentimentservice.NewService(cfg.Sentiment.ServiceConfig())

	var immediateModel, comprehensiveModel model.ChatModel
	if cfg.Cohere.Enabled() {
		immediateModel, err = cfg.Cohere.NewImmediateModel(ctx)
		if err != nil {
			log.Fatalf("failed to create immediate feedback model: %v", err)
		}
		comprehensiveModel, err = cfg.Cohere.NewComprehensiveModel(ctx)
		if err != nil {
			log.Fatalf("failed to create comprehensive feedback model: %v", err)
		}
		log.Println("generative feedback enabled")
	} else {
		log.Println("COHERE_API_KEY not configured, serving rule-based feedback only")
	}

	feedbackSvc, err := feedback.NewService(ctx, immediateModel, comprehensiveModel)
	if err != nil {
		log.Fatalf("failed to initialize feedback service: %v", err)
	}

	store := storage.NewStore(cfg.Storage.SessionsDir)

	router := handler.NewRouter(catalog, classifier, feedbackSvc, store, cfg.Server.MaxBodyBytes)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("interview coach backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
