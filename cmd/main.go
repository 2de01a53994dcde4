package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myautosound/autosound-backend/internal/diagnosis"
	"github.com/myautosound/autosound-backend/internal/history"
	"github.com/myautosound/autosound-backend/internal/http/handlers"
	"github.com/myautosound/autosound-backend/internal/observability"
	"github.com/myautosound/autosound-backend/internal/platform/envutil"
	"github.com/myautosound/autosound-backend/internal/platform/logger"
	"github.com/myautosound/autosound-backend/internal/platform/openai"
	"github.com/myautosound/autosound-backend/internal/platform/sendgrid"
	"github.com/myautosound/autosound-backend/internal/server"
	"github.com/myautosound/autosound-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing (no-op unless OTEL_ENABLED)
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{ServiceName: "autosound-backend"})

	// Clients
	log.Info("Setting up clients from main...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	transcriber, err := services.NewTranscriberFromEnv(log, openaiClient)
	if err != nil {
		log.Error("Could not init transcriber", "error", err)
		os.Exit(1)
	}
	var mailClient sendgrid.Client
	if mc, err := sendgrid.NewFromEnv(log); err != nil {
		log.Warn("SendGrid not configured, feedback mail disabled", "error", err)
	} else {
		mailClient = mc
	}

	// Suggestion table
	table, err := diagnosis.TableFromEnv()
	if err != nil {
		log.Error("Could not load suggestion table", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up services from main...")
	historyStore := history.NewStore()
	diagnosisService := services.NewDiagnosisService(log, openaiClient, transcriber, table)
	feedbackService := services.NewFeedbackService(log, mailClient, envutil.Str("FEEDBACK_TO_EMAIL", ""))

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler()
	diagnoseHandler := handlers.NewDiagnoseHandler(log, diagnosisService, historyStore)
	feedbackHandler := handlers.NewFeedbackHandler(log, feedbackService)
	historyHandler := handlers.NewHistoryHandler(log, historyStore)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		HealthHandler:   healthHandler,
		DiagnoseHandler: diagnoseHandler,
		FeedbackHandler: feedbackHandler,
		HistoryHandler:  historyHandler,
	})

	port := envutil.Str("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
	}

	if shutdownOTel != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shutdownCtx); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}
}
