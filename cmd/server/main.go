package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/svgedit/internal/auth"
	"github.com/inamate/svgedit/internal/config"
	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/export"
	mw "github.com/inamate/svgedit/internal/middleware"
	"github.com/inamate/svgedit/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))

	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		slog.Error("load presets", "error", err, "file", cfg.PresetsFile)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	editor := engine.NewEngine(engine.OptionsFromConfig(cfg, presets, slog.Default()))
	loop := session.NewLoop(editor)
	go loop.Run(ctx)

	hub := session.NewHub(loop)
	go hub.Run(ctx)

	authService := auth.NewService(cfg.SessionSecret)
	authHandler := auth.NewHandler(authService)
	exportHandler := export.NewHandler(hub)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/session", authHandler.CreateSession).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes
	api := r.NewRoute().Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/export", exportHandler.Export).Methods("GET")
	api.HandleFunc("/import", exportHandler.Import).Methods("POST")
	api.HandleFunc("/ws", hub.ServeWS(cfg.Origins()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "canvas", fmt.Sprintf("%dx%d", cfg.CanvasWidth, cfg.CanvasHeight))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
