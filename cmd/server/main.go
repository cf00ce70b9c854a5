package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jun/drivebox/internal/app"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	application, err := app.New(context.Background())
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	slog.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, application.Handler()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
