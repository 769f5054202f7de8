// Command local-server runs every function in one process for local
// development. Settings come from the environment or a .env file.
package main

import (
	"log/slog"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/summaryflow/internal/gcp"
	"github.com/Lllllllleong/summaryflow/internal/handlers"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env file", "error", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	functions.CloudEvent("SummarizeObject", handlers.SummarizeObject)
	functions.HTTP("HandleUploadURL", handlers.HandleUploadURL)
	functions.HTTP("HandleDownloadURL", handlers.HandleDownloadURL)

	port := gcp.GetEnv("PORT", "8080")
	slog.Info("Starting local functions server.", "port", port)
	if err := funcframework.Start(port); err != nil {
		slog.Error("Local functions server stopped", "error", err)
		os.Exit(1)
	}
}
