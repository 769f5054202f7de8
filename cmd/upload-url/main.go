package main

import (
	"log/slog"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/summaryflow/internal/handlers"
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// "HandleUploadURL" is the entry point name configured in GCP.
	functions.HTTP("HandleUploadURL", handlers.HandleUploadURL)
}

func main() {}
