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

	// Register the CloudEvent function. The framework routes storage
	// object-finalized events here.
	functions.CloudEvent("SummarizeObject", handlers.SummarizeObject)
}

// main is required by the Go Functions Framework.
func main() {}
