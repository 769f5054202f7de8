package main

import (
	"log/slog"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/summaryflow/internal/handlers"
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleDownloadURL", handlers.HandleDownloadURL)
}

// main is required by the Go Functions Framework.
func main() {}
