package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lllllllleong/summaryflow/internal/models"
	"github.com/Lllllllleong/summaryflow/internal/services"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

var (
	summarizerInstance *services.SummarizerFunction
	summarizerOnce     sync.Once
	summarizerInitErr  error
)

// SummarizeObject is the CloudEvent entry point fired for every object
// finalized in the input bucket.
func SummarizeObject(ctx context.Context, e cloudevents.Event) error {
	summarizerOnce.Do(func() {
		summarizerInstance, summarizerInitErr = services.NewSummarizer(context.Background())
	})
	if summarizerInitErr != nil {
		slog.Error("Critical error during function initialization", "error", summarizerInitErr)
		return summarizerInitErr
	}
	return Summarize(summarizerInstance)(ctx, e)
}

// Summarize returns the CloudEvent handler for svc. A pipeline error is
// returned so the invocation is marked failed.
func Summarize(svc *services.SummarizerFunction) func(context.Context, cloudevents.Event) error {
	return func(ctx context.Context, e cloudevents.Event) error {
		var data models.StorageObjectEvent
		if err := json.Unmarshal(e.Data(), &data); err != nil {
			slog.Error("Failed to unmarshal event data", "error", err, "eventId", e.ID(), "data", string(e.Data()))
			return fmt.Errorf("json.Unmarshal: %w", err)
		}
		if data.Bucket == "" || data.Name == "" {
			slog.Error("Event data is missing bucket or name", "eventId", e.ID(), "data", string(e.Data()))
			return fmt.Errorf("event %s: %w: bucket and name", e.ID(), services.ErrMissingParameter)
		}

		// The error is already logged with context within the Process method.
		_, err := svc.Process(ctx, e.ID(), data)
		return err
	}
}
