package gcp

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/summaryflow/internal/models"
)

// Run statuses written to Firestore.
const (
	RunStatusProcessing = "PROCESSING"
	RunStatusComplete   = "COMPLETE"
	RunStatusFailed     = "FAILED"
)

// RunStore records one document per pipeline run. Documents are written and
// updated but never queried.
type RunStore struct {
	client     *firestore.Client
	collection string
}

// NewRunStore creates a Firestore-backed RunStore for the given project.
func NewRunStore(ctx context.Context, projectID, collection string) (*RunStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection must be provided to record runs")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &RunStore{client: client, collection: collection}, nil
}

// Start creates or resets the run document for runID.
func (s *RunStore) Start(ctx context.Context, runID string, run models.Run) error {
	run.Status = RunStatusProcessing
	run.CreatedAt = time.Now()
	if _, err := s.client.Collection(s.collection).Doc(runID).Set(ctx, run); err != nil {
		return fmt.Errorf("failed to create run document %s: %w", runID, err)
	}
	return nil
}

// Complete marks runID as finished and stores its output keys.
func (s *RunStore) Complete(ctx context.Context, runID, summaryKey, translationKey string) error {
	return s.update(ctx, runID, []firestore.Update{
		{Path: "status", Value: RunStatusComplete},
		{Path: "summaryKey", Value: summaryKey},
		{Path: "translationKey", Value: translationKey},
		{Path: "finishedAt", Value: time.Now()},
	})
}

// Fail marks runID as failed with the given error details.
func (s *RunStore) Fail(ctx context.Context, runID, errDetails string) error {
	return s.update(ctx, runID, []firestore.Update{
		{Path: "status", Value: RunStatusFailed},
		{Path: "errorDetails", Value: errDetails},
		{Path: "finishedAt", Value: time.Now()},
	})
}

func (s *RunStore) update(ctx context.Context, runID string, updates []firestore.Update) error {
	if _, err := s.client.Collection(s.collection).Doc(runID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update run document %s: %w", runID, err)
	}
	return nil
}

func (s *RunStore) Close() error {
	return s.client.Close()
}
