package services

import (
	"context"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/summaryflow/internal/gcp"
	"github.com/Lllllllleong/summaryflow/internal/models"
)

// ObjectStore is the object storage surface the functions use. *gcp.Storage
// implements it.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string, maxBytes int64) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	ListPage(ctx context.Context, bucket, prefix, pageToken string, pageSize int) ([]gcp.ObjectInfo, string, error)
	Exists(ctx context.Context, bucket, key string) (bool, error)
	Delete(ctx context.Context, bucket, key string) error
	PresignGet(bucket, key string, ttl time.Duration) (string, error)
	PresignPut(bucket, key string, ttl time.Duration, contentType string) (string, error)
}

// Generator turns a prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Translator translates text; a sourceLang of "auto" asks for detection.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// RunRecorder keeps an audit record of pipeline runs. *gcp.RunStore implements it.
type RunRecorder interface {
	Start(ctx context.Context, runID string, run models.Run) error
	Complete(ctx context.Context, runID, summaryKey, translationKey string) error
	Fail(ctx context.Context, runID, errDetails string) error
}

// contentGenerator is satisfied by *genai.GenerativeModel.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// rawPredictor is satisfied by *gcp.AnthropicClient.
type rawPredictor interface {
	RawPredict(ctx context.Context, body []byte) ([]byte, error)
}

type noopRuns struct{}

func (noopRuns) Start(context.Context, string, models.Run) error { return nil }
func (noopRuns) Complete(context.Context, string, string, string) error { return nil }
func (noopRuns) Fail(context.Context, string, string) error { return nil }
