package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Lllllllleong/summaryflow/internal/gcp"
	"github.com/Lllllllleong/summaryflow/internal/models"
	"github.com/Lllllllleong/summaryflow/internal/textclean"
)

const (
	textContentType = "text/plain; charset=utf-8"
	jsonContentType = "application/json"

	reportTimeout = 30 * time.Second
)

// SummarizerConfig holds all configuration for the summarization pipeline.
type SummarizerConfig struct {
	ProjectID         string
	VertexAIRegion    string
	OutputBucket      string
	UploadPrefix      string
	SummaryPrefix     string
	TranslationPrefix string
	ErrorPrefix       string
	TargetLang        string
	ModelID           string
	TranslatorModelID string
	MaxBytes          int64
	RunsCollection    string
}

// SummarizerFunction holds the dependencies for the pipeline logic.
type SummarizerFunction struct {
	store      ObjectStore
	generator  Generator
	translator Translator
	runs       RunRecorder
	config     SummarizerConfig
}

// LoadSummarizerConfig loads and validates the pipeline's environment variables.
func LoadSummarizerConfig() (*SummarizerConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	outputBucket := gcp.GetEnv("OUTPUT_BUCKET", "")
	if outputBucket == "" {
		return nil, fmt.Errorf("OUTPUT_BUCKET environment variable must be set")
	}
	maxBytes, err := gcp.GetEnvInt("MAX_BYTES", 500000)
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("MAX_BYTES must be positive, got %d", maxBytes)
	}
	targetLang, err := ValidateLanguage(gcp.GetEnv("TARGET_LANG", "fr"))
	if err != nil {
		return nil, fmt.Errorf("TARGET_LANG: %w", err)
	}
	modelID := gcp.GetEnv("MODEL_ID", "gemini-1.5-pro")
	if _, err := ParseModelFamily(modelID); err != nil {
		return nil, err
	}

	return &SummarizerConfig{
		ProjectID:         projectID,
		VertexAIRegion:    gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		OutputBucket:      outputBucket,
		UploadPrefix:      gcp.GetEnv("UPLOAD_PREFIX", "incoming/"),
		SummaryPrefix:     gcp.GetEnv("SUMMARY_PREFIX", "summaries/"),
		TranslationPrefix: gcp.GetEnv("TRANSLATION_PREFIX", "translations/"),
		ErrorPrefix:       gcp.GetEnv("ERROR_PREFIX", "errors/"),
		TargetLang:        targetLang,
		ModelID:           modelID,
		TranslatorModelID: gcp.GetEnv("TRANSLATOR_MODEL_ID", "gemini-1.5-pro"),
		MaxBytes:          int64(maxBytes),
		RunsCollection:    gcp.GetEnv("RUNS_COLLECTION", ""),
	}, nil
}

// NewSummarizer creates a SummarizerFunction wired to Cloud Storage, Vertex AI
// and, when RUNS_COLLECTION is set, Firestore.
func NewSummarizer(ctx context.Context) (*SummarizerFunction, error) {
	config, err := LoadSummarizerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	family, _ := ParseModelFamily(config.ModelID)

	store, err := gcp.NewStorage(ctx)
	if err != nil {
		return nil, err
	}

	geminiSummarizerID := ""
	if family == FamilyGemini {
		geminiSummarizerID = config.ModelID
	}
	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion, geminiSummarizerID, config.TranslatorModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	var generator Generator
	switch family {
	case FamilyGemini:
		generator = &geminiGenerator{model: vertexClient.SummarizerModel}
	case FamilyClaude:
		anthropicClient, err := gcp.NewAnthropicClient(ctx, config.ProjectID, config.VertexAIRegion, config.ModelID)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic client: %w", err)
		}
		generator = &claudeGenerator{client: anthropicClient}
	}

	var runs RunRecorder = noopRuns{}
	if config.RunsCollection != "" {
		runStore, err := gcp.NewRunStore(ctx, config.ProjectID, config.RunsCollection)
		if err != nil {
			return nil, fmt.Errorf("failed to create run store: %w", err)
		}
		runs = runStore
	}

	f := NewSummarizerWith(*config, store, generator, NewGeminiTranslator(vertexClient.TranslatorModel), runs)
	slog.Info("Summarizer initialized.", "modelId", config.ModelID, "modelFamily", family.String(), "targetLang", config.TargetLang)
	return f, nil
}

// NewSummarizerWith assembles a SummarizerFunction from explicit dependencies.
// A nil runs disables run records.
func NewSummarizerWith(config SummarizerConfig, store ObjectStore, generator Generator, translator Translator, runs RunRecorder) *SummarizerFunction {
	if runs == nil {
		runs = noopRuns{}
	}
	return &SummarizerFunction{
		store:      store,
		generator:  generator,
		translator: translator,
		runs:       runs,
		config:     config,
	}
}

// Process summarizes, dedupes and translates one uploaded object. On failure
// an error report is written to the output bucket and the error is returned
// so the trigger can apply its own retry policy.
func (f *SummarizerFunction) Process(ctx context.Context, runID string, e models.StorageObjectEvent) (*models.SummaryResult, error) {
	inKey := DecodeObjectKey(e.Name)
	if inKey == "" || strings.HasSuffix(inKey, "/") {
		slog.Info("Skipping folder placeholder object.", "gcsBucket", e.Bucket, "gcsObject", e.Name, "eventId", runID)
		return &models.SummaryResult{Status: "skipped"}, nil
	}
	inKey = f.resolveInputKey(ctx, e.Bucket, e.Name, inKey)
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", inKey, "eventId", runID)

	base := BaseName(inKey)
	targetLang := f.targetLangFor(inKey)
	summaryKey := f.config.SummaryPrefix + base + ".summary.txt"
	translationKey := fmt.Sprintf("%s%s/%s.summary.%s.txt", f.config.TranslationPrefix, targetLang, base, targetLang)
	logCtx = logCtx.With("targetLang", targetLang)
	logCtx.Info("Processing new GCS object.")

	run := models.Run{InputBucket: e.Bucket, InputKey: inKey, TargetLang: targetLang, ModelID: f.config.ModelID}
	if err := f.runs.Start(ctx, runID, run); err != nil {
		logCtx.Warn("Failed to record run start", "error", err)
	}

	if err := f.summarizeAndTranslate(ctx, logCtx, e.Bucket, inKey, summaryKey, translationKey, targetLang); err != nil {
		f.reportFailure(ctx, logCtx, runID, inKey, base, err)
		return nil, err
	}

	if err := f.runs.Complete(ctx, runID, summaryKey, translationKey); err != nil {
		logCtx.Warn("Failed to record run completion", "error", err)
	}
	logCtx.Info("Summary and translation stored.", "summaryKey", summaryKey, "translationKey", translationKey)

	return &models.SummaryResult{
		Status:         "ok",
		SummaryKey:     summaryKey,
		TranslationKey: translationKey,
		TargetLang:     targetLang,
	}, nil
}

func (f *SummarizerFunction) summarizeAndTranslate(ctx context.Context, logCtx *slog.Logger, bucket, inKey, summaryKey, translationKey, targetLang string) error {
	body, err := f.store.Get(ctx, bucket, inKey, f.config.MaxBytes)
	if err != nil {
		return err
	}
	text, err := textclean.DecodeBody(body, f.config.MaxBytes)
	if err != nil {
		return fmt.Errorf("failed to decode gs://%s/%s: %w", bucket, inKey, err)
	}

	summary, err := f.generator.Generate(ctx, BuildSummaryPrompt(text))
	if err != nil {
		return err
	}
	if err := checkRefusal(summary); err != nil {
		logCtx.Error("LLM refusal detected", "error", err, "response", summary)
		return err
	}
	summary = textclean.Dedupe(summary)
	if summary == "" {
		logCtx.Warn("Model returned no summary text. Storing empty outputs.")
	}
	if err := f.store.Put(ctx, f.config.OutputBucket, summaryKey, []byte(summary), textContentType); err != nil {
		return err
	}

	translated := ""
	if summary != "" {
		translated, err = f.translator.Translate(ctx, summary, AutoDetect, targetLang)
		if err != nil {
			return err
		}
		translated = textclean.Dedupe(translated)
	}
	return f.store.Put(ctx, f.config.OutputBucket, translationKey, []byte(translated), textContentType)
}

// resolveInputKey keeps the decoded key unless decoding changed the name and
// only the raw name exists. Cloud Storage does not URL-encode event names, so
// a literal '+' or '%' in an object name must survive.
func (f *SummarizerFunction) resolveInputKey(ctx context.Context, bucket, raw, decoded string) string {
	if decoded == raw {
		return decoded
	}
	if exists, err := f.store.Exists(ctx, bucket, decoded); err != nil || exists {
		return decoded
	}
	if exists, err := f.store.Exists(ctx, bucket, raw); err == nil && exists {
		return raw
	}
	return decoded
}

func (f *SummarizerFunction) reportFailure(ctx context.Context, logCtx *slog.Logger, runID, inKey, base string, originalErr error) {
	logCtx.Error("Pipeline run failed", "error", originalErr)

	// The run may have failed because ctx expired; the report still goes out.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()

	errKey := f.config.ErrorPrefix + base + ".error.json"
	report, err := json.MarshalIndent(models.ErrorReport{InputKey: inKey, Error: originalErr.Error()}, "", "  ")
	if err == nil {
		err = f.store.Put(ctx, f.config.OutputBucket, errKey, report, jsonContentType)
	}
	if err != nil {
		logCtx.Error("CRITICAL: Failed to write error report.", "errorKey", errKey, "reportError", err)
	}

	if err := f.runs.Fail(ctx, runID, originalErr.Error()); err != nil {
		logCtx.Error("Failed to update run status to FAILED", "error", err)
	}
}

// targetLangFor returns <lang> for keys shaped <UploadPrefix><lang>/<file>
// when <lang> is a valid tag, and the configured default otherwise.
func (f *SummarizerFunction) targetLangFor(key string) string {
	if !strings.HasPrefix(key, f.config.UploadPrefix) {
		return f.config.TargetLang
	}
	parts := strings.SplitN(strings.TrimPrefix(key, f.config.UploadPrefix), "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return f.config.TargetLang
	}
	lang, err := ValidateLanguage(parts[0])
	if err != nil {
		return f.config.TargetLang
	}
	return lang
}

// DecodeObjectKey URL-decodes an event object name ('+' becomes a space).
// Names that fail to decode are used as-is.
func DecodeObjectKey(name string) string {
	decoded, err := url.QueryUnescape(name)
	if err != nil {
		return name
	}
	return decoded
}

// BaseName is the last path segment of key without its final extension.
func BaseName(key string) string {
	name := key[strings.LastIndex(key, "/")+1:]
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}
