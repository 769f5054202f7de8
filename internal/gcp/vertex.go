package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// --- Summarizer Prompts ---
// Inputs of at least BulletWordThreshold words get the bullet prompt, shorter
// ones the paragraph prompt. The source text is appended after a blank line.
const BulletWordThreshold = 120

const BulletSummaryPrompt = "You are a precise technical summarizer. Produce exactly 5 bullet points, each beginning with '- ' and written as a polished sentence.\n" +
	"Ensure every bullet covers a distinct idea; when the source repeats itself, merge those sentences into a single point that preserves the detail.\n" +
	"Mention each product or service name at most once unless you are adding a new fact, and keep the tone neutral."

const ParagraphSummaryPrompt = "You are an expert technical writer. Produce a single paragraph of 3-4 sentences that captures all key facts while sounding natural and concise.\n" +
	"Do not repeat phrasing or product names unless adding a new detail, and keep the tone factual rather than promotional."

// --- Translator Model Prompts ---
const TranslatorSystemPrompt = "You are a professional translator. You translate text faithfully between languages without adding, removing or commenting on content."
const TranslatorUserPrompt = `Translate the text below into the language with BCP-47 tag %q.
The source language is %q; if it is "auto", detect it yourself.
Keep line breaks, list markers and numbers exactly where they are.
Return ONLY the translated text, with no preamble and no surrounding quotes or code fences.

%s`

// Generation limits shared by every summarizer model family.
const (
	SummaryMaxTokens   = 800
	SummaryTemperature = 0.2
	SummaryTopP        = 0.9
)

// VertexClient holds the pre-configured Gemini models used by the pipeline.
// SummarizerModel is nil when summaries come from another model family.
type VertexClient struct {
	SummarizerModel *genai.GenerativeModel
	TranslatorModel *genai.GenerativeModel
	baseClient      *genai.Client
}

// NewVertexClient creates a client holding the translator model and, when
// summarizerModelID is set, a Gemini summarizer model.
func NewVertexClient(ctx context.Context, projectID, region, summarizerModelID, translatorModelID string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if translatorModelID == "" {
		return nil, fmt.Errorf("NewVertexClient: translatorModelID cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	translatorModel := baseClient.GenerativeModel(translatorModelID)
	translatorModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(TranslatorSystemPrompt)},
	}
	translatorModel.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.0),
	}

	var summarizerModel *genai.GenerativeModel
	if summarizerModelID != "" {
		summarizerModel = baseClient.GenerativeModel(summarizerModelID)
		summarizerModel.GenerationConfig = genai.GenerationConfig{
			MaxOutputTokens: genai.Ptr[int32](SummaryMaxTokens),
			Temperature:     genai.Ptr[float32](SummaryTemperature),
			TopP:            genai.Ptr[float32](SummaryTopP),
		}
	}

	return &VertexClient{
		SummarizerModel: summarizerModel,
		TranslatorModel: translatorModel,
		baseClient:      baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
