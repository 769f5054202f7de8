package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/summaryflow/internal/gcp"
)

// AutoDetect asks the translator to detect the source language.
const AutoDetect = "auto"

// GeminiTranslator translates text with the pre-configured translator model.
type GeminiTranslator struct {
	model contentGenerator
}

// NewGeminiTranslator wraps a Gemini model configured with gcp.TranslatorSystemPrompt.
func NewGeminiTranslator(model *genai.GenerativeModel) *GeminiTranslator {
	return &GeminiTranslator{model: model}
}

// Translate sends text to the model and returns the translated text.
func (t *GeminiTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if targetLang == "" {
		return "", fmt.Errorf("%w: target language is empty", ErrInvalidLanguage)
	}
	if sourceLang == "" {
		sourceLang = AutoDetect
	}

	prompt := fmt.Sprintf(gcp.TranslatorUserPrompt, targetLang, sourceLang, text)
	resp, err := t.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to translate to %s: %w", targetLang, err)
	}
	return extractText(resp), nil
}
