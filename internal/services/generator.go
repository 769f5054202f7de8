package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/summaryflow/internal/gcp"
)

// maxPromptRunes caps how much of the source text is sent to the model.
const maxPromptRunes = 20000

// ModelFamily selects request and response shaping for a model ID.
type ModelFamily int

const (
	FamilyGemini ModelFamily = iota + 1
	FamilyClaude
)

func (f ModelFamily) String() string {
	switch f {
	case FamilyGemini:
		return "gemini"
	case FamilyClaude:
		return "claude"
	}
	return "unknown"
}

// ParseModelFamily maps a Vertex AI model ID onto its family.
func ParseModelFamily(modelID string) (ModelFamily, error) {
	switch {
	case strings.HasPrefix(modelID, "gemini-"):
		return FamilyGemini, nil
	case strings.HasPrefix(modelID, "claude-"):
		return FamilyClaude, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedModel, modelID)
}

// BuildSummaryPrompt picks the bullet or paragraph instruction from the word
// count of the (truncated) source and appends the source text.
func BuildSummaryPrompt(text string) string {
	truncated := text
	if runes := []rune(text); len(runes) > maxPromptRunes {
		truncated = string(runes[:maxPromptRunes])
	}
	instruction := gcp.ParagraphSummaryPrompt
	if len(strings.Fields(truncated)) >= gcp.BulletWordThreshold {
		instruction = gcp.BulletSummaryPrompt
	}
	return instruction + "\n\n" + truncated
}

// geminiGenerator calls a pre-configured Gemini model.
type geminiGenerator struct {
	model contentGenerator
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}
	return extractText(resp), nil
}

// claudeRequest is the Anthropic messages payload accepted by Vertex AI rawPredict.
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string        `json:"role"`
	Content []claudeBlock `json:"content"`
}

type claudeBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type claudeResponse struct {
	Content []claudeBlock `json:"content"`
}

// claudeGenerator calls an Anthropic model through rawPredict.
type claudeGenerator struct {
	client rawPredictor
}

func (g *claudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(claudeRequest{
		AnthropicVersion: gcp.AnthropicVersion,
		MaxTokens:        gcp.SummaryMaxTokens,
		Temperature:      gcp.SummaryTemperature,
		Messages: []claudeMessage{{
			Role:    "user",
			Content: []claudeBlock{{Type: "text", Text: prompt}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal claude request: %w", err)
	}

	raw, err := g.client.RawPredict(ctx, body)
	if err != nil {
		return "", fmt.Errorf("failed to generate content from claude: %w", err)
	}

	var resp claudeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to parse claude response: %w", err)
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// extractText concatenates the text parts of the first candidate and strips
// any code fence the model wrapped them in.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var contentBuilder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			contentBuilder.WriteString(string(txt))
		}
	}

	contentStr := strings.TrimSpace(contentBuilder.String())
	if strings.HasPrefix(contentStr, "```") && strings.HasSuffix(contentStr, "```") && len(contentStr) >= 6 {
		contentStr = strings.TrimSuffix(contentStr, "```")
		contentStr = strings.TrimPrefix(contentStr, "```text")
		contentStr = strings.TrimPrefix(contentStr, "```markdown")
		contentStr = strings.TrimPrefix(contentStr, "```")
	}
	return strings.TrimSpace(contentStr)
}

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

// checkRefusal fails when the model declined instead of summarizing.
func checkRefusal(content string) error {
	lower := strings.ToLower(content)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return fmt.Errorf("%w: matched %q", ErrModelRefusal, phrase)
		}
	}
	return nil
}
