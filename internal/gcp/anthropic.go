package gcp

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/api/httpbody"
)

// AnthropicVersion is the request schema version Vertex AI expects for
// Anthropic publisher models.
const AnthropicVersion = "vertex-2023-10-16"

// AnthropicClient sends raw JSON payloads to an Anthropic model served by
// Vertex AI.
type AnthropicClient struct {
	prediction *aiplatform.PredictionClient
	endpoint   string
}

// NewAnthropicClient connects to the regional prediction endpoint for modelID.
func NewAnthropicClient(ctx context.Context, projectID, region, modelID string) (*AnthropicClient, error) {
	if projectID == "" || region == "" || modelID == "" {
		return nil, fmt.Errorf("NewAnthropicClient: projectID, region and modelID cannot be empty")
	}

	prediction, err := aiplatform.NewPredictionClient(ctx,
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", region)))
	if err != nil {
		return nil, fmt.Errorf("aiplatform.NewPredictionClient: %w", err)
	}

	return &AnthropicClient{
		prediction: prediction,
		endpoint:   fmt.Sprintf("projects/%s/locations/%s/publishers/anthropic/models/%s", projectID, region, modelID),
	}, nil
}

// RawPredict posts a JSON body to the model and returns the JSON response body.
func (c *AnthropicClient) RawPredict(ctx context.Context, body []byte) ([]byte, error) {
	resp, err := c.prediction.RawPredict(ctx, &aiplatformpb.RawPredictRequest{
		Endpoint: c.endpoint,
		HttpBody: &httpbody.HttpBody{
			ContentType: "application/json",
			Data:        body,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("rawPredict %s: %w", c.endpoint, err)
	}
	return resp.GetData(), nil
}

func (c *AnthropicClient) Close() error {
	return c.prediction.Close()
}
