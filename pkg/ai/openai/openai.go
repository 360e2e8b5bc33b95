package openai

import (
	"math"
	"sync"

	"mindweave/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// MindmapOpenAIClient implements ai.MindmapAIClient against an
// OpenAI-compatible chat completions endpoint.
//
// A MindmapOpenAIClient should be created using NewMindmapOpenAIClient.
type MindmapOpenAIClient struct {
	completionModel string
	extractionModel string

	chatURL string
	chatKey string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewMindmapOpenAIClientParams defines the configuration parameters for
// creating a new MindmapOpenAIClient.
//
// CompletionModel is used for plain-text completions (central topic,
// descriptions). ExtractionModel is used for schema-constrained structured
// output (extraction, merging, expansion). ChatURL may point at any
// OpenAI-compatible endpoint; when empty the official API is used.
type NewMindmapOpenAIClientParams struct {
	CompletionModel string
	ExtractionModel string

	ChatURL string
	ChatKey string
}

// NewMindmapOpenAIClient creates and returns a new MindmapOpenAIClient
// configured with the provided parameters.
func NewMindmapOpenAIClient(
	params NewMindmapOpenAIClientParams,
) *MindmapOpenAIClient {
	opts := []option.RequestOption{}
	if params.ChatURL != "" {
		opts = append(opts, option.WithBaseURL(params.ChatURL))
	}
	if params.ChatKey != "" {
		opts = append(opts, option.WithAPIKey(params.ChatKey))
	}
	client := openai.NewClient(opts...)

	return &MindmapOpenAIClient{
		completionModel: params.CompletionModel,
		extractionModel: params.ExtractionModel,

		chatURL: params.ChatURL,
		chatKey: params.ChatKey,

		ChatClient: &client,
	}
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *MindmapOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the accumulated token usage and timing metrics since the last reset.
func (c *MindmapOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *MindmapOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs

	if c.metrics.DurationMs > 0 {
		tokensPerSecond := (float64(c.metrics.TotalTokens) * 1000.0) / float64(c.metrics.DurationMs)
		c.metrics.TokenPerSecond = float32(math.Round(tokensPerSecond*100) / 100)
	}
}
