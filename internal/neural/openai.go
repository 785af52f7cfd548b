package neural

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
)

const openaiSystemPrompt = "You are a sentiment classifier for brand mentions. " +
	"Respond with only a JSON object of the form " +
	`{"positive": p, "neutral": n, "negative": q} ` +
	"where the three probabilities sum to 1."

// openaiClient is the slice of the go-openai client the provider uses.
type openaiClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider classifies mentions through the OpenAI chat API,
// mapping the model's probability reply onto label scores.
type OpenAIProvider struct {
	client openaiClient
	model  string
}

var _ domain.NeuralProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a provider from an API key. model may be
// empty; a cheap default is used then.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{client: openai.NewClient(apiKey), model: model}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Classify(ctx context.Context, text string) ([]domain.LabelScore, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: openaiSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Classify the sentiment of this mention: " + text,
			},
		},
		MaxTokens:   64,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return parseDistribution(resp.Choices[0].Message.Content)
}

// parseDistribution extracts the probability object from the model reply,
// tolerating surrounding prose or markdown fences.
func parseDistribution(content string) ([]domain.LabelScore, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in openai reply %q", content)
	}

	var dist map[string]float64
	if err := json.Unmarshal([]byte(content[start:end+1]), &dist); err != nil {
		return nil, fmt.Errorf("failed to parse openai reply %q: %w", content, err)
	}

	scores := make([]domain.LabelScore, 0, len(dist))
	for _, label := range []string{"positive", "neutral", "negative"} {
		if p, ok := dist[label]; ok {
			scores = append(scores, domain.LabelScore{Label: strings.ToUpper(label), Score: p})
		}
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("openai reply %q carried no sentiment labels", content)
	}
	return scores, nil
}
