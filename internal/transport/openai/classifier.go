package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/placerank/placerank/internal/domain"
	"github.com/placerank/placerank/internal/metrics"
)

// classifierSystemPrompt instructs the model to emit one label per input text.
const classifierSystemPrompt = `You are a sentiment classifier. ` +
	`You receive numbered texts, one per line, in the form "N: text". ` +
	`For each text decide whether its sentiment is "positive", "neutral" or "negative" ` +
	`and how confident you are (0.0-1.0). ` +
	`Respond with JSON only: {"results":[{"label":"positive","confidence":0.95}, ...]} ` +
	`with exactly one entry per input text, in input order.`

// Classifier labels texts via an OpenAI-compatible chat completion API.
// One request classifies a whole batch.
type Classifier struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// ClassifierConfig holds the sentiment provider settings.
type ClassifierConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewClassifier creates an OpenAI-compatible sentiment classifier.
func NewClassifier(cfg *ClassifierConfig) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Classifier{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

type classifierResponse struct {
	Results []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"results"`
}

// ClassifyBatch implements domain.Classifier. The whole batch fails on any
// provider or parse error; partial labels are never returned.
func (c *Classifier) ClassifyBatch(ctx context.Context, texts []string) ([]domain.Prediction, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&sb, "%d: %s\n", i+1, t)
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ClassificationRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return nil, parseAPIError(err, domain.ErrClassifierProviderError, "classification")
	}

	if len(resp.Choices) == 0 {
		metrics.ClassificationRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return nil, fmt.Errorf("empty classification response: %w", domain.ErrClassifierProviderError)
	}

	var parsed classifierResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		metrics.ClassificationRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return nil, fmt.Errorf("parse classification response: %v: %w", err, domain.ErrClassifierProviderError)
	}

	if len(parsed.Results) != len(texts) {
		metrics.ClassificationRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return nil, fmt.Errorf(
			"classification response has %d labels for %d texts: %w",
			len(parsed.Results), len(texts), domain.ErrClassifierProviderError,
		)
	}

	metrics.ClassificationRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.ClassificationRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

	preds := make([]domain.Prediction, len(parsed.Results))
	for i, r := range parsed.Results {
		label := domain.ParseSentiment(r.Label)
		conf := r.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		preds[i] = domain.Prediction{Label: label, Confidence: conf}
		metrics.ClassifiedTextsTotal.WithLabelValues(string(label)).Inc()
	}

	return preds, nil
}
