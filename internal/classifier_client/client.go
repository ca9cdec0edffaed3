package classifier_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AvailableModels lists the models the classifier endpoint is known to
// serve. The active model is selected through the control plane.
var AvailableModels = []string{
	"qwen2.5-coder:7b",
	"qwen3:30b",
	"hf.co/bartowski/Qwen_Qwen3-30B-A3B-Thinking-2507-GGUF:Q4_K_M",
	"hf.co/unsloth/Qwen3-30B-A3B-Instruct-2507-GGUF:Q4_K_M",
}

// affirmativeToken is the answer fragment that counts as a detection. The
// check is a plain substring match on the upper-cased reply, nothing more.
const affirmativeToken = "ДА"

// Result is the outcome of classifying one message against one topic.
type Result struct {
	Topic    string
	Detected bool
	Reason   string
}

// ModelSource supplies the model name for the next call.
type ModelSource interface {
	Model() string
}

// Client calls an OpenAI-compatible chat-completions endpoint to classify
// messages per topic. Every failure is contained: a call reports
// Detected=false with a diagnostic reason instead of returning an error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	topics     *Registry
	models     ModelSource
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a new classifier client. The timeout bounds the total
// wait of a single topic call.
func NewClient(baseURL string, topics *Registry, models ModelSource, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		topics:  topics,
		models:  models,
		timeout: timeout,
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Response string `json:"response"`
	Content  string `json:"content"`
}

// shapeMatchers extract the answer text from the known response shapes,
// tried in order. The chat-completions shape comes first, then the two
// single-field fallbacks some endpoints return.
var shapeMatchers = []func(*chatResponse) (string, bool){
	func(r *chatResponse) (string, bool) {
		if len(r.Choices) > 0 && r.Choices[0].Message.Content != "" {
			return r.Choices[0].Message.Content, true
		}
		return "", false
	},
	func(r *chatResponse) (string, bool) {
		if r.Response != "" {
			return r.Response, true
		}
		return "", false
	},
	func(r *chatResponse) (string, bool) {
		if r.Content != "" {
			return r.Content, true
		}
		return "", false
	},
}

// AnalyzeTopic classifies the message against a single topic. It never
// returns an error: timeouts, transport failures and unparseable replies
// all produce a not-detected Result carrying the failure reason.
func (c *Client) AnalyzeTopic(ctx context.Context, text string, topic Topic) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := chatRequest{
		Model: c.models.Model(),
		Messages: []chatMessage{
			{Role: "system", Content: topic.SystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Сообщение для анализа: %q", text)},
		},
		Temperature: 0.1,
		MaxTokens:   50,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return c.failure(topic.Name, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return c.failure(topic.Name, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.failure(topic.Name, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.failure(topic.Name, fmt.Errorf("classifier returned status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return c.failure(topic.Name, fmt.Errorf("failed to decode response: %w", err))
	}

	content, ok := extractAnswer(&parsed)
	if !ok {
		c.logger.Warn("Classifier returned an unrecognized response shape", zap.String("topic", topic.Name))
		return Result{Topic: topic.Name, Detected: false}
	}

	detected := strings.Contains(strings.ToUpper(content), affirmativeToken)

	c.logger.Debug("Classifier answered",
		zap.String("topic", topic.Name),
		zap.String("answer", content),
		zap.Bool("detected", detected),
	)

	return Result{Topic: topic.Name, Detected: detected, Reason: content}
}

func extractAnswer(resp *chatResponse) (string, bool) {
	for _, match := range shapeMatchers {
		if content, ok := match(resp); ok {
			return content, true
		}
	}
	return "", false
}

func (c *Client) failure(topicName string, err error) Result {
	c.logger.Error("Classifier call failed", zap.String("topic", topicName), zap.Error(err))
	return Result{Topic: topicName, Detected: false, Reason: "API Error: " + err.Error()}
}

// AnalyzeSequential visits the enabled topics in ascending priority order
// and stops at the first detection. It returns nil when no enabled topic
// detects a violation.
func (c *Client) AnalyzeSequential(ctx context.Context, text string) *Result {
	for _, topic := range c.topics.EnabledByPriority() {
		result := c.AnalyzeTopic(ctx, text, topic)
		if result.Detected {
			c.logger.Info("Violation detected, skipping remaining topics", zap.String("topic", topic.Name))
			return &result
		}
	}
	return nil
}

// AnalyzeAll issues one call per enabled topic concurrently and waits for
// every call to settle, returning all results regardless of outcome.
func (c *Client) AnalyzeAll(ctx context.Context, text string) []Result {
	enabled := c.topics.EnabledByPriority()
	results := make([]Result, len(enabled))

	g, ctx := errgroup.WithContext(ctx)
	for i, topic := range enabled {
		i, topic := i, topic
		g.Go(func() error {
			results[i] = c.AnalyzeTopic(ctx, text, topic)
			return nil
		})
	}
	_ = g.Wait() // AnalyzeTopic never errors

	return results
}
