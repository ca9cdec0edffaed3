package classifier_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeModels struct {
	mu   sync.Mutex
	name string
}

func (f *fakeModels) Model() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name
}

func (f *fakeModels) set(name string) {
	f.mu.Lock()
	f.name = name
	f.mu.Unlock()
}

func testTopics() *Registry {
	return NewRegistry([]Topic{
		{Name: "alpha", SystemPrompt: "prompt-alpha", Priority: 1, Enabled: true},
		{Name: "beta", SystemPrompt: "prompt-beta", Priority: 2, Enabled: true},
		{Name: "gamma", SystemPrompt: "prompt-gamma", Priority: 3, Enabled: true},
	})
}

// classifierStub answers per topic (identified by system prompt) and
// records call order.
type classifierStub struct {
	mu      sync.Mutex
	calls   []string
	models  []string
	answers map[string]string
}

func (s *classifierStub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		topic := strings.TrimPrefix(req.Messages[0].Content, "prompt-")

		s.mu.Lock()
		s.calls = append(s.calls, topic)
		s.models = append(s.models, req.Model)
		answer := s.answers[topic]
		s.mu.Unlock()

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": answer}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (s *classifierStub) callOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func newTestClient(url string, topics *Registry) *Client {
	return NewClient(url, topics, &fakeModels{name: "test-model"}, 2*time.Second, zap.NewNop())
}

func TestAnalyzeSequential_ShortCircuits(t *testing.T) {
	stub := &classifierStub{answers: map[string]string{
		"alpha": "НЕТ",
		"beta":  "ДА",
		"gamma": "ДА",
	}}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	client := newTestClient(srv.URL, testTopics())

	result := client.AnalyzeSequential(context.Background(), "какое-то сообщение")
	require.NotNil(t, result)
	assert.Equal(t, "beta", result.Topic)
	assert.True(t, result.Detected)

	// gamma is never called: evaluation stops at the first detection.
	assert.Equal(t, []string{"alpha", "beta"}, stub.callOrder())
}

func TestAnalyzeSequential_NoViolationChecksEveryTopic(t *testing.T) {
	stub := &classifierStub{answers: map[string]string{
		"alpha": "НЕТ",
		"beta":  "НЕТ",
		"gamma": "НЕТ",
	}}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	client := newTestClient(srv.URL, testTopics())

	result := client.AnalyzeSequential(context.Background(), "сообщение")
	assert.Nil(t, result)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, stub.callOrder())
}

func TestAnalyzeSequential_SkipsDisabledTopics(t *testing.T) {
	stub := &classifierStub{answers: map[string]string{
		"alpha": "НЕТ",
		"gamma": "НЕТ",
	}}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	topics := testTopics()
	require.True(t, topics.Toggle("beta", false))

	client := newTestClient(srv.URL, topics)

	result := client.AnalyzeSequential(context.Background(), "сообщение")
	assert.Nil(t, result)
	assert.Equal(t, []string{"alpha", "gamma"}, stub.callOrder())
}

func TestAnalyzeAll_CallsEveryEnabledTopic(t *testing.T) {
	stub := &classifierStub{answers: map[string]string{
		"alpha": "ДА",
		"beta":  "НЕТ",
		"gamma": "ДА",
	}}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	client := newTestClient(srv.URL, testTopics())

	results := client.AnalyzeAll(context.Background(), "сообщение")
	require.Len(t, results, 3)

	// Every enabled topic is called exactly once, even though the
	// first-priority topic already detected.
	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, stub.callOrder())

	detected := map[string]bool{}
	for _, r := range results {
		detected[r.Topic] = r.Detected
	}
	assert.True(t, detected["alpha"])
	assert.False(t, detected["beta"])
	assert.True(t, detected["gamma"])
}

func TestAnalyzeTopic_TimeoutIsContained(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	topics := testTopics()
	client := NewClient(srv.URL, topics, &fakeModels{name: "m"}, 50*time.Millisecond, zap.NewNop())

	result := client.AnalyzeTopic(context.Background(), "сообщение", topics.EnabledByPriority()[0])
	assert.False(t, result.Detected)
	assert.Contains(t, result.Reason, "API Error")
}

func TestAnalyzeTopic_TransportFailureIsContained(t *testing.T) {
	topics := testTopics()
	client := newTestClient("http://127.0.0.1:1", topics)

	result := client.AnalyzeTopic(context.Background(), "сообщение", topics.EnabledByPriority()[0])
	assert.False(t, result.Detected)
	assert.Contains(t, result.Reason, "API Error")
}

func TestAnalyzeTopic_FallbackResponseShapes(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		detected bool
	}{
		{"response field affirmative", `{"response":"ДА"}`, true},
		{"content field negative", `{"content":"НЕТ"}`, false},
		{"lowercase answer is folded", `{"response":"да, это нарушение"}`, true},
		{"unknown shape", `{"something":"else"}`, false},
		{"empty body", `{}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			topics := testTopics()
			client := newTestClient(srv.URL, topics)

			result := client.AnalyzeTopic(context.Background(), "сообщение", topics.EnabledByPriority()[0])
			assert.Equal(t, tc.detected, result.Detected)
		})
	}
}

func TestAnalyzeTopic_ModelReadAtCallTime(t *testing.T) {
	stub := &classifierStub{answers: map[string]string{"alpha": "НЕТ"}}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	topics := testTopics()
	models := &fakeModels{name: "first"}
	client := NewClient(srv.URL, topics, models, 2*time.Second, zap.NewNop())

	topic := topics.EnabledByPriority()[0]
	client.AnalyzeTopic(context.Background(), "сообщение", topic)

	models.set("second")
	client.AnalyzeTopic(context.Background(), "сообщение", topic)

	assert.Equal(t, []string{"first", "second"}, stub.models)
}

func TestRegistry_Toggle(t *testing.T) {
	topics := testTopics()

	assert.False(t, topics.Toggle("unknown", true))
	assert.True(t, topics.Toggle("beta", false))

	enabled := topics.EnabledByPriority()
	require.Len(t, enabled, 2)
	assert.Equal(t, "alpha", enabled[0].Name)
	assert.Equal(t, "gamma", enabled[1].Name)
}

func TestRegistry_EnabledByPrioritySorted(t *testing.T) {
	topics := NewRegistry([]Topic{
		{Name: "third", Priority: 30, Enabled: true},
		{Name: "first", Priority: 1, Enabled: true},
		{Name: "second", Priority: 2, Enabled: true},
	})

	enabled := topics.EnabledByPriority()
	require.Len(t, enabled, 3)
	assert.Equal(t, "first", enabled[0].Name)
	assert.Equal(t, "second", enabled[1].Name)
	assert.Equal(t, "third", enabled[2].Name)
}
