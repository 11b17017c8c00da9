package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"autoapply/config"
	"autoapply/models"
)

// fakeAIServer serves an OpenAI-compatible chat endpoint returning a fixed
// reply and counting the calls it receives.
func fakeAIServer(t *testing.T, reply string, calls *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": reply}},
			},
		})
	}))
}

func newTestEngine(t *testing.T, server *httptest.Server) *DecisionEngine {
	t.Helper()
	profile := testProfile()
	cfg := config.AIConfig{
		Model:       "test-model",
		Timeout:     5 * time.Second,
		MaxCalls:    50,
		Window:      time.Minute,
		Temperature: 0.1,
	}
	if server != nil {
		cfg.APIKey = "test-key"
		cfg.BaseURL = server.URL
	}
	return NewDecisionEngine(
		NewAIClient(cfg),
		NewAnswerCache(),
		NewHeuristicSelector(profile),
		NewRateLimiter(cfg.MaxCalls, cfg.Window),
		profile,
	)
}

func TestSelectOptionUsesValidatedAIAnswer(t *testing.T) {
	var calls int64
	server := fakeAIServer(t, "Blue", &calls)
	defer server.Close()

	engine := newTestEngine(t, server)
	q := models.Question{Label: "Favorite color?", Options: []string{"Red", "Blue", "Green"}}

	assert.Equal(t, "Blue", engine.SelectOption(context.Background(), q))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestSelectOptionCaseInsensitiveAndPrefixValidation(t *testing.T) {
	var calls int64
	server := fakeAIServer(t, "yes", &calls)
	defer server.Close()

	engine := newTestEngine(t, server)
	q := models.Question{
		Label:   "Are you willing to relocate for this position if needed?",
		Options: []string{"Yes, I am willing", "No"},
	}

	// "yes" maps onto "Yes, I am willing" by prefix containment.
	assert.Equal(t, "Yes, I am willing", engine.SelectOption(context.Background(), q))
}

func TestSelectOptionGarbageAIFallsBackToHeuristic(t *testing.T) {
	var calls int64
	server := fakeAIServer(t, "I think purple would be a lovely choice here", &calls)
	defer server.Close()

	engine := newTestEngine(t, server)
	q := models.Question{Label: "Pick a tier", Options: []string{"Standard", "Premium"}}

	got := engine.SelectOption(context.Background(), q)
	assert.Contains(t, q.Options, got)
}

func TestSelectOptionCachesAnswer(t *testing.T) {
	var calls int64
	server := fakeAIServer(t, "Blue", &calls)
	defer server.Close()

	engine := newTestEngine(t, server)
	q := models.Question{Label: "Favorite color?", Options: []string{"Red", "Blue"}}

	engine.SelectOption(context.Background(), q)
	engine.SelectOption(context.Background(), q)
	engine.SelectOption(context.Background(), q)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestSelectOptionNoAIUsesHeuristic(t *testing.T) {
	engine := newTestEngine(t, nil)
	q := models.Question{
		Label:   "Will you require visa sponsorship?",
		Options: []string{"Yes", "No"},
	}
	assert.Equal(t, "No", engine.SelectOption(context.Background(), q))
}

func TestSelectOptionAlwaysReturnsMember(t *testing.T) {
	engine := newTestEngine(t, nil)
	q := models.Question{Label: "Completely unknown question", Options: []string{"A", "B", "C"}}
	assert.Contains(t, q.Options, engine.SelectOption(context.Background(), q))
}

func TestGenerateAnswerProfilePatterns(t *testing.T) {
	engine := newTestEngine(t, nil)
	engine.profile.WhyInterested = "I admire the product."
	engine.profile.LinkedIn = "https://linkedin.com/in/jordanreyes"

	assert.Equal(t, "I admire the product.", engine.GenerateAnswer(context.Background(), "Why are you interested in this role?", ""))
	assert.Equal(t, "https://linkedin.com/in/jordanreyes", engine.GenerateAnswer(context.Background(), "LinkedIn profile URL", ""))
	assert.Equal(t, "No", engine.GenerateAnswer(context.Background(), "Do you have any relatives employed at the company?", ""))
}

func TestGenerateAnswerEmptyProfileFieldFallsThroughToAI(t *testing.T) {
	var calls int64
	server := fakeAIServer(t, "https://jordanreyes.dev", &calls)
	defer server.Close()

	// No portfolio on file: the question must reach the AI instead of
	// short-circuiting to an empty answer.
	engine := newTestEngine(t, server)
	assert.Equal(t, "https://jordanreyes.dev",
		engine.GenerateAnswer(context.Background(), "Portfolio or personal website", ""))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestGenerateAnswerInterestTailoredWithJobContext(t *testing.T) {
	var calls int64
	server := fakeAIServer(t, "Your focus on resilient infrastructure matches my background.", &calls)
	defer server.Close()

	engine := newTestEngine(t, server)
	engine.profile.WhyInterested = "I admire the product."

	// Without job context the canned answer wins; with context the AI
	// tailors one.
	assert.Equal(t, "I admire the product.",
		engine.GenerateAnswer(context.Background(), "Why are you interested?", ""))
	assert.Equal(t, "Your focus on resilient infrastructure matches my background.",
		engine.GenerateAnswer(context.Background(), "Why are you interested?", "We build resilient infrastructure."))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestGenerateAnswerNoAIReturnsEmpty(t *testing.T) {
	engine := newTestEngine(t, nil)
	assert.Equal(t, "", engine.GenerateAnswer(context.Background(), "Describe a challenging project", ""))
}

func TestValidateAgainstOptions(t *testing.T) {
	options := []string{"Yes, I am authorized", "No"}
	assert.Equal(t, "No", validateAgainstOptions("No", options))
	assert.Equal(t, "No", validateAgainstOptions("no", options))
	assert.Equal(t, "Yes, I am authorized", validateAgainstOptions("Yes", options))
	assert.Equal(t, "", validateAgainstOptions("Maybe", options))
	assert.Equal(t, "", validateAgainstOptions("", options))
}
