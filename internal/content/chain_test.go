package content

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mxcd/gardener/internal/configuration"
)

func testRequest() *Request {
	return &Request{
		Repository: "octocat/hello-world",
		Type:       configuration.ContentTypeDocs,
		Language:   "markdown",
		Complexity: configuration.ContentComplexityLow,
	}
}

func aiConfig(endpoint string) *configuration.Content {
	retries := 3
	return &configuration.Content{
		AI: &configuration.AIService{
			Enabled:        true,
			Endpoint:       endpoint,
			APIKey:         "test-key",
			MaxRetries:     &retries,
			TimeoutSeconds: 5,
		},
	}
}

func TestChainUsesAIService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate/content" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %s", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"content": "Generated by service", "message": "Add notes"}`))
	}))
	defer server.Close()

	chain := NewChain(aiConfig(server.URL), rand.New(rand.NewSource(1)))

	result := chain.Generate(context.Background(), testRequest())

	if result.Strategy != "ai" {
		t.Errorf("expected strategy ai, got %s", result.Strategy)
	}
	if result.FellBack {
		t.Error("expected no fallback")
	}
	if result.Artifact.Content != "Generated by service" {
		t.Errorf("unexpected content: %q", result.Artifact.Content)
	}
	if result.Artifact.CommitMessage != "Add notes" {
		t.Errorf("unexpected commit message: %q", result.Artifact.CommitMessage)
	}
}

func TestChainFallsBackOnServiceFailure(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	chain := NewChain(aiConfig(server.URL), rand.New(rand.NewSource(1)))

	result := chain.Generate(context.Background(), testRequest())

	if !result.FellBack {
		t.Error("expected fallback")
	}
	if result.Strategy != "template" {
		t.Errorf("expected strategy template, got %s", result.Strategy)
	}
	if result.Artifact.Content == "" {
		t.Error("expected non-empty content after fallback")
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("expected 3 attempts against the service, got %d", got)
	}
}

func TestChainZeroRetriesSkipsService(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"content": "Generated by service"}`))
	}))
	defer server.Close()

	config := aiConfig(server.URL)
	zero := 0
	config.AI.MaxRetries = &zero

	chain := NewChain(config, rand.New(rand.NewSource(1)))

	result := chain.Generate(context.Background(), testRequest())

	if !result.FellBack {
		t.Error("expected fallback with zero retries")
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("expected no attempts against the service, got %d", got)
	}
}

func TestChainAuthenticationFailureSkipsRetries(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	chain := NewChain(aiConfig(server.URL), rand.New(rand.NewSource(1)))

	result := chain.Generate(context.Background(), testRequest())

	if !result.FellBack {
		t.Error("expected fallback")
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("expected a single attempt on credential rejection, got %d", got)
	}
}

func TestChainWithoutAIEntersMarkovOrTemplate(t *testing.T) {
	corpus := writeCorpus(t, "The fox jumps. The dog sleeps. The forest is quiet and green.")

	chain := NewChain(&configuration.Content{
		Markov: &configuration.Markov{Weight: 1.0, CorpusPath: corpus},
	}, rand.New(rand.NewSource(2)))

	result := chain.Generate(context.Background(), testRequest())

	if result.Strategy != "markov" {
		t.Errorf("expected strategy markov with weight 1.0, got %s", result.Strategy)
	}
}

func TestChainTemplateOnly(t *testing.T) {
	chain := NewChain(&configuration.Content{}, rand.New(rand.NewSource(3)))

	result := chain.Generate(context.Background(), testRequest())

	if result.Strategy != "template" {
		t.Errorf("expected strategy template, got %s", result.Strategy)
	}
	if result.FellBack {
		t.Error("expected no fallback when templates are the entry tier")
	}
	if result.Artifact.Content == "" {
		t.Error("expected non-empty content")
	}
}
