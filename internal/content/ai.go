package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
	"github.com/mxcd/gardener/internal/retry"
	"github.com/rs/zerolog/log"
)

// ErrAuthentication marks a credential rejection by the content service.
// It is non-retryable: the chain falls through immediately without consuming
// the retry budget.
var ErrAuthentication = errors.New("content service rejected credentials")

type aiRequest struct {
	Task        string             `json:"task"`
	ContentType string             `json:"contentType"`
	Language    string             `json:"language,omitempty"`
	Complexity  string             `json:"complexity,omitempty"`
	Repository  string             `json:"repository,omitempty"`
	Context     *RepositoryProfile `json:"context,omitempty"`
}

type aiResponse struct {
	Content string `json:"content"`
	Message string `json:"message,omitempty"`
}

// AIClient is the primary content tier: an HTTP client for the external
// content-generation service with bounded retries and per-request timeouts.
type AIClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	policy     retry.Policy
}

func NewAIClient(config *configuration.AIService) *AIClient {
	policy := retry.DefaultPolicy()
	if config.MaxRetries != nil {
		policy.MaxAttempts = *config.MaxRetries
	}
	policy.Retryable = func(err error) bool {
		return !errors.Is(err, ErrAuthentication)
	}

	return &AIClient{
		endpoint: config.Endpoint,
		apiKey:   config.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		policy: policy,
	}
}

func (c *AIClient) Name() string {
	return "ai"
}

func (c *AIClient) Generate(ctx context.Context, request *Request) (*Artifact, error) {
	payload := &aiRequest{
		Task:        "content_generation",
		ContentType: string(request.Type),
		Language:    request.Language,
		Complexity:  string(request.Complexity),
		Repository:  request.Repository,
		Context:     request.Analysis,
	}

	var artifact *Artifact
	err := c.policy.Do(ctx, "ai content generation", func() error {
		generated, requestErr := c.generateOnce(ctx, payload)
		if requestErr != nil {
			return requestErr
		}
		artifact = generated
		return nil
	})
	if err != nil {
		return nil, err
	}

	artifact.Extension = ExtensionFor(request.Type, request.Language)
	return artifact, nil
}

func (c *AIClient) generateOnce(ctx context.Context, payload *aiRequest) (*Artifact, error) {
	bodyJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/generate/content", c.endpoint)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to reach content service: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("HTTP %d: %w", response.StatusCode, ErrAuthentication)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content service returned HTTP %d", response.StatusCode)
	}

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var generated aiResponse
	if err := json.Unmarshal(responseBody, &generated); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if generated.Content == "" {
		return nil, fmt.Errorf("content service returned empty content")
	}

	message := generated.Message
	if message == "" {
		message = fmt.Sprintf("Update %s content", payload.ContentType)
	}

	log.Debug().
		Int("contentLength", len(generated.Content)).
		Str("contentType", payload.ContentType).
		Msg("Generated content via content service")

	return &Artifact{
		Content:       generated.Content,
		CommitMessage: message,
	}, nil
}
