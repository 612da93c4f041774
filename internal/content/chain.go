package content

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
	"github.com/rs/zerolog/log"
)

// GenerationResult carries the artifact together with which tier produced it
// and whether a fallback from a higher tier occurred.
type GenerationResult struct {
	Artifact *Artifact
	Strategy string
	FellBack bool
}

// Chain is the ordered list of content strategies: AI service, Markov, then
// templates. Tier entry is probabilistic and configuration-driven; on failure
// of the entered tier, every later tier is attempted in order. The chain
// never returns an error and never returns empty content.
type Chain struct {
	rng          *rand.Rand
	strategies   []Strategy
	markovIndex  int
	markovWeight float64
}

// NewChain builds the strategy chain from the content configuration.
// The template tier is always present and always last.
func NewChain(config *configuration.Content, rng *rand.Rand) *Chain {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	chain := &Chain{
		rng:         rng,
		markovIndex: -1,
	}

	if config.AI != nil && config.AI.Enabled {
		chain.strategies = append(chain.strategies, NewAIClient(config.AI))
	}
	if config.Markov != nil {
		chain.markovIndex = len(chain.strategies)
		chain.markovWeight = config.Markov.Weight
		chain.strategies = append(chain.strategies, NewMarkovGenerator(config.Markov, rng))
	}
	chain.strategies = append(chain.strategies, NewTemplateGenerator(rng))

	return chain
}

// Generate produces content for the request. All tier failures are absorbed:
// the worst case is templated content, which always succeeds.
func (c *Chain) Generate(ctx context.Context, request *Request) *GenerationResult {
	start := c.entryIndex()

	for i := start; i < len(c.strategies); i++ {
		strategy := c.strategies[i]

		artifact, err := strategy.Generate(ctx, request)
		if err == nil && artifact != nil && artifact.Content != "" {
			return &GenerationResult{
				Artifact: artifact,
				Strategy: strategy.Name(),
				FellBack: i > start,
			}
		}

		log.Warn().
			Err(err).
			Str("strategy", strategy.Name()).
			Str("repository", request.Repository).
			Msg("Content strategy failed, falling back to next tier")
	}

	// Unreachable with the template tier in place, but the output contract
	// holds even if every strategy misbehaves.
	return &GenerationResult{
		Artifact: &Artifact{
			Extension:     ExtensionFor(request.Type, request.Language),
			Content:       fmt.Sprintf("Contribution at %s\n", time.Now().Format(time.RFC3339)),
			CommitMessage: "Maintain contribution cadence",
		},
		Strategy: "fallback",
		FellBack: true,
	}
}

// entryIndex selects the tier to start from. The AI tier, when configured,
// is always preferred; otherwise the Markov tier is entered with its
// configured probability, else templates.
func (c *Chain) entryIndex() int {
	if len(c.strategies) == 0 {
		return 0
	}

	if c.strategies[0].Name() == "ai" {
		return 0
	}

	if c.markovIndex >= 0 && c.rng.Float64() < c.markovWeight {
		return c.markovIndex
	}

	return len(c.strategies) - 1
}
