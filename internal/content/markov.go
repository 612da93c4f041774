package content

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
)

// MarkovGenerator produces text from a first-order word chain trained on a
// local corpus file. It fails (and the chain falls through) when the corpus
// is missing or too small to train on.
type MarkovGenerator struct {
	corpusPath string
	rng        *rand.Rand

	trainOnce sync.Once
	trainErr  error
	chain     map[string][]string
	starters  []string
}

func NewMarkovGenerator(config *configuration.Markov, rng *rand.Rand) *MarkovGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MarkovGenerator{
		corpusPath: config.CorpusPath,
		rng:        rng,
	}
}

func (g *MarkovGenerator) Name() string {
	return "markov"
}

func (g *MarkovGenerator) Generate(_ context.Context, request *Request) (*Artifact, error) {
	g.trainOnce.Do(g.train)
	if g.trainErr != nil {
		return nil, g.trainErr
	}

	text := g.walk(wordBudget(request.Complexity))
	if text == "" {
		return nil, fmt.Errorf("markov chain produced no output")
	}

	body := text
	if request.Type == configuration.ContentTypeDocs {
		body = fmt.Sprintf("# Notes\n\n%s\n", text)
	} else if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	return &Artifact{
		Extension:     ExtensionFor(request.Type, request.Language),
		Content:       body,
		CommitMessage: commitMessageFromText(text),
	}, nil
}

// train builds the word chain from the corpus file. It runs once; a training
// failure is sticky and reported on every call.
func (g *MarkovGenerator) train() {
	data, err := os.ReadFile(g.corpusPath)
	if err != nil {
		g.trainErr = fmt.Errorf("failed to read markov corpus: %w", err)
		return
	}

	words := strings.Fields(string(data))
	if len(words) < 3 {
		g.trainErr = fmt.Errorf("markov corpus too small: %d words", len(words))
		return
	}

	g.chain = make(map[string][]string)
	for i := 0; i < len(words)-1; i++ {
		g.chain[words[i]] = append(g.chain[words[i]], words[i+1])
	}

	for _, word := range words {
		if first := []rune(word)[0]; first >= 'A' && first <= 'Z' {
			g.starters = append(g.starters, word)
		}
	}
	if len(g.starters) == 0 {
		g.starters = words[:1]
	}
}

func (g *MarkovGenerator) walk(budget int) string {
	current := g.starters[g.rng.Intn(len(g.starters))]
	words := []string{current}

	for len(words) < budget {
		next, ok := g.chain[current]
		if !ok || len(next) == 0 {
			break
		}
		current = next[g.rng.Intn(len(next))]
		words = append(words, current)
	}

	return strings.Join(words, " ")
}

func wordBudget(complexity configuration.ContentComplexity) int {
	switch complexity {
	case configuration.ContentComplexityHigh:
		return 120
	case configuration.ContentComplexityMedium:
		return 60
	default:
		return 30
	}
}

// commitMessageFromText derives a short commit message from generated text.
func commitMessageFromText(text string) string {
	const maxLength = 60

	message := strings.Join(strings.Fields(text), " ")
	if len(message) > maxLength {
		cut := strings.LastIndex(message[:maxLength], " ")
		if cut <= 0 {
			cut = maxLength
		}
		message = message[:cut]
	}
	if message == "" {
		message = "Update notes"
	}
	return message
}
