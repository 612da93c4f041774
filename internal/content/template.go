package content

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
)

var commitMessages = []string{
	"Update documentation",
	"Add example code",
	"Fix formatting",
	"Update timestamp",
	"Refresh project notes",
	"Maintain housekeeping files",
}

// TemplateGenerator is the last content tier. It renders simple templated
// snippets and is guaranteed to succeed with non-empty content.
type TemplateGenerator struct {
	rng *rand.Rand
	now func() time.Time
}

func NewTemplateGenerator(rng *rand.Rand) *TemplateGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TemplateGenerator{
		rng: rng,
		now: time.Now,
	}
}

func (g *TemplateGenerator) Name() string {
	return "template"
}

func (g *TemplateGenerator) Generate(_ context.Context, request *Request) (*Artifact, error) {
	timestamp := g.now().Format("2006-01-02 15:04:05")

	var body string
	switch request.Type {
	case configuration.ContentTypeDocs:
		body = g.renderDocs(timestamp)
	case configuration.ContentTypeConfig:
		body = g.renderConfig(timestamp)
	default:
		body = g.renderCode(request.Language, timestamp)
	}

	return &Artifact{
		Extension:     ExtensionFor(request.Type, request.Language),
		Content:       body,
		CommitMessage: commitMessages[g.rng.Intn(len(commitMessages))],
	}, nil
}

func (g *TemplateGenerator) renderDocs(timestamp string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Project Update\n\n")
	fmt.Fprintf(&b, "## Latest Changes - %s\n\n", timestamp)
	fmt.Fprintf(&b, "- Added new functionality for data processing\n")
	fmt.Fprintf(&b, "- Fixed bug #%d\n", 100+g.rng.Intn(900))
	fmt.Fprintf(&b, "- Updated documentation\n\n")
	fmt.Fprintf(&b, "## Next Steps\n\n")
	fmt.Fprintf(&b, "- [ ] Implement advanced features\n")
	fmt.Fprintf(&b, "- [ ] Add more test coverage\n")
	return b.String()
}

func (g *TemplateGenerator) renderConfig(timestamp string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Generated configuration snapshot\n")
	fmt.Fprintf(&b, "updatedAt: \"%s\"\n", timestamp)
	fmt.Fprintf(&b, "revision: %d\n", g.rng.Intn(10000))
	fmt.Fprintf(&b, "features:\n")
	fmt.Fprintf(&b, "  caching: %t\n", g.rng.Intn(2) == 0)
	fmt.Fprintf(&b, "  batchSize: %d\n", 8+g.rng.Intn(56))
	return b.String()
}

func (g *TemplateGenerator) renderCode(language, timestamp string) string {
	seed := 4 + g.rng.Intn(97)

	switch strings.ToLower(language) {
	case "go":
		return fmt.Sprintf(`// Generated snippet
// Timestamp: %s

package snippets

// ProcessData doubles each item in the given slice.
func ProcessData(items []int) []int {
	results := make([]int, 0, len(items))
	for _, item := range items {
		results = append(results, item*2)
	}
	return results
}

var sample = []int{1, 2, 3, %d}
`, timestamp, seed)
	case "python":
		return fmt.Sprintf(`# Generated snippet
# Timestamp: %s

def process_data(items):
    """Process the given data items."""
    return [item * 2 for item in items]

data = [1, 2, 3, %d]
print(f"Result: {process_data(data)}")
`, timestamp, seed)
	case "javascript":
		return fmt.Sprintf(`// Generated snippet
// Timestamp: %s

function processData(items) {
  return items.map((item) => item * 2);
}

const data = [1, 2, 3, %d];
console.log(processData(data));
`, timestamp, seed)
	default:
		return fmt.Sprintf("Generated content at %s (rev %d)\n", timestamp, seed)
	}
}
