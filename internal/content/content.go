package content

import (
	"context"
	"strings"

	"github.com/mxcd/gardener/internal/configuration"
)

// Request describes one piece of content to generate. It is created per file,
// consumed by a single strategy, and discarded afterwards.
type Request struct {
	Repository string
	Type       configuration.ContentType
	Language   string
	Complexity configuration.ContentComplexity
	Analysis   *RepositoryProfile
}

// Artifact is a generated piece of committable content.
type Artifact struct {
	// Extension includes the leading dot and is consistent with the
	// requested content type.
	Extension     string
	Content       string
	CommitMessage string
}

// Strategy generates content for a request. Implementations may fail; the
// Chain absorbs failures by falling through to the next tier.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, request *Request) (*Artifact, error)
}

// ExtensionFor maps a content type and language to a file extension.
func ExtensionFor(contentType configuration.ContentType, language string) string {
	switch contentType {
	case configuration.ContentTypeDocs:
		return ".md"
	case configuration.ContentTypeConfig:
		return ".yml"
	case configuration.ContentTypeCode:
		switch strings.ToLower(language) {
		case "go":
			return ".go"
		case "python":
			return ".py"
		case "javascript":
			return ".js"
		case "markdown":
			return ".md"
		default:
			return ".txt"
		}
	default:
		return ".txt"
	}
}
