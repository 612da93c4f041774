package gitops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
	"github.com/mxcd/gardener/internal/content"
	"github.com/rs/zerolog/log"
)

// Committer materializes generated artifacts into a working copy, creates
// commits, and pushes them. It owns the empty-diff guard, the split-commit
// policy, and the pull-and-retry push handling.
type Committer struct {
	splitCommits *configuration.SplitCommits
	pullRetries  int
	now          func() time.Time
}

func NewCommitter(splitCommits *configuration.SplitCommits, push *configuration.Push) *Committer {
	pullRetries := 0
	if push != nil {
		pullRetries = push.PullRetries
	}
	return &Committer{
		splitCommits: splitCommits,
		pullRetries:  pullRetries,
		now:          time.Now,
	}
}

// Contribute writes all artifacts, commits them, and pushes once at the end.
// The returned result lists the created commit hashes; it is only non-empty
// after the push succeeded, so callers never record phantom contributions.
func (c *Committer) Contribute(repo *Repository, artifacts []*content.Artifact) (*CommitResult, error) {
	result := &CommitResult{}

	for i, artifact := range artifacts {
		fileName := c.artifactFileName(artifact, i)

		hashes, err := c.commitArtifact(repo, artifact, fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to commit artifact %s: %w", fileName, err)
		}
		if len(hashes) == 0 {
			log.Debug().
				Str("repository", repo.Name).
				Str("file", fileName).
				Msg("Artifact produced no change, skipping commit")
			continue
		}

		result.Hashes = append(result.Hashes, hashes...)
		result.Files = append(result.Files, fileName)
	}

	if len(result.Hashes) == 0 {
		return result, nil
	}

	if err := c.pushWithRetry(repo); err != nil {
		return nil, err
	}

	return result, nil
}

// commitArtifact writes one artifact and creates its commit(s). It returns no
// hashes when the working tree did not change (empty-diff guard).
func (c *Committer) commitArtifact(repo *Repository, artifact *content.Artifact, fileName string) ([]string, error) {
	filePath := filepath.Join(repo.WorkingDirectory, fileName)

	if c.splitCommits != nil && c.splitCommits.Enabled {
		return c.commitSplit(repo, artifact, fileName, filePath)
	}

	if err := os.WriteFile(filePath, []byte(artifact.Content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	changed, err := repo.HasUncommittedChanges()
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}

	if err := repo.Commit(&CommitOptions{
		Message: artifact.CommitMessage,
		Files:   []string{fileName},
	}); err != nil {
		return nil, err
	}

	hash, err := repo.HeadHash()
	if err != nil {
		return nil, err
	}

	return []string{hash}, nil
}

// commitSplit partitions the artifact into line chunks and creates one commit
// per chunk. Each commit appends its chunk, so the final file holds the full
// content in original line order.
func (c *Committer) commitSplit(repo *Repository, artifact *content.Artifact, fileName, filePath string) ([]string, error) {
	chunks := PartitionLines(artifact.Content, c.splitCommits.MaxLinesPerCommit)
	if len(chunks) <= 1 {
		if err := os.WriteFile(filePath, []byte(artifact.Content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write artifact: %w", err)
		}

		changed, err := repo.HasUncommittedChanges()
		if err != nil {
			return nil, err
		}
		if !changed {
			return nil, nil
		}

		if err := repo.Commit(&CommitOptions{Message: artifact.CommitMessage, Files: []string{fileName}}); err != nil {
			return nil, err
		}
		hash, err := repo.HeadHash()
		if err != nil {
			return nil, err
		}
		return []string{hash}, nil
	}

	prefix := c.splitCommits.MessagePrefix
	if prefix == "" {
		prefix = artifact.CommitMessage
	}

	var hashes []string
	var written []string

	for i, chunk := range chunks {
		written = append(written, chunk...)
		body := strings.Join(written, "\n")
		if strings.HasSuffix(artifact.Content, "\n") || i < len(chunks)-1 {
			body += "\n"
		}

		if err := os.WriteFile(filePath, []byte(body), 0644); err != nil {
			return nil, fmt.Errorf("failed to write artifact chunk: %w", err)
		}

		changed, err := repo.HasUncommittedChanges()
		if err != nil {
			return nil, err
		}
		if !changed {
			continue
		}

		message := fmt.Sprintf("%s %d/%d", prefix, i+1, len(chunks))
		if err := repo.Commit(&CommitOptions{Message: message, Files: []string{fileName}}); err != nil {
			return nil, err
		}

		hash, err := repo.HeadHash()
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}

	return hashes, nil
}

// pushWithRetry pushes the branch, attempting a bounded pull-and-retry when
// the remote rejects the push (e.g. because it has diverged).
func (c *Committer) pushWithRetry(repo *Repository) error {
	err := repo.Push()
	if err == nil {
		return nil
	}

	for attempt := 1; attempt <= c.pullRetries; attempt++ {
		log.Warn().
			Err(err).
			Str("repository", repo.Name).
			Int("attempt", attempt).
			Int("pullRetries", c.pullRetries).
			Msg("Push rejected, pulling and retrying")

		if pullErr := repo.Pull(); pullErr != nil {
			return fmt.Errorf("failed to pull before push retry: %w", pullErr)
		}

		err = repo.Push()
		if err == nil {
			return nil
		}
	}

	return fmt.Errorf("push failed after %d pull retries: %w", c.pullRetries, err)
}

// artifactFileName builds a unique working-copy file name for an artifact.
func (c *Committer) artifactFileName(artifact *content.Artifact, index int) string {
	timestamp := c.now().Format("20060102_150405")
	if index == 0 {
		return fmt.Sprintf("contribution_%s%s", timestamp, artifact.Extension)
	}
	return fmt.Sprintf("contribution_%s_%d%s", timestamp, index, artifact.Extension)
}

// PartitionLines splits content into ordered chunks of at most maxLines lines.
// The same content and threshold always partition identically.
func PartitionLines(text string, maxLines int) [][]string {
	if maxLines < 1 {
		maxLines = 1
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	var chunks [][]string
	for i := 0; i < len(lines); i += maxLines {
		end := i + maxLines
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, lines[i:end])
	}

	return chunks
}
