package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mxcd/gardener/internal/configuration"
	"github.com/rs/zerolog/log"
)

// NewRepository creates a repository handle for a configured contribution
// target. The working copy may not exist yet; Ensure materializes it.
func NewRepository(target *configuration.Repository, actor *configuration.Actor) *Repository {
	return &Repository{
		Name:             target.Name,
		WorkingDirectory: target.Path,
		Branch:           target.Branch,
		Actor:            actor,
	}
}

// RemoteURL builds the authenticated HTTPS remote URL for the repository.
func (r *Repository) RemoteURL() string {
	if r.Actor != nil && r.Actor.Token != "" {
		return fmt.Sprintf("https://%s@github.com/%s.git", r.Actor.Token, r.Name)
	}
	return fmt.Sprintf("https://github.com/%s.git", r.Name)
}

// Ensure makes sure the working copy exists and is current: clone when the
// directory holds no repository, pull otherwise.
func (r *Repository) Ensure() error {
	gitDir := filepath.Join(r.WorkingDirectory, ".git")
	if _, err := os.Stat(gitDir); os.IsNotExist(err) {
		return r.clone()
	}

	if err := r.CheckoutBranch(r.Branch); err != nil {
		return err
	}

	return r.Pull()
}

// clone clones the remote into the working directory.
func (r *Repository) clone() error {
	log.Debug().Str("repository", r.Name).Str("path", r.WorkingDirectory).Msg("Cloning repository")

	if err := os.MkdirAll(filepath.Dir(r.WorkingDirectory), 0755); err != nil {
		return fmt.Errorf("failed to create working directory parent: %w", err)
	}

	cmd := exec.Command("git", "clone", "--branch", r.Branch, r.RemoteURL(), r.WorkingDirectory)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w, output: %s", err, redactToken(string(output), r.Actor))
	}

	return nil
}

// CheckoutBranch checks out an existing branch
func (r *Repository) CheckoutBranch(branchName string) error {
	cmd := exec.Command("git", "checkout", branchName)
	cmd.Dir = r.WorkingDirectory

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w, output: %s", branchName, err, string(output))
	}

	return nil
}

// Pull pulls latest changes for the configured branch with rebase, so local
// contribution commits replay cleanly over remote changes.
func (r *Repository) Pull() error {
	cmd := exec.Command("git", "pull", "--rebase", "origin", r.Branch)
	cmd.Dir = r.WorkingDirectory

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to pull: %w, output: %s", err, redactToken(string(output), r.Actor))
	}

	return nil
}

// Commit creates a commit with the specified changes
func (r *Repository) Commit(options *CommitOptions) error {
	log.Debug().
		Str("message", options.Message).
		Int("files", len(options.Files)).
		Msg("Creating commit")

	if r.Actor == nil {
		return fmt.Errorf("actor not configured")
	}

	for _, file := range options.Files {
		if err := r.stageFile(file); err != nil {
			return fmt.Errorf("failed to stage file %s: %w", file, err)
		}
	}

	// Commit with environment variables to avoid persisting git config changes
	cmd := exec.Command("git", "commit", "-m", options.Message)
	cmd.Dir = r.WorkingDirectory
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("GIT_AUTHOR_NAME=%s", r.Actor.Name),
		fmt.Sprintf("GIT_AUTHOR_EMAIL=%s", r.Actor.Email),
		fmt.Sprintf("GIT_COMMITTER_NAME=%s", r.Actor.Name),
		fmt.Sprintf("GIT_COMMITTER_EMAIL=%s", r.Actor.Email),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to commit: %w, output: %s", err, string(output))
	}

	log.Debug().Str("message", options.Message).Msg("Created commit")

	return nil
}

// stageFile stages a file for commit
func (r *Repository) stageFile(filePath string) error {
	cmd := exec.Command("git", "add", filePath)
	cmd.Dir = r.WorkingDirectory

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to stage file: %w, output: %s", err, string(output))
	}

	return nil
}

// Push pushes the configured branch to the remote.
func (r *Repository) Push() error {
	log.Debug().Str("repository", r.Name).Str("branch", r.Branch).Msg("Pushing branch to remote")

	cmd := exec.Command("git", "push", "origin", r.Branch)
	cmd.Dir = r.WorkingDirectory

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to push: %w, output: %s", err, redactToken(string(output), r.Actor))
	}

	log.Debug().Str("repository", r.Name).Str("branch", r.Branch).Msg("Pushed branch to remote")

	return nil
}

// HasUncommittedChanges checks if there are uncommitted changes in the working directory
func (r *Repository) HasUncommittedChanges() (bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = r.WorkingDirectory

	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %w", err)
	}

	return len(strings.TrimSpace(string(output))) > 0, nil
}

// HeadHash returns the commit hash of HEAD.
func (r *Repository) HeadHash() (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = r.WorkingDirectory

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// redactToken strips the actor token from git output before it reaches logs
// or error messages.
func redactToken(output string, actor *configuration.Actor) string {
	if actor == nil || actor.Token == "" {
		return output
	}
	return strings.ReplaceAll(output, actor.Token, "***")
}
