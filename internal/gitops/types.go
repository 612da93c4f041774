package gitops

import "github.com/mxcd/gardener/internal/configuration"

// Repository is a local working copy of a contribution target.
type Repository struct {
	Name             string // owner/repo
	WorkingDirectory string
	Branch           string
	Actor            *configuration.Actor
}

// CommitOptions represents options for creating a commit
type CommitOptions struct {
	Message string
	Files   []string
}

// CommitResult describes the commits created for one artifact.
type CommitResult struct {
	Hashes []string
	Files  []string
}
