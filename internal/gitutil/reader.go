// Package gitutil provides read access to Git repositories: commit listing,
// range resolution, and unified diff extraction.
package gitutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/critiq-ai/critiq/internal/core"
)

// Client handles interacting with Git repositories.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// Open opens a Git repository at a given path.
func (c *Client) Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &AccessError{Path: path, Op: "open", Err: err}
	}
	return repo, nil
}

// ListCommits returns commit records for the repository at path, newest
// first, each carrying the unified diff against its first parent.
//
// rangeSpec may be empty (the full history reachable from HEAD), a single
// revision ("HEAD", "HEAD~3", a branch, a hash prefix) which yields exactly
// that commit, or a range "old..new" which yields the commits reachable from
// new but not from old. limit caps the number of records; limit <= 0 means
// no cap.
func (c *Client) ListCommits(path, rangeSpec string, limit int) ([]core.CommitRecord, error) {
	repo, err := c.Open(path)
	if err != nil {
		return nil, err
	}

	from, until, err := c.resolveRange(repo, path, rangeSpec)
	if err != nil {
		return nil, err
	}

	// "old..new" means ancestors of new minus ancestors of old; on branched
	// histories the excluded side cannot be detected by watching for old's
	// hash alone, so collect its full ancestry up front.
	var excluded map[plumbing.Hash]struct{}
	if until != nil {
		excluded, err = c.ancestry(repo, *until)
		if err != nil {
			return nil, &AccessError{Path: path, Op: "walk", Err: err}
		}
	}

	iter, err := repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, &AccessError{Path: path, Op: "log", Err: err}
	}
	defer iter.Close()

	single := rangeSpec != "" && !strings.Contains(rangeSpec, "..")

	var records []core.CommitRecord
	err = iter.ForEach(func(commit *object.Commit) error {
		if _, skip := excluded[commit.Hash]; skip {
			return nil
		}
		if limit > 0 && len(records) >= limit {
			return storer.ErrStop
		}

		record, err := c.record(commit)
		if err != nil {
			c.Logger.Warn("skipping commit, failed to compute diff",
				"hash", commit.Hash.String(), "error", err)
		} else {
			records = append(records, record)
		}

		if single {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, &AccessError{Path: path, Op: "walk", Err: err}
	}

	return records, nil
}

// ancestry returns the set of commit hashes reachable from the given commit.
func (c *Client) ancestry(repo *git.Repository, from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	iter, err := repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]struct{})
	err = iter.ForEach(func(commit *object.Commit) error {
		seen[commit.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

// resolveRange turns a range spec into a starting hash and an optional
// exclusive stop hash.
func (c *Client) resolveRange(repo *git.Repository, path, rangeSpec string) (plumbing.Hash, *plumbing.Hash, error) {
	if rangeSpec == "" {
		head, err := repo.Head()
		if err != nil {
			return plumbing.ZeroHash, nil, &AccessError{Path: path, Op: "head", Err: err}
		}
		return head.Hash(), nil, nil
	}

	if old, new, ok := strings.Cut(rangeSpec, ".."); ok {
		fromHash, err := repo.ResolveRevision(plumbing.Revision(strings.TrimSpace(new)))
		if err != nil {
			return plumbing.ZeroHash, nil, &AccessError{Path: path, Op: "resolve " + new, Err: err}
		}
		untilHash, err := repo.ResolveRevision(plumbing.Revision(strings.TrimSpace(old)))
		if err != nil {
			return plumbing.ZeroHash, nil, &AccessError{Path: path, Op: "resolve " + old, Err: err}
		}
		return *fromHash, untilHash, nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(strings.TrimSpace(rangeSpec)))
	if err != nil {
		return plumbing.ZeroHash, nil, &AccessError{Path: path, Op: "resolve " + rangeSpec, Err: err}
	}
	return *hash, nil, nil
}

// record builds a CommitRecord with the commit's diff against its first
// parent. Root commits are diffed against the empty tree.
func (c *Client) record(commit *object.Commit) (core.CommitRecord, error) {
	tree, err := commit.Tree()
	if err != nil {
		return core.CommitRecord{}, fmt.Errorf("failed to get tree: %w", err)
	}

	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return core.CommitRecord{}, fmt.Errorf("failed to get parent: %w", err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return core.CommitRecord{}, fmt.Errorf("failed to get parent tree: %w", err)
		}
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return core.CommitRecord{}, fmt.Errorf("failed to diff trees: %w", err)
	}
	patch, err := changes.Patch()
	if err != nil {
		return core.CommitRecord{}, fmt.Errorf("failed to build patch: %w", err)
	}

	hash := commit.Hash.String()
	return core.CommitRecord{
		Hash:      hash,
		ShortHash: shortHash(hash),
		Message:   strings.TrimSpace(commit.Message),
		Author:    commit.Author.Name,
		Email:     commit.Author.Email,
		When:      commit.Author.When,
		Diff:      patch.String(),
	}, nil
}

// CloneTemp clones a remote repository into a temporary directory and returns
// the path together with a cleanup function. Only public HTTP(S) URLs are
// supported; the web surface uses this to review repositories by URL.
func (c *Client) CloneTemp(ctx context.Context, repoURL string) (string, func(), error) {
	if !IsRemoteURL(repoURL) {
		return "", nil, fmt.Errorf("not a supported repository URL: %s", repoURL)
	}

	path, err := os.MkdirTemp("", "critiq-repo-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() {
		if removeErr := os.RemoveAll(path); removeErr != nil {
			c.Logger.Error("failed to remove temp repo", "path", path, "error", removeErr)
		}
	}

	c.Logger.InfoContext(ctx, "cloning repository", "url", repoURL, "path", path)
	if _, err := git.PlainCloneContext(ctx, path, false, &git.CloneOptions{URL: repoURL}); err != nil {
		cleanup()
		return "", nil, &AccessError{Path: repoURL, Op: "clone", Err: err}
	}
	return path, cleanup, nil
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
