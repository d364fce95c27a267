// Package git provides adapters for interacting with local Git repositories.
// This package implements the domain.LocalGitRepository interface using go-git/v5.
package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/object/commitgraph"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// GoGitRepository implements domain.LocalGitRepository using go-git/v5.
// It reads version tags and the commit history between a tag and HEAD.
type GoGitRepository struct {
	repo   *git.Repository
	path   string
	logger Logger
}

// NewGoGitRepository opens the repository containing path.
// Parent directories are searched for the .git directory.
// Returns domain.ErrRepositoryNotFound if no repository is found.
func NewGoGitRepository(path string, log Logger) (*GoGitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, path)
	}

	return &GoGitRepository{
		repo:   repo,
		path:   path,
		logger: log,
	}, nil
}

// LatestVersion returns the tag with the highest semantic version.
// Tag names may carry a "v" prefix; tags that do not parse are ignored.
func (r *GoGitRepository) LatestVersion(ctx context.Context) (*domain.VersionTag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tags: %w", domain.ErrHistoryRead, err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tags: %w", domain.ErrHistoryRead, err)
	}

	latest, err := latestVersionTag(names)
	if err != nil {
		return nil, err
	}

	r.logger.Debug(ctx, "discovered version tags", map[string]interface{}{
		"tags":   len(names),
		"latest": latest.Name,
		"path":   r.path,
	})

	return latest, nil
}

// CommitsSince returns the commits reachable from HEAD but not from tag, oldest first.
// Every ancestor of the tag commit is excluded, matching `git log --topo-order --reverse <tag>..HEAD`:
// a commit never comes before one of its parents.
func (r *GoGitRepository) CommitsSince(ctx context.Context, tag domain.VersionTag) ([]domain.RawCommit, error) {
	tagCommit, err := r.resolveTagCommit(tag.Name)
	if err != nil {
		return nil, err
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get HEAD: %w", domain.ErrHistoryRead, err)
	}

	headCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get commit object for HEAD: %w", domain.ErrHistoryRead, err)
	}

	released := make(map[plumbing.Hash]bool)
	err = object.NewCommitPreorderIter(tagCommit, nil, nil).ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		released[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to walk history of %s: %w", domain.ErrHistoryRead, tag.Name, err)
	}

	var commits []domain.RawCommit
	if !released[headCommit.Hash] {
		commits, err = r.topoOrder(ctx, headCommit, released)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to walk history from HEAD: %w", domain.ErrHistoryRead, err)
		}
	}

	r.logger.Debug(ctx, "walked commits since tag", map[string]interface{}{
		"tag":        tag.Name,
		"tag_commit": tagCommit.Hash.String(),
		"head_sha":   head.Hash().String(),
		"commits":    len(commits),
	})

	return commits, nil
}

// topoOrder walks from head in `git log --topo-order` order, skipping released commits,
// and returns the result reversed so parents come before their children.
func (r *GoGitRepository) topoOrder(
	ctx context.Context,
	head *object.Commit,
	released map[plumbing.Hash]bool,
) ([]domain.RawCommit, error) {
	index := commitgraph.NewObjectCommitNodeIndex(r.repo.Storer)
	node, err := index.Get(head.Hash)
	if err != nil {
		return nil, err
	}

	iter := commitgraph.NewCommitNodeIterTopoOrder(node, released, nil)
	defer iter.Close()

	var commits []domain.RawCommit
	err = iter.ForEach(func(n commitgraph.CommitNode) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := n.Commit()
		if err != nil {
			return err
		}
		commits = append(commits, domain.RawCommit{
			ID:      c.Hash.String(),
			Message: c.Message,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(commits)
	return commits, nil
}

// RemoteCommitURLTemplate derives a commit URL template from the origin remote,
// e.g. https://github.com/owner/repo/commit/{id}.
func (r *GoGitRepository) RemoteCommitURLTemplate(ctx context.Context) (string, error) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("%w: failed to get origin remote: %w", domain.ErrNoRemoteOrigin, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: origin remote has no URLs configured", domain.ErrNoRemoteOrigin)
	}

	host, repoName, err := parseRemoteURL(urls[0])
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidRemoteURL, err)
	}

	tpl := "https://" + host + "/" + repoName + "/commit/" + domain.CommitURLPlaceholder

	r.logger.Debug(ctx, "derived commit URL template from origin", map[string]interface{}{
		"remote":   urls[0],
		"template": tpl,
	})

	return tpl, nil
}

// Close releases any resources held by the repository.
// For go-git, this is a no-op as the repository doesn't hold persistent resources.
func (r *GoGitRepository) Close() error {
	return nil
}

// resolveTagCommit peels an annotated or lightweight tag to its commit.
func (r *GoGitRepository) resolveTagCommit(name string) (*object.Commit, error) {
	ref, err := r.repo.Tag(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrTagNotFound, name, err)
	}

	tagObj, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := tagObj.Commit()
		if err != nil {
			return nil, fmt.Errorf("%w: %s does not point to a commit: %w", domain.ErrTagNotFound, name, err)
		}
		return commit, nil
	case !errors.Is(err, plumbing.ErrObjectNotFound):
		return nil, fmt.Errorf("%w: failed to read tag %s: %w", domain.ErrHistoryRead, name, err)
	}

	// Lightweight tag: the reference points straight at the commit.
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("%w: %s does not point to a commit: %w", domain.ErrTagNotFound, name, err)
	}
	return commit, nil
}

// parseVersionTag parses a tag name as strict semver, allowing a leading "v".
func parseVersionTag(name string) (*semver.Version, bool) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(name, "v"))
	if err != nil {
		return nil, false
	}
	return v, true
}

// latestVersionTag picks the highest semantic version among tag names.
// Several names parsing to that version (v1.2.0 and 1.2.0) are rejected rather than
// picking one arbitrarily.
func latestVersionTag(names []string) (*domain.VersionTag, error) {
	var (
		best      *semver.Version
		bestNames []string
	)

	for _, name := range names {
		v, ok := parseVersionTag(name)
		if !ok {
			continue
		}
		switch {
		case best == nil || v.GreaterThan(best):
			best = v
			bestNames = []string{name}
		case v.Equal(best):
			bestNames = append(bestNames, name)
		}
	}

	if best == nil {
		return nil, domain.ErrNoVersionTag
	}

	if len(bestNames) > 1 {
		sort.Strings(bestNames)
		return nil, fmt.Errorf("%w: %s all parse to %s",
			domain.ErrAmbiguousVersionTag, strings.Join(bestNames, ", "), best.String())
	}

	return &domain.VersionTag{
		Name: bestNames[0],
		Version: domain.Version{
			Major:      best.Major(),
			Minor:      best.Minor(),
			Patch:      best.Patch(),
			Prerelease: best.Prerelease(),
		},
	}, nil
}

// Regular expressions for parsing Git remote URLs.
var (
	// httpsURLPattern matches HTTPS URLs like:
	// https://github.com/owner/repo.git
	// https://user@github.com/owner/repo
	httpsURLPattern = regexp.MustCompile(`^https?://(?:[^@/]+@)?([^/]+)/([^/]+)/([^/]+?)(?:\.git)?/?$`)

	// sshURLPattern matches scp-style SSH URLs like:
	// git@github.com:owner/repo.git
	sshURLPattern = regexp.MustCompile(`^[^@\s/]+@([^:]+):([^/]+)/([^/]+?)(?:\.git)?$`)

	// sshSchemeURLPattern matches SSH URLs with a scheme like:
	// ssh://git@github.com:22/owner/repo.git
	sshSchemeURLPattern = regexp.MustCompile(`^ssh://(?:[^@/]+@)?([^/:]+)(?::\d+)?/([^/]+)/([^/]+?)(?:\.git)?$`)
)

// parseRemoteURL extracts the host and owner/repo from a Git remote URL.
//   - https://github.com/owner/repo.git -> github.com, owner/repo
//   - git@github.com:owner/repo -> github.com, owner/repo
//   - ssh://git@github.com/owner/repo.git -> github.com, owner/repo
func parseRemoteURL(url string) (host, repo string, err error) {
	url = strings.TrimSpace(url)

	for _, pattern := range []*regexp.Regexp{httpsURLPattern, sshURLPattern, sshSchemeURLPattern} {
		if matches := pattern.FindStringSubmatch(url); len(matches) == 4 {
			return matches[1], matches[2] + "/" + matches[3], nil
		}
	}

	return "", "", fmt.Errorf("unrecognized URL format: %s", url)
}
