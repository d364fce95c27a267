// Package domain defines the core business entities and interfaces for convbump.
// This package contains no external dependencies and represents the innermost layer
// of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Domain errors for repository access, classification and configuration.
var (
	// ErrRepositoryNotFound indicates the specified path is not a valid Git repository.
	ErrRepositoryNotFound = errors.New("git repository not found at specified path")

	// ErrNoRemoteOrigin indicates no 'origin' remote is configured in the repository.
	ErrNoRemoteOrigin = errors.New("no 'origin' remote configured; cannot derive commit URL")

	// ErrInvalidRemoteURL indicates the remote URL could not be parsed to extract host and owner/repo.
	ErrInvalidRemoteURL = errors.New("could not parse repository name from remote URL")

	// ErrTagNotFound indicates a version tag could not be resolved to a commit.
	ErrTagNotFound = errors.New("version tag not found")

	// ErrNoVersionTag indicates no tag parses as a semantic version.
	ErrNoVersionTag = errors.New("no semver tags detected")

	// ErrAmbiguousVersionTag indicates several tags parse to the highest version.
	ErrAmbiguousVersionTag = errors.New("multiple tags share the highest version")

	// ErrHistoryRead indicates the commit walk failed.
	ErrHistoryRead = errors.New("failed to read commit history")

	// ErrUnparseable indicates a commit message does not follow the conventional commit grammar.
	ErrUnparseable = errors.New("commit message is not a conventional commit")

	// ErrInvalidHeading indicates a heading is not of the form type=label.
	ErrInvalidHeading = errors.New("invalid heading, expected type=label")

	// ErrUnknownHeadingType indicates a heading names a type outside the enumeration.
	ErrUnknownHeadingType = errors.New("unknown commit type in heading")

	// ErrDuplicateHeading indicates a type was given more than one heading.
	ErrDuplicateHeading = errors.New("commit type has more than one heading")

	// ErrHeadingNotInjective indicates two types were given the same label.
	ErrHeadingNotInjective = errors.New("heading label is assigned to more than one commit type")

	// ErrInvalidCommitURLTemplate indicates the commit URL template lacks the {id} placeholder.
	ErrInvalidCommitURLTemplate = errors.New("commit URL template must contain {id}")

	// ErrUnknownOutputStyle indicates an unsupported changelog style.
	ErrUnknownOutputStyle = errors.New("unknown output style")
)

// LocalGitRepository reads version tags and commit history from a local repository.
type LocalGitRepository interface {
	// LatestVersion returns the tag holding the highest semantic version.
	// Returns ErrNoVersionTag when no tag parses and ErrAmbiguousVersionTag
	// when more than one tag parses to the highest version.
	LatestVersion(ctx context.Context) (*VersionTag, error)

	// CommitsSince returns the commits reachable from HEAD but not from tag,
	// oldest first. Returns ErrTagNotFound if the tag cannot be resolved.
	CommitsSince(ctx context.Context, tag VersionTag) ([]RawCommit, error)

	// Close releases any resources held by the repository.
	Close() error
}

// Classifier parses one raw commit into a ClassifiedCommit.
type Classifier interface {
	// Classify returns an error wrapping ErrUnparseable when the message
	// does not follow the conventional commit grammar.
	Classify(commit RawCommit) (ClassifiedCommit, error)
}

// ChangelogRenderer formats grouped commits as changelog text.
type ChangelogRenderer interface {
	// Render builds the full changelog in the given style.
	// Groups without a heading in cfg are left out.
	Render(grouped GroupedCommits, cfg RenderConfig, style OutputStyle) (string, error)
}

// OutputWriter writes computed results to an output destination.
type OutputWriter interface {
	// WriteVersion writes the next version on its own line.
	WriteVersion(version string) error

	// WriteChangelog writes the rendered changelog verbatim.
	WriteChangelog(text string) error
}

// Planner computes the next release from the repository state.
type Planner interface {
	// Plan resolves the bump and next version, rendering the changelog when requested.
	Plan(ctx context.Context, input PlanInput) (*PlanOutput, error)
}
