// Package domain defines the core business entities and interfaces for convbump.
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// RawCommit is a commit as yielded by the history reader, before classification.
type RawCommit struct {
	// ID is the full commit hash. It is only displayed and substituted into URLs.
	ID string

	// Message is the complete commit message (header, body and footers).
	Message string
}

// CommitType is the closed set of conventional commit types.
// Tokens outside the set are folded into TypeOther.
type CommitType string

// Known commit types.
const (
	TypeBuild    CommitType = "build"
	TypeChore    CommitType = "chore"
	TypeCI       CommitType = "ci"
	TypeDocs     CommitType = "docs"
	TypeFeat     CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypePerf     CommitType = "perf"
	TypeRefactor CommitType = "refactor"
	TypeRevert   CommitType = "revert"
	TypeStyle    CommitType = "style"
	TypeTest     CommitType = "test"

	// TypeOther collects every type token that is not one of the above.
	TypeOther CommitType = "other"
)

var knownCommitTypes = map[CommitType]struct{}{
	TypeBuild:    {},
	TypeChore:    {},
	TypeCI:       {},
	TypeDocs:     {},
	TypeFeat:     {},
	TypeFix:      {},
	TypePerf:     {},
	TypeRefactor: {},
	TypeRevert:   {},
	TypeStyle:    {},
	TypeTest:     {},
	TypeOther:    {},
}

// CommitTypeFor maps a raw type token to its CommitType.
// Matching is case-insensitive; unknown tokens map to TypeOther.
func CommitTypeFor(token string) CommitType {
	t := CommitType(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := knownCommitTypes[t]; ok {
		return t
	}
	return TypeOther
}

// IsKnown reports whether t is a member of the enumeration (TypeOther included).
func (t CommitType) IsKnown() bool {
	_, ok := knownCommitTypes[t]
	return ok
}

// ClassifiedCommit is one commit parsed according to the conventional commit grammar.
// It is never modified after the classifier returns it.
type ClassifiedCommit struct {
	// ID is the full commit hash.
	ID string

	// Type is the enumerated commit type.
	Type CommitType

	// RawType is the lower-cased type token as written in the message.
	// It differs from Type only when Type is TypeOther.
	RawType string

	// Scope is the optional scope, empty when absent.
	Scope string

	// Description is the summary that follows "type(scope): ".
	Description string

	// IsBreaking is set when the type carries "!" or a BREAKING CHANGE footer is present.
	IsBreaking bool
}

// ShortID returns the first 8 characters of the commit hash.
func (c ClassifiedCommit) ShortID() string {
	return ShortID(c.ID)
}

// ShortIDLength is the number of characters shown for a commit reference.
const ShortIDLength = 8

// ShortID truncates a commit identifier for display.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

// GroupedCommits maps each commit type to its commits in insertion order.
type GroupedCommits map[CommitType][]ClassifiedCommit

// Len returns the total number of commits across all groups.
func (g GroupedCommits) Len() int {
	n := 0
	for _, commits := range g {
		n += len(commits)
	}
	return n
}

// Types returns the populated commit types in lexical order.
func (g GroupedCommits) Types() []CommitType {
	types := make([]CommitType, 0, len(g))
	for t, commits := range g {
		if len(commits) > 0 {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// BumpLevel is the magnitude of a version increment.
// Values are ordered by severity so the highest level is the numeric maximum.
type BumpLevel int

// Bump levels, lowest severity first.
const (
	BumpPatch BumpLevel = iota
	BumpMinor
	BumpMajor
)

// String returns the lower-case level name.
func (b BumpLevel) String() string {
	switch b {
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	default:
		return fmt.Sprintf("BumpLevel(%d)", int(b))
	}
}

// MaxBump returns the more severe of two levels.
func MaxBump(a, b BumpLevel) BumpLevel {
	if b > a {
		return b
	}
	return a
}

// Version is a semantic version triple with an optional prerelease suffix.
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease string
}

// String formats the version without any tag prefix.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// VersionTag is a repository tag that parsed as a semantic version.
type VersionTag struct {
	// Name is the tag name as it appears under refs/tags/.
	Name string

	// Version is the parsed version.
	Version Version
}

// OutputStyle selects the changelog markup.
type OutputStyle string

// Supported changelog styles.
const (
	// StyleMarkdown renders headings, bold scopes and [label](url) links.
	StyleMarkdown OutputStyle = "markdown"

	// StyleMrkdwn renders plain headings, bullet glyphs and <url|label> links.
	StyleMrkdwn OutputStyle = "mrkdwn"
)

// PlanInput contains the parameters for computing a release.
type PlanInput struct {
	// Style selects the changelog markup. Empty means no changelog is rendered.
	Style OutputStyle

	// Render holds the heading table and commit URL template.
	Render RenderConfig

	// VersionHeading titles the changelog with the next version.
	VersionHeading bool
}

// PlanOutput contains the result of a successful release computation.
type PlanOutput struct {
	// PriorTag is the highest semantic-version tag in the repository.
	PriorTag VersionTag

	// Next is PriorTag's version incremented by Bump.
	Next Version

	// Bump is the highest severity implied by the classified commits.
	Bump BumpLevel

	// CommitCount is the number of commits between PriorTag and HEAD.
	CommitCount int

	// Classified is how many of those commits followed the convention.
	Classified int

	// Grouped holds the classified commits by type.
	Grouped GroupedCommits

	// Changelog is the rendered text; empty when no style was requested.
	Changelog string
}
