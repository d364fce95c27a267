package domain

import (
	"fmt"
	"strings"
)

// CommitURLPlaceholder is replaced by the full commit hash in a commit URL template.
const CommitURLPlaceholder = "{id}"

// CommitURLAuto in place of a template asks for one derived from the origin remote.
const CommitURLAuto = "auto"

// Heading maps a commit type to the label of its changelog section.
type Heading struct {
	Type  CommitType
	Label string
}

// ParseHeading parses a "type=label" pair. Only the first "=" separates the two.
func ParseHeading(s string) (Heading, error) {
	pos := strings.Index(s, "=")
	if pos < 0 {
		return Heading{}, fmt.Errorf("%w: no `=` found in %q", ErrInvalidHeading, s)
	}

	token := strings.TrimSpace(s[:pos])
	label := strings.TrimSpace(s[pos+1:])
	if token == "" || label == "" {
		return Heading{}, fmt.Errorf("%w: empty type or label in %q", ErrInvalidHeading, s)
	}

	t := CommitType(strings.ToLower(token))
	if !t.IsKnown() {
		return Heading{}, fmt.Errorf("%w: %q", ErrUnknownHeadingType, token)
	}

	return Heading{Type: t, Label: label}, nil
}

// ParseHeadings parses a list of "type=label" pairs, keeping their order.
func ParseHeadings(values []string) ([]Heading, error) {
	headings := make([]Heading, 0, len(values))
	for _, v := range values {
		h, err := ParseHeading(v)
		if err != nil {
			return nil, err
		}
		headings = append(headings, h)
	}
	return headings, nil
}

// RenderConfig holds the changelog rendering settings for one run.
// Build it with NewRenderConfig so the heading table is validated.
type RenderConfig struct {
	// Headings lists the labelled types in output order.
	// A type without a heading is left out of the changelog.
	Headings []Heading

	// CommitURLTemplate is an optional URL containing CommitURLPlaceholder.
	CommitURLTemplate string

	// Title is an optional line rendered above the sections.
	Title string
}

// NewRenderConfig validates headings and the URL template.
// Every type may appear once and no two types may share a label.
func NewRenderConfig(headings []Heading, commitURLTemplate string) (RenderConfig, error) {
	seenTypes := make(map[CommitType]struct{}, len(headings))
	seenLabels := make(map[string]CommitType, len(headings))

	for _, h := range headings {
		if !h.Type.IsKnown() {
			return RenderConfig{}, fmt.Errorf("%w: %q", ErrUnknownHeadingType, h.Type)
		}
		if _, dup := seenTypes[h.Type]; dup {
			return RenderConfig{}, fmt.Errorf("%w: %q", ErrDuplicateHeading, h.Type)
		}
		if other, dup := seenLabels[h.Label]; dup {
			return RenderConfig{}, fmt.Errorf("%w: %q is used by both %q and %q",
				ErrHeadingNotInjective, h.Label, other, h.Type)
		}
		seenTypes[h.Type] = struct{}{}
		seenLabels[h.Label] = h.Type
	}

	if commitURLTemplate != "" && !strings.Contains(commitURLTemplate, CommitURLPlaceholder) {
		return RenderConfig{}, fmt.Errorf("%w: %q", ErrInvalidCommitURLTemplate, commitURLTemplate)
	}

	return RenderConfig{
		Headings:          append([]Heading(nil), headings...),
		CommitURLTemplate: commitURLTemplate,
	}, nil
}

// Label returns the heading label configured for t.
func (c RenderConfig) Label(t CommitType) (string, bool) {
	for _, h := range c.Headings {
		if h.Type == t {
			return h.Label, true
		}
	}
	return "", false
}

// Unlabeled returns the populated types in grouped that have no heading.
func (c RenderConfig) Unlabeled(grouped GroupedCommits) []CommitType {
	var out []CommitType
	for _, t := range grouped.Types() {
		if _, ok := c.Label(t); !ok {
			out = append(out, t)
		}
	}
	return out
}

// CommitURL builds the link for id, or "" when no template is configured.
func (c RenderConfig) CommitURL(id string) string {
	if c.CommitURLTemplate == "" {
		return ""
	}
	return strings.ReplaceAll(c.CommitURLTemplate, CommitURLPlaceholder, id)
}
