// Package conventional provides the commit classifier.
// It implements domain.Classifier using the go-conventionalcommits parsing machine.
package conventional

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	cc "github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

// Classifier parses commit messages of the form `type[(scope)][!]: description`
// followed by an optional body and footers.
// Any type token is accepted by the grammar; unknown tokens become domain.TypeOther.
type Classifier struct {
	machine cc.Machine
}

// NewClassifier creates a Classifier.
// The machine runs in best-effort mode so a valid header with a malformed body
// is still classified.
func NewClassifier() *Classifier {
	return &Classifier{
		machine: parser.NewMachine(
			parser.WithTypes(cc.TypesFreeForm),
			parser.WithBestEffort(),
		),
	}
}

// Classify parses one commit.
// Returns an error wrapping domain.ErrUnparseable when the header does not match the grammar.
func (c *Classifier) Classify(commit domain.RawCommit) (domain.ClassifiedCommit, error) {
	message := strings.TrimSpace(commit.Message)
	if message == "" {
		return domain.ClassifiedCommit{}, fmt.Errorf("%w: empty message", domain.ErrUnparseable)
	}

	res, err := c.machine.Parse([]byte(message))
	conv, ok := res.(*cc.ConventionalCommit)
	if !ok || conv == nil || conv.Type == "" || strings.TrimSpace(conv.Description) == "" {
		if err == nil {
			err = errors.New("missing type or description")
		}
		return domain.ClassifiedCommit{}, fmt.Errorf("%w: %w", domain.ErrUnparseable, err)
	}

	if conv.Scope != nil && strings.TrimSpace(*conv.Scope) == "" {
		return domain.ClassifiedCommit{}, fmt.Errorf("%w: empty scope", domain.ErrUnparseable)
	}

	rawType := strings.ToLower(strings.TrimSuffix(conv.Type, "!"))

	classified := domain.ClassifiedCommit{
		ID:          commit.ID,
		Type:        domain.CommitTypeFor(rawType),
		RawType:     rawType,
		Description: strings.TrimSpace(conv.Description),
		IsBreaking:  conv.Exclamation || hasBreakingFooter(conv.Footers) || hasBreakingLine(message),
	}
	if conv.Scope != nil {
		classified.Scope = strings.TrimSpace(*conv.Scope)
	}

	return classified, nil
}

// hasBreakingFooter reports whether any footer is "BREAKING CHANGE" or "BREAKING-CHANGE".
func hasBreakingFooter(footers map[string][]string) bool {
	for key := range footers {
		normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "-")
		if normalized == "breaking-change" {
			return true
		}
	}
	return false
}

// breakingLinePattern matches a breaking-change footer line in any letter case.
var breakingLinePattern = regexp.MustCompile(`(?i)^BREAKING[ -]CHANGE:`)

// hasBreakingLine reports whether a line after the header starts with a breaking-change marker.
// Best-effort parsing drops footers that are not separated from the header or body by a blank
// line, so the raw message is checked as well.
func hasBreakingLine(message string) bool {
	lines := strings.Split(message, "\n")
	for _, line := range lines[1:] {
		if breakingLinePattern.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}
