package usecases

import (
	"context"
	"fmt"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

// mockLogger implements the Logger interface for testing.
type mockLogger struct {
	warnings    []string
	debugFields []map[string]interface{}
}

func (m *mockLogger) Info(_ context.Context, _ string, _ map[string]interface{}) {}
func (m *mockLogger) Debug(_ context.Context, _ string, fields map[string]interface{}) {
	m.debugFields = append(m.debugFields, fields)
}
func (m *mockLogger) Warn(_ context.Context, msg string, _ map[string]interface{}) {
	m.warnings = append(m.warnings, msg)
}
func (m *mockLogger) Error(_ context.Context, _ string, _ error, _ map[string]interface{}) {}

// mockClassifier implements domain.Classifier from a fixed table keyed by message.
// Messages missing from the table are unparseable.
type mockClassifier struct {
	table map[string]domain.ClassifiedCommit
	calls []string
}

func (m *mockClassifier) Classify(raw domain.RawCommit) (domain.ClassifiedCommit, error) {
	m.calls = append(m.calls, raw.ID)
	c, ok := m.table[raw.Message]
	if !ok {
		return domain.ClassifiedCommit{}, fmt.Errorf("%w: %q", domain.ErrUnparseable, raw.Message)
	}
	c.ID = raw.ID
	return c, nil
}

// mockLocalGitRepository implements domain.LocalGitRepository for testing.
type mockLocalGitRepository struct {
	latest       *domain.VersionTag
	latestErr    error
	commits      []domain.RawCommit
	commitsErr   error
	requestedTag *domain.VersionTag
	closeCalled  bool
}

func (m *mockLocalGitRepository) LatestVersion(_ context.Context) (*domain.VersionTag, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	return m.latest, nil
}

func (m *mockLocalGitRepository) CommitsSince(_ context.Context, tag domain.VersionTag) ([]domain.RawCommit, error) {
	m.requestedTag = &tag
	if m.commitsErr != nil {
		return nil, m.commitsErr
	}
	return m.commits, nil
}

func (m *mockLocalGitRepository) Close() error {
	m.closeCalled = true
	return nil
}

// mockRenderer implements domain.ChangelogRenderer and records its inputs.
type mockRenderer struct {
	text      string
	err       error
	called    bool
	gotConfig domain.RenderConfig
	gotStyle  domain.OutputStyle
}

func (m *mockRenderer) Render(_ domain.GroupedCommits, cfg domain.RenderConfig, style domain.OutputStyle) (string, error) {
	m.called = true
	m.gotConfig = cfg
	m.gotStyle = style
	return m.text, m.err
}

// conventionalTable covers the messages used across the usecases tests.
func conventionalTable() map[string]domain.ClassifiedCommit {
	return map[string]domain.ClassifiedCommit{
		"feat: a":       {Type: domain.TypeFeat, RawType: "feat", Description: "a"},
		"feat: b":       {Type: domain.TypeFeat, RawType: "feat", Description: "b"},
		"fix: c":        {Type: domain.TypeFix, RawType: "fix", Description: "c"},
		"chore: d":      {Type: domain.TypeChore, RawType: "chore", Description: "d"},
		"fix!: e":       {Type: domain.TypeFix, RawType: "fix", Description: "e", IsBreaking: true},
		"docs(x): f":    {Type: domain.TypeDocs, RawType: "docs", Scope: "x", Description: "f"},
		"wip: g":        {Type: domain.TypeOther, RawType: "wip", Description: "g"},
		"feat(api)!: h": {Type: domain.TypeFeat, RawType: "feat", Scope: "api", Description: "h", IsBreaking: true},
	}
}
