package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

func TestReleasePlanner_Plan(t *testing.T) {
	latest := &domain.VersionTag{
		Name:    "v1.4.2",
		Version: domain.Version{Major: 1, Minor: 4, Patch: 2},
	}

	tests := []struct {
		name       string
		input      domain.PlanInput
		mockGit    *mockLocalGitRepository
		renderer   *mockRenderer
		wantNext   string
		wantBump   domain.BumpLevel
		wantCount  int
		wantClass  int
		wantText   string
		wantRender bool
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "feature commits bump minor without rendering",
			mockGit: &mockLocalGitRepository{
				latest: latest,
				commits: []domain.RawCommit{
					{ID: "c1", Message: "fix: c"},
					{ID: "c2", Message: "feat: a"},
					{ID: "c3", Message: "Merge branch 'main'"},
				},
			},
			renderer:  &mockRenderer{},
			wantNext:  "1.5.0",
			wantBump:  domain.BumpMinor,
			wantCount: 3,
			wantClass: 2,
		},
		{
			name:  "breaking commit bumps major and renders",
			input: domain.PlanInput{Style: domain.StyleMarkdown},
			mockGit: &mockLocalGitRepository{
				latest: latest,
				commits: []domain.RawCommit{
					{ID: "c1", Message: "fix!: e"},
				},
			},
			renderer:   &mockRenderer{text: "\n## Fixes\n\n* e (c1)\n"},
			wantNext:   "2.0.0",
			wantBump:   domain.BumpMajor,
			wantCount:  1,
			wantClass:  1,
			wantText:   "\n## Fixes\n\n* e (c1)\n",
			wantRender: true,
		},
		{
			name:  "no commits since tag is a patch",
			input: domain.PlanInput{Style: domain.StyleMrkdwn},
			mockGit: &mockLocalGitRepository{
				latest: latest,
			},
			renderer:   &mockRenderer{},
			wantNext:   "1.4.3",
			wantBump:   domain.BumpPatch,
			wantRender: true,
		},
		{
			name: "no version tag",
			mockGit: &mockLocalGitRepository{
				latestErr: domain.ErrNoVersionTag,
			},
			renderer:   &mockRenderer{},
			wantErr:    domain.ErrNoVersionTag,
			wantErrMsg: "failed to determine latest version",
		},
		{
			name: "history read failure",
			mockGit: &mockLocalGitRepository{
				latest:     latest,
				commitsErr: domain.ErrHistoryRead,
			},
			renderer:   &mockRenderer{},
			wantErr:    domain.ErrHistoryRead,
			wantErrMsg: "failed to read commits since v1.4.2",
		},
		{
			name:  "render failure returns no output",
			input: domain.PlanInput{Style: domain.StyleMarkdown},
			mockGit: &mockLocalGitRepository{
				latest:  latest,
				commits: []domain.RawCommit{{ID: "c1", Message: "feat: a"}},
			},
			renderer:   &mockRenderer{err: domain.ErrUnknownOutputStyle},
			wantErr:    domain.ErrUnknownOutputStyle,
			wantErrMsg: "failed to render changelog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			planner := NewReleasePlanner(
				tt.mockGit,
				&mockClassifier{table: conventionalTable()},
				tt.renderer,
				&mockLogger{},
			)

			// Act
			out, err := planner.Plan(context.Background(), tt.input)

			// Assert
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, out)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, out)
			assert.Equal(t, tt.wantNext, out.Next.String())
			assert.Equal(t, tt.wantBump, out.Bump)
			assert.Equal(t, tt.wantCount, out.CommitCount)
			assert.Equal(t, tt.wantClass, out.Classified)
			assert.Equal(t, tt.wantText, out.Changelog)
			assert.Equal(t, tt.wantRender, tt.renderer.called)
			assert.Equal(t, *latest, out.PriorTag)
			require.NotNil(t, tt.mockGit.requestedTag)
			assert.Equal(t, "v1.4.2", tt.mockGit.requestedTag.Name)
		})
	}
}

func TestReleasePlanner_Plan_VersionHeading(t *testing.T) {
	mockGit := &mockLocalGitRepository{
		latest:  &domain.VersionTag{Name: "0.9.0", Version: domain.Version{Minor: 9}},
		commits: []domain.RawCommit{{ID: "c1", Message: "feat: a"}},
	}
	renderer := &mockRenderer{text: "ok"}
	cfg, err := domain.NewRenderConfig([]domain.Heading{{Type: domain.TypeFeat, Label: "Features"}}, "")
	require.NoError(t, err)

	planner := NewReleasePlanner(mockGit, &mockClassifier{table: conventionalTable()}, renderer, &mockLogger{})
	_, err = planner.Plan(context.Background(), domain.PlanInput{
		Style:          domain.StyleMarkdown,
		Render:         cfg,
		VersionHeading: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "0.10.0", renderer.gotConfig.Title)
	assert.Equal(t, domain.StyleMarkdown, renderer.gotStyle)
	assert.Equal(t, cfg.Headings, renderer.gotConfig.Headings)
}

func TestReleasePlanner_Plan_WarnsWhenNothingClassified(t *testing.T) {
	log := &mockLogger{}
	mockGit := &mockLocalGitRepository{
		latest:  &domain.VersionTag{Name: "1.0.0", Version: domain.Version{Major: 1}},
		commits: []domain.RawCommit{{ID: "c1", Message: "just some text"}},
	}

	planner := NewReleasePlanner(mockGit, &mockClassifier{table: conventionalTable()}, &mockRenderer{}, log)
	out, err := planner.Plan(context.Background(), domain.PlanInput{})

	require.NoError(t, err)
	assert.Equal(t, "1.0.1", out.Next.String())
	assert.Contains(t, log.warnings, "no conventional commits since last release")
}

func TestReleasePlanner_Plan_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	planner := NewReleasePlanner(&mockLocalGitRepository{}, &mockClassifier{}, &mockRenderer{}, &mockLogger{})
	out, err := planner.Plan(ctx, domain.PlanInput{})

	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, context.Canceled))
}
