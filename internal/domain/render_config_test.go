package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeading(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Heading
		wantErr error
	}{
		{
			name:  "simple",
			input: "feat=Features",
			want:  Heading{Type: TypeFeat, Label: "Features"},
		},
		{
			name:  "label with spaces and equals",
			input: "fix=Bug Fixes = patches",
			want:  Heading{Type: TypeFix, Label: "Bug Fixes = patches"},
		},
		{
			name:  "type is case-insensitive and trimmed",
			input: " PERF = Performance ",
			want:  Heading{Type: TypePerf, Label: "Performance"},
		},
		{
			name:  "other bucket can be labelled",
			input: "other=Miscellaneous",
			want:  Heading{Type: TypeOther, Label: "Miscellaneous"},
		},
		{
			name:    "missing equals",
			input:   "Features",
			wantErr: ErrInvalidHeading,
		},
		{
			name:    "empty label",
			input:   "feat=",
			wantErr: ErrInvalidHeading,
		},
		{
			name:    "empty type",
			input:   "=Features",
			wantErr: ErrInvalidHeading,
		},
		{
			name:    "unknown type",
			input:   "feature=Features",
			wantErr: ErrUnknownHeadingType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHeading(tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHeadings(t *testing.T) {
	got, err := ParseHeadings([]string{"fix=Fixes", "feat=Features"})

	require.NoError(t, err)
	assert.Equal(t, []Heading{
		{Type: TypeFix, Label: "Fixes"},
		{Type: TypeFeat, Label: "Features"},
	}, got)

	_, err = ParseHeadings([]string{"fix=Fixes", "bogus"})
	assert.ErrorIs(t, err, ErrInvalidHeading)

	got, err = ParseHeadings(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewRenderConfig(t *testing.T) {
	tests := []struct {
		name     string
		headings []Heading
		url      string
		wantErr  error
	}{
		{
			name:     "valid with url",
			headings: []Heading{{Type: TypeFeat, Label: "Features"}, {Type: TypeFix, Label: "Fixes"}},
			url:      "https://example.com/commit/{id}",
		},
		{
			name: "empty table is valid",
		},
		{
			name:     "duplicate type",
			headings: []Heading{{Type: TypeFeat, Label: "Features"}, {Type: TypeFeat, Label: "New"}},
			wantErr:  ErrDuplicateHeading,
		},
		{
			name:     "label shared by two types",
			headings: []Heading{{Type: TypeFeat, Label: "Changes"}, {Type: TypeFix, Label: "Changes"}},
			wantErr:  ErrHeadingNotInjective,
		},
		{
			name:     "type outside the enumeration",
			headings: []Heading{{Type: CommitType("wip"), Label: "WIP"}},
			wantErr:  ErrUnknownHeadingType,
		},
		{
			name:    "url without placeholder",
			url:     "https://example.com/commit/",
			wantErr: ErrInvalidCommitURLTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewRenderConfig(tt.headings, tt.url)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.url, cfg.CommitURLTemplate)
			assert.Len(t, cfg.Headings, len(tt.headings))
			assert.Empty(t, cfg.Title)
		})
	}
}

func TestNewRenderConfig_CopiesHeadings(t *testing.T) {
	headings := []Heading{{Type: TypeFeat, Label: "Features"}}

	cfg, err := NewRenderConfig(headings, "")
	require.NoError(t, err)

	headings[0].Label = "Changed"
	assert.Equal(t, "Features", cfg.Headings[0].Label)
}

func TestRenderConfig_Label(t *testing.T) {
	cfg, err := NewRenderConfig([]Heading{{Type: TypeFeat, Label: "Features"}}, "")
	require.NoError(t, err)

	label, ok := cfg.Label(TypeFeat)
	assert.True(t, ok)
	assert.Equal(t, "Features", label)

	_, ok = cfg.Label(TypeChore)
	assert.False(t, ok)
}

func TestRenderConfig_Unlabeled(t *testing.T) {
	cfg, err := NewRenderConfig([]Heading{{Type: TypeFeat, Label: "Features"}}, "")
	require.NoError(t, err)

	grouped := GroupedCommits{
		TypeFeat:  {{ID: "c1"}},
		TypeTest:  {{ID: "c2"}},
		TypeChore: {{ID: "c3"}},
	}

	assert.Equal(t, []CommitType{TypeChore, TypeTest}, cfg.Unlabeled(grouped))
	assert.Empty(t, cfg.Unlabeled(GroupedCommits{TypeFeat: {{ID: "c1"}}}))
}

func TestRenderConfig_CommitURL(t *testing.T) {
	id := "0123456789abcdef0123456789abcdef01234567"

	assert.Empty(t, RenderConfig{}.CommitURL(id))
	assert.Equal(t,
		"https://example.com/commit/"+id,
		RenderConfig{CommitURLTemplate: "https://example.com/commit/{id}"}.CommitURL(id),
	)
	assert.Equal(t,
		"https://x/"+id+"?ref="+id,
		RenderConfig{CommitURLTemplate: "https://x/{id}?ref={id}"}.CommitURL(id),
	)
}
