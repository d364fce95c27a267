package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

// markup holds the glyphs of one changelog style.
// Grouping and ordering are shared; only these decorations differ.
type markup struct {
	title   func(title string) string
	heading func(label string) string
	bullet  string
	scope   func(scope string) string
	link    func(label, url string) string
}

var markups = map[domain.OutputStyle]markup{
	domain.StyleMarkdown: {
		title:   func(s string) string { return "# " + s + "\n" },
		heading: func(s string) string { return "\n## " + s + "\n\n" },
		bullet:  "* ",
		scope:   func(s string) string { return "**" + s + "**: " },
		link:    func(label, url string) string { return "[" + label + "](" + url + ")" },
	},
	domain.StyleMrkdwn: {
		title:   func(s string) string { return "*" + s + "*\n" },
		heading: func(s string) string { return s + "\n" },
		bullet:  "• ",
		scope:   func(s string) string { return "*" + s + "*: " },
		link:    func(label, url string) string { return "<" + url + "|" + label + ">" },
	},
}

// Renderer implements domain.ChangelogRenderer.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render builds the changelog as a string.
func (r *Renderer) Render(grouped domain.GroupedCommits, cfg domain.RenderConfig, style domain.OutputStyle) (string, error) {
	var b strings.Builder
	if err := RenderChangelog(&b, grouped, cfg, style); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderChangelog writes one section per heading in cfg, in heading order.
// Headings whose group is empty produce nothing, and groups without a
// heading are skipped entirely.
func RenderChangelog(w io.Writer, grouped domain.GroupedCommits, cfg domain.RenderConfig, style domain.OutputStyle) error {
	m, ok := markups[style]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownOutputStyle, style)
	}

	if cfg.Title != "" {
		if _, err := io.WriteString(w, m.title(cfg.Title)); err != nil {
			return err
		}
	}

	for _, h := range cfg.Headings {
		commits := grouped[h.Type]
		if len(commits) == 0 {
			continue
		}
		if err := renderSection(w, m, h.Label, commits, cfg); err != nil {
			return fmt.Errorf("rendering section %s: %w", h.Label, err)
		}
	}

	return nil
}

// renderSection writes a heading followed by one bullet per commit.
func renderSection(w io.Writer, m markup, label string, commits []domain.ClassifiedCommit, cfg domain.RenderConfig) error {
	if _, err := io.WriteString(w, m.heading(label)); err != nil {
		return err
	}
	for _, c := range commits {
		if _, err := io.WriteString(w, formatEntry(m, c, cfg)); err != nil {
			return err
		}
	}
	return nil
}

// formatEntry builds "<bullet>[scope: ]description (reference)\n".
func formatEntry(m markup, c domain.ClassifiedCommit, cfg domain.RenderConfig) string {
	var b strings.Builder
	b.WriteString(m.bullet)
	if c.Scope != "" {
		b.WriteString(m.scope(c.Scope))
	}
	b.WriteString(c.Description)
	b.WriteString(" (")
	b.WriteString(formatReference(m, c, cfg))
	b.WriteString(")\n")
	return b.String()
}

// formatReference returns the short id, linked when a URL template is configured.
func formatReference(m markup, c domain.ClassifiedCommit, cfg domain.RenderConfig) string {
	url := cfg.CommitURL(c.ID)
	if url == "" {
		return c.ShortID()
	}
	return m.link(c.ShortID(), url)
}
