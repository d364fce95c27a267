// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"context"
	"fmt"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

// Logger defines the logging interface required by the planner.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// ReleasePlanner computes the next release from local repository history.
// It finds the latest version tag, classifies the commits made since, resolves
// the bump and optionally renders the changelog.
type ReleasePlanner struct {
	gitRepo    domain.LocalGitRepository
	classifier domain.Classifier
	renderer   domain.ChangelogRenderer
	logger     Logger
}

// NewReleasePlanner creates a new ReleasePlanner with the given dependencies.
func NewReleasePlanner(
	gitRepo domain.LocalGitRepository,
	classifier domain.Classifier,
	renderer domain.ChangelogRenderer,
	log Logger,
) *ReleasePlanner {
	return &ReleasePlanner{
		gitRepo:    gitRepo,
		classifier: classifier,
		renderer:   renderer,
		logger:     log,
	}
}

// Plan runs the pipeline: latest tag, commits since, aggregate, bump, next version, render.
// Nothing is returned on failure, so callers never print a partial result.
func (p *ReleasePlanner) Plan(ctx context.Context, input domain.PlanInput) (*domain.PlanOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	latest, err := p.gitRepo.LatestVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine latest version: %w", err)
	}

	p.logger.Info(ctx, "found latest version tag", map[string]interface{}{
		"tag":     latest.Name,
		"version": latest.Version.String(),
	})

	commits, err := p.gitRepo.CommitsSince(ctx, *latest)
	if err != nil {
		return nil, fmt.Errorf("failed to read commits since %s: %w", latest.Name, err)
	}

	grouped := Aggregate(ctx, commits, p.classifier, p.logger)
	bump := ResolveBump(grouped)
	next := NextVersion(latest.Version, bump)

	p.logger.Info(ctx, "resolved version bump", map[string]interface{}{
		"commits":      len(commits),
		"conventional": grouped.Len(),
		"bump":         bump.String(),
		"next_version": next.String(),
	})

	if grouped.Len() == 0 {
		p.logger.Warn(ctx, "no conventional commits since last release", map[string]interface{}{
			"tag":     latest.Name,
			"commits": len(commits),
		})
	}

	out := &domain.PlanOutput{
		PriorTag:    *latest,
		Next:        next,
		Bump:        bump,
		CommitCount: len(commits),
		Classified:  grouped.Len(),
		Grouped:     grouped,
	}

	if input.Style == "" {
		return out, nil
	}

	cfg := input.Render
	if input.VersionHeading {
		cfg.Title = next.String()
	}

	if unlabeled := cfg.Unlabeled(grouped); len(unlabeled) > 0 {
		p.logger.Debug(ctx, "suppressing commit types without a heading", map[string]interface{}{
			"types": unlabeled,
		})
	}

	text, err := p.renderer.Render(grouped, cfg, input.Style)
	if err != nil {
		return nil, fmt.Errorf("failed to render changelog: %w", err)
	}
	out.Changelog = text

	p.logger.Debug(ctx, "rendered changelog", map[string]interface{}{
		"style": string(input.Style),
		"bytes": len(text),
	})

	return out, nil
}
