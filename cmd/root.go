// Package cmd provides the CLI commands for convbump.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

// Logger defines the logging interface used by the command.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Dependencies holds all injectable dependencies for the command.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// ConfigLoader loads application configuration for the given repository
	// directory and optional explicit config file.
	ConfigLoader func(repoPath, configPath string) (*AppConfig, error)

	// LoggerFactory creates a logger once configuration and flags are resolved.
	LoggerFactory func(cfg *AppConfig) Logger

	// GitRepoFactory creates a LocalGitRepository for the given path.
	GitRepoFactory func(path string, log Logger) (domain.LocalGitRepository, error)

	// PlannerFactory creates a Planner reading from the given repository.
	PlannerFactory func(gitRepo domain.LocalGitRepository, log Logger) domain.Planner

	// OutputWriterFactory creates an OutputWriter writing to w.
	OutputWriterFactory func(w io.Writer) domain.OutputWriter

	// Stdout is the writer for standard output (version or changelog).
	Stdout io.Writer

	// Stderr is the writer for standard error (for warnings/errors).
	Stderr io.Writer
}

// AppConfig holds application configuration loaded by ConfigLoader.
// Command-line flags are applied on top of it before use.
type AppConfig struct {
	// Headings is the ordered list of "type=label" changelog headings.
	Headings []string

	// CommitURL is the commit link template containing {id}, or "auto".
	CommitURL string

	// VersionHeading renders the next version as the changelog title.
	VersionHeading bool

	// LogLevel is the log level setting.
	LogLevel string

	// LogAppName is the application name for logging.
	LogAppName string

	// Source is the config file that was loaded, if any.
	Source string

	// RepoPath is the repository path the command runs against.
	RepoPath string
}

// remoteURLResolver is implemented by repositories that can derive a commit
// URL template from their origin remote.
type remoteURLResolver interface {
	RemoteCommitURLTemplate(ctx context.Context) (string, error)
}

// options holds the persistent command-line flags.
type options struct {
	headings       []string
	commitURL      string
	repoPath       string
	configPath     string
	verbose        bool
	versionHeading bool
}

// errSubcommandRequired is returned when convbump is run without a subcommand.
var errSubcommandRequired = errors.New(
	"a subcommand is required: next-version, markdown-changelog or mrkdwn-changelog",
)

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for convbump.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "convbump",
		Short: "Compute the next semantic version and changelog from conventional commits",
		Long: `convbump reads the commits made since the latest semantic version tag,
classifies them as conventional commits and derives the next version and a
changelog from them.

A breaking change bumps the major version, a feature bumps the minor version
and anything else bumps the patch version. Changelog sections are declared with
--heading; commit types without a heading are left out of the changelog but
still count towards the version bump.

Configuration is read from .convbump.yml in the repository (or --config), then
from CONVBUMP_* environment variables. Flags override both.

Examples:
  # Print the next version
  convbump next-version

  # Markdown changelog with linked commits
  convbump markdown -H feat=Features -H fix="Bug Fixes" \
    -U 'https://github.com/acme/app/commit/{id}'

  # Slack changelog, commit links derived from the origin remote
  convbump mrkdwn -H feat=Features -U auto

  # Enable verbose logging
  convbump next-version -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return errSubcommandRequired
		},
	}

	// Define flags
	flags := rootCmd.PersistentFlags()
	flags.StringArrayVarP(&opts.headings, "heading", "H", nil,
		"Changelog heading as type=label (repeatable, sections follow flag order)")
	flags.StringVarP(&opts.commitURL, "commit-url", "U", "",
		"Commit link template containing {id}, or \"auto\" to derive it from the origin remote")
	flags.StringVarP(&opts.repoPath, "repo", "C", ".",
		"Path to the Git repository")
	flags.StringVarP(&opts.configPath, "config", "c", "",
		"Path to a YAML or JSON config file (default: .convbump.yml in the repository)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose/debug logging")
	flags.BoolVar(&opts.versionHeading, "version-heading", false,
		"Render the next version as the changelog title")

	rootCmd.AddCommand(
		newPlanCmd(deps, opts, planCommand{
			use:   "next-version",
			short: "Print the next semantic version",
		}),
		newPlanCmd(deps, opts, planCommand{
			use:     "markdown-changelog",
			aliases: []string{"markdown"},
			short:   "Print the changelog as Markdown",
			style:   domain.StyleMarkdown,
		}),
		newPlanCmd(deps, opts, planCommand{
			use:     "mrkdwn-changelog",
			aliases: []string{"mrkdwn"},
			short:   "Print the changelog as Slack mrkdwn",
			style:   domain.StyleMrkdwn,
		}),
	)

	return rootCmd
}

// planCommand describes one output subcommand. An empty style prints the next version.
type planCommand struct {
	use     string
	aliases []string
	short   string
	style   domain.OutputStyle
}

func newPlanCmd(deps *Dependencies, opts *options, pc planCommand) *cobra.Command {
	return &cobra.Command{
		Use:           pc.use,
		Aliases:       pc.aliases,
		Short:         pc.short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, deps, opts, pc.style)
		},
	}
}

// runPlan executes the release planning logic with injected dependencies.
func runPlan(cmd *cobra.Command, deps *Dependencies, opts *options, style domain.OutputStyle) error {
	if deps == nil {
		return errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	// Load configuration and apply flag overrides
	cfg, err := deps.ConfigLoader(opts.repoPath, opts.configPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	applyFlags(cmd, opts, cfg)

	// Initialize logger
	log := deps.LoggerFactory(cfg)

	log.Info(ctx, "starting convbump", map[string]interface{}{
		"command": cmd.Name(),
		"path":    opts.repoPath,
		"config":  cfg.Source,
		"verbose": opts.verbose,
	})

	// Initialize Git repository adapter
	gitRepo, err := deps.GitRepoFactory(opts.repoPath, log)
	if err != nil {
		log.Error(ctx, "failed to open git repository", err, map[string]interface{}{
			"path": opts.repoPath,
		})
		if errors.Is(err, domain.ErrRepositoryNotFound) {
			return fmt.Errorf("not a git repository: %s", opts.repoPath)
		}
		return err
	}
	defer func() {
		if closeErr := gitRepo.Close(); closeErr != nil {
			log.Warn(ctx, "failed to close git repository", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	input := domain.PlanInput{Style: style}
	if style != "" {
		render, err := buildRenderConfig(ctx, cfg, gitRepo)
		if err != nil {
			log.Error(ctx, "invalid changelog configuration", err, nil)
			return err
		}
		input.Render = render
		input.VersionHeading = cfg.VersionHeading
	}

	// Create planner and compute the release
	planner := deps.PlannerFactory(gitRepo, log)
	result, err := planner.Plan(ctx, input)
	if err != nil {
		log.Error(ctx, "failed to plan release", err, nil)
		if errors.Is(err, domain.ErrNoVersionTag) {
			return fmt.Errorf("no semver tags detected in %s; tag a release (e.g. v0.1.0) first", opts.repoPath)
		}
		return err
	}

	// Write the result to stdout
	writer := deps.OutputWriterFactory(stdout)
	if style == "" {
		err = writer.WriteVersion(result.Next.String())
	} else {
		err = writer.WriteChangelog(result.Changelog)
	}
	if err != nil {
		log.Error(ctx, "failed to write output", err, nil)
		return fmt.Errorf("output error: %w", err)
	}

	log.Info(ctx, "release planning complete", map[string]interface{}{
		"prior_tag":    result.PriorTag.Name,
		"next_version": result.Next.String(),
		"bump":         result.Bump.String(),
		"commits":      result.CommitCount,
		"conventional": result.Classified,
	})

	return nil
}

// applyFlags overrides configuration values with the flags set on the command line.
func applyFlags(cmd *cobra.Command, opts *options, cfg *AppConfig) {
	flags := cmd.Flags()
	if flags.Changed("heading") {
		cfg.Headings = opts.headings
	}
	if flags.Changed("commit-url") {
		cfg.CommitURL = opts.commitURL
	}
	if flags.Changed("version-heading") {
		cfg.VersionHeading = opts.versionHeading
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	cfg.RepoPath = opts.repoPath
}

// buildRenderConfig validates the headings and resolves the commit URL template.
func buildRenderConfig(
	ctx context.Context,
	cfg *AppConfig,
	gitRepo domain.LocalGitRepository,
) (domain.RenderConfig, error) {
	headings, err := domain.ParseHeadings(cfg.Headings)
	if err != nil {
		return domain.RenderConfig{}, err
	}

	url := cfg.CommitURL
	if url == domain.CommitURLAuto {
		resolver, ok := gitRepo.(remoteURLResolver)
		if !ok {
			return domain.RenderConfig{}, errors.New("commit URL cannot be derived from this repository")
		}
		url, err = resolver.RemoteCommitURLTemplate(ctx)
		if err != nil {
			return domain.RenderConfig{}, err
		}
	}

	return domain.NewRenderConfig(headings, url)
}

// Execute runs the root command.
// Errors are printed to stderr and the process exits with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stderr := io.Writer(os.Stderr)
	if defaultDeps != nil && defaultDeps.Stderr != nil {
		stderr = defaultDeps.Stderr
	}

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(stderr, err)
		stop()
		os.Exit(1)
	}
}
