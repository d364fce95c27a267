// Package main is the entry point for the convbump CLI application.
// convbump derives the next semantic version and a changelog from the
// conventional commits made since the latest version tag.
package main

import (
	"io"
	"os"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/logger"

	"github.com/MyCarrier-DevOps/convbump/cmd"
	"github.com/MyCarrier-DevOps/convbump/internal/adapters/conventional"
	"github.com/MyCarrier-DevOps/convbump/internal/adapters/git"
	logadapter "github.com/MyCarrier-DevOps/convbump/internal/adapters/logger"
	"github.com/MyCarrier-DevOps/convbump/internal/adapters/output"
	"github.com/MyCarrier-DevOps/convbump/internal/domain"
	"github.com/MyCarrier-DevOps/convbump/internal/infrastructure/config"
	"github.com/MyCarrier-DevOps/convbump/internal/usecases"
)

// Environment variables read by the shared zap logger.
const (
	envLogLevel   = "LOG_LEVEL"
	envLogAppName = "LOG_APP_NAME"
)

func main() {
	cmd.SetDefaultDependencies(newDependencies(os.Stdout, os.Stderr))
	cmd.Execute()
}

// newDependencies wires up the production dependencies.
func newDependencies(stdout, stderr io.Writer) *cmd.Dependencies {
	return &cmd.Dependencies{
		ConfigLoader: loadConfig,

		LoggerFactory: func(cfg *cmd.AppConfig) cmd.Logger {
			applyLogEnv(cfg)
			zapLog := logger.NewZapLoggerFromConfig()
			return logadapter.NewZapAdapter(zapLog, baseLogFields(cfg))
		},

		GitRepoFactory: func(path string, log cmd.Logger) (domain.LocalGitRepository, error) {
			return git.NewGoGitRepository(path, log)
		},

		PlannerFactory: func(gitRepo domain.LocalGitRepository, log cmd.Logger) domain.Planner {
			return usecases.NewReleasePlanner(
				gitRepo,
				conventional.NewClassifier(),
				output.NewRenderer(),
				log,
			)
		},

		OutputWriterFactory: func(w io.Writer) domain.OutputWriter {
			return output.NewWriterWithOutput(w)
		},

		Stdout: stdout,
		Stderr: stderr,
	}
}

// loadConfig adapts the layered configuration to the command's AppConfig.
func loadConfig(repoPath, configPath string) (*cmd.AppConfig, error) {
	cfg, err := config.Load(config.LoadOptions{
		RepoPath:   repoPath,
		ConfigPath: configPath,
	})
	if err != nil {
		return nil, err
	}
	return &cmd.AppConfig{
		Headings:       cfg.Headings,
		CommitURL:      cfg.CommitURL,
		VersionHeading: cfg.VersionHeading,
		LogLevel:       cfg.LogLevel,
		LogAppName:     cfg.LogAppName,
		Source:         cfg.Source,
	}, nil
}

// applyLogEnv exports the resolved log settings for the zap logger.
// A debug level (set by --verbose) always wins; otherwise an existing LOG_LEVEL is kept.
func applyLogEnv(cfg *cmd.AppConfig) {
	if cfg.LogLevel == "debug" || os.Getenv(envLogLevel) == "" {
		_ = os.Setenv(envLogLevel, cfg.LogLevel)
	}
	if os.Getenv(envLogAppName) == "" {
		_ = os.Setenv(envLogAppName, cfg.LogAppName)
	}
}

// baseLogFields are attached to every log entry.
func baseLogFields(cfg *cmd.AppConfig) map[string]any {
	fields := map[string]any{"repo_path": cfg.RepoPath}
	if cfg.Source != "" {
		fields["config_file"] = cfg.Source
	}
	return fields
}
