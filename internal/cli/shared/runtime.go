package shared

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/assist"
	"github.com/ruleforge/ruleforge/internal/config"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
	"github.com/ruleforge/ruleforge/internal/logging"
	"github.com/ruleforge/ruleforge/internal/progress"
)

// DefaultLocalConfig is the project-level config file read from the working directory.
const DefaultLocalConfig = ".ruleforge.json"

// Runtime is the per-invocation state every command starts from.
type Runtime struct {
	Config     *config.Configuration
	ConfigPath string
	Progress   *progress.Display
	Plain      bool
}

// Setup reads the persistent flags, loads configuration and initializes logging
// and progress output.
func Setup(cmd *cobra.Command) (*Runtime, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	debug, _ := flags.GetBool("debug")
	plain, _ := flags.GetBool("plain")

	if flags.Changed("config") {
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ConfigFileNotFound(configPath)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, apperrors.ConfigParseError(configPath, err)
	}

	logging.Init(logging.Config{Debug: debug, File: cfg.LogFile, Writer: cmd.ErrOrStderr()})
	logging.Debug("configuration loaded", "path", configPath, "timeout", cfg.Timeout)

	if plain && !color.NoColor {
		color.NoColor = true
	}

	var out io.Writer = cmd.ErrOrStderr()
	caps := progress.DetectTerminalCapabilities(out)
	switch {
	case !cfg.ShowProgress:
		caps, out = progress.Plain(), io.Discard
	case plain:
		caps = progress.Plain()
	}

	return &Runtime{
		Config:     cfg,
		ConfigPath: configPath,
		Progress:   progress.NewDisplay(caps, out),
		Plain:      plain,
	}, nil
}

// MappingClient builds a header-mapping client from the configuration.
func (r *Runtime) MappingClient() *assist.MappingClient {
	return assist.NewMappingClient(r.Config.MappingURL, r.Config.TimeoutDuration(), r.Config.SampleRows)
}

// RuleClient builds a rule generation and suggestion client from the configuration.
func (r *Runtime) RuleClient() *assist.RuleClient {
	return assist.NewRuleClient(r.Config.RuleGenURL, r.Config.SuggestURL, r.Config.TimeoutDuration())
}

// ServiceError converts a collaborator failure into a CLI error. An unset URL is a
// missing dependency, a timeout keeps its cause so ExitCode reports it.
func (r *Runtime) ServiceError(service, key string, err error) error {
	switch {
	case errors.Is(err, assist.ErrNotConfigured):
		return apperrors.ServiceNotConfigured(service, key)
	case IsTimeout(err):
		return fmt.Errorf("%w: %w", apperrors.TimeoutError(r.Config.TimeoutDuration().String(), service), err)
	default:
		return apperrors.ServiceError(service, err)
	}
}

// ExactArgs is cobra.ExactArgs reporting an Argument error with the command usage.
func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return apperrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(), "Run '"+cmd.CommandPath()+" --help' for details")
		}
		return nil
	}
}

// RequireFlags reports the first of names that was not set as an Argument error.
func RequireFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if !cmd.Flags().Changed(name) {
			return apperrors.NewArgumentErrorWithUsage(fmt.Sprintf("required flag --%s not set", name), cmd.UseLine())
		}
	}
	return nil
}
