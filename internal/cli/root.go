// Package cli implements the factorygen command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-factorygen/pkg/config"
	"github.com/goliatone/go-factorygen/pkg/emitter"
)

// app carries the state shared by every subcommand of one root command.
type app struct {
	v        *viper.Viper
	settings config.Settings
	logger   *slog.Logger
}

// NewRootCommand builds a fresh command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "factorygen",
		Short:         "Generate factory_boy model factories",
		Long:          "factorygen reads a model manifest or an OpenAPI document and writes one overwritable base factory and one editable factory per model.",
		Version:       emitter.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default .factorygen.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text or json)")

	root.AddCommand(newGenerateCommand(a), newPlanCommand(a), newKindsCommand(a))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute(ctx context.Context) {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagKeys maps config keys onto the flags that override them.
var flagKeys = map[string]string{
	"log_level":    "log-level",
	"log_format":   "log-format",
	"source":       "source",
	"format":       "format",
	"base_dir":     "base-dir",
	"root_dir":     "root-dir",
	"only_apps":    "only-apps",
	"ignore_apps":  "ignore-apps",
	"default_app":  "default-app",
	"template_dir": "template-dir",
}

// bindFlags binds the flags of the command being executed. Sibling commands
// declare flags of the same name, so binding happens once the command is
// known.
func (a *app) bindFlags(cmd *cobra.Command) error {
	for key, name := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := a.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func (a *app) init(cmd *cobra.Command) error {
	if err := a.bindFlags(cmd); err != nil {
		return err
	}
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		a.v.SetConfigName(".factorygen")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		// It's fine if no config file is found; we use defaults.
		_ = a.v.ReadInConfig()
	}
	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.AutomaticEnv()

	settings, err := config.LoadFrom(a.v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.settings = settings

	logger, err := newLogger(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
