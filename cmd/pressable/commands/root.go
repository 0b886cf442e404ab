package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/agiangrant/pressable"
	"github.com/agiangrant/pressable/retained"
	"github.com/spf13/cobra"
)

// env is what the persistent pre-run loads for every subcommand.
type env struct {
	configPath string
	logLevel   string

	config    pressable.Config
	logger    *slog.Logger
	logCloser io.Closer
}

// NewRootCmd builds the pressable command tree.
func NewRootCmd(version string) *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "pressable",
		Short: "Buttons that activate on click or submit",
		Long: `pressable - retained-mode buttons for the terminal.

Each button fires on a primary-button click or a submit key. A submit also
holds the Pressed look for the configured fade, then settles to whatever
state the button is in when the fade ends.`,
		SilenceUsage:      true,
		PersistentPreRunE: e.load,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if e.logCloser != nil {
				return e.logCloser.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", pressable.DefaultConfigFile, "Config file (.toml, .yaml or .yml)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(e),
		newTeaCmd(e),
		newTraceCmd(e),
		newConfigCmd(e),
		newVersionCmd(version),
	)
	return root
}

func (e *env) load(cmd *cobra.Command, _ []string) error {
	config, err := pressable.LoadConfig(e.configPath)
	if err != nil {
		return err
	}
	if e.logLevel != "" {
		config.Log.Level = e.logLevel
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", e.configPath, err)
	}

	logger, closer, err := pressable.NewLogger(config.Log)
	if err != nil {
		return err
	}
	e.config, e.logger, e.logCloser = config, logger, closer
	retained.SetLogger(logger)
	logger.Debug("config loaded", "path", e.configPath, "buttons", len(config.Buttons), "command", cmd.Name())
	return nil
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No config needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pressable version %s\n", version)
		},
	}
}
