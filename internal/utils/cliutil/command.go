package cliutil

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandConfig holds configuration for a command
type CommandConfig struct {
	Use     string
	Short   string
	Long    string
	Example string

	// Function to run when the command is executed
	RunFunc func(cmd *cobra.Command, args []string) error

	// PreRunFunc runs before RunFunc for this command and its children
	PreRunFunc func(cmd *cobra.Command, args []string)

	Flags map[string]Flag
}

// Flag represents a command line flag
type Flag struct {
	Type        FlagType
	Shorthand   string
	Description string
	Required    bool
	// Persistent flags are inherited by subcommands
	Persistent bool

	DefaultString string
	DefaultBool   bool
}

// FlagType defines the type of flag
type FlagType int

const (
	// FlagTypeString is a string flag
	FlagTypeString FlagType = iota
	// FlagTypeBool is a boolean flag
	FlagTypeBool
)

// CreateCommand creates a new cobra command with the given configuration.
// Failures are reported by the command itself, so cobra's own error and
// usage output is silenced.
func CreateCommand(config CommandConfig, log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           config.Use,
		Short:         config.Short,
		Long:          config.Long,
		Example:       config.Example,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.RunFunc != nil {
				return config.RunFunc(cmd, args)
			}
			return nil
		},
	}
	if config.PreRunFunc != nil {
		cmd.PersistentPreRun = config.PreRunFunc
	}

	for name, flag := range config.Flags {
		flags := cmd.Flags()
		if flag.Persistent {
			flags = cmd.PersistentFlags()
		}
		addFlag(flags, name, flag)

		if flag.Required {
			if err := cmd.MarkFlagRequired(name); err != nil {
				log.Error().Err(err).Str("flag", name).Msg("Failed to mark flag as required")
			}
		}
	}

	return cmd
}

func addFlag(flags *pflag.FlagSet, name string, flag Flag) {
	switch flag.Type {
	case FlagTypeString:
		flags.StringP(name, flag.Shorthand, flag.DefaultString, flag.Description)
	case FlagTypeBool:
		flags.BoolP(name, flag.Shorthand, flag.DefaultBool, flag.Description)
	}
}
