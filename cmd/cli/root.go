package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theblitlabs/thz-setup/internal/console"
	"github.com/theblitlabs/thz-setup/internal/utils/cliutil"
	"github.com/theblitlabs/thz-setup/pkg/logger"
)

// Streams are the process streams the commands talk to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// NewRootCommand builds the thz-setup command tree.
func NewRootCommand(streams Streams) *cobra.Command {
	log := logger.WithComponent("cli")

	root := cliutil.CreateCommand(cliutil.CommandConfig{
		Use:   "thz-setup",
		Short: "Set up the conda environment for the THz application",
		Long: `Checks that conda is installed, (re)creates the application environment,
installs the required packages and verifies the NI-VISA driver is visible.`,
		PreRunFunc: func(cmd *cobra.Command, args []string) {
			mode, _ := cmd.Flags().GetString("log")
			color, _ := cmd.Flags().GetString("color")
			logger.Init(logger.ParseMode(mode))
			logger.SetNoColor(console.ColorMode(color) == console.ColorNever)
		},
		RunFunc: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return RunSetup(cmd.Context(), opts, streams)
		},
		Flags: map[string]cliutil.Flag{
			"config": {
				Type:        cliutil.FlagTypeString,
				Shorthand:   "c",
				Description: "Path to a config file (defaults to $THZ_SETUP_CONFIG_PATH)",
				Persistent:  true,
			},
			"log": {
				Type:          cliutil.FlagTypeString,
				Description:   "Log mode: debug, pretty, info, prod, test",
				DefaultString: "pretty",
				Persistent:    true,
			},
			"color": {
				Type:        cliutil.FlagTypeString,
				Description: "Color output: auto, always, never (overrides console.color)",
				Persistent:  true,
			},
			"no-pause": {
				Type:        cliutil.FlagTypeBool,
				Description: "Do not wait for a keypress before exiting",
				Persistent:  true,
			},
		},
	}, log)

	status := cliutil.CreateCommand(cliutil.CommandConfig{
		Use:   "status",
		Short: "Report conda, environment and driver status without changing anything",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return RunStatus(cmd.Context(), opts, streams)
		},
	}, log)

	root.AddCommand(status)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)
	return root
}

// Execute runs the command tree against the process streams and returns the
// process exit code.
func Execute() int {
	return ExecuteArgs(context.Background(), os.Args[1:], Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
}

// ExecuteArgs runs the command tree with explicit arguments and streams.
func ExecuteArgs(ctx context.Context, args []string, streams Streams) int {
	root := NewRootCommand(streams)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if !isReported(err) {
			fmt.Fprintln(streams.Err, err)
		}
		return 1
	}
	return 0
}
