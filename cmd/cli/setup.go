package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theblitlabs/thz-setup/internal/conda"
	"github.com/theblitlabs/thz-setup/internal/config"
	"github.com/theblitlabs/thz-setup/internal/console"
	"github.com/theblitlabs/thz-setup/internal/execution/executils"
	"github.com/theblitlabs/thz-setup/internal/prompt"
	"github.com/theblitlabs/thz-setup/internal/setup"
	"github.com/theblitlabs/thz-setup/internal/utils/configutil"
	"github.com/theblitlabs/thz-setup/internal/utils/errorutil"
	"github.com/theblitlabs/thz-setup/pkg/logger"
)

// Options are the command-line overrides applied on top of the config file.
type Options struct {
	ConfigPath string
	Color      string
	NoPause    bool
}

// reportedError marks a failure that has already been shown to the operator.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func isReported(err error) bool {
	var reported *reportedError
	return errors.As(err, &reported)
}

func optionsFromFlags(cmd *cobra.Command) (Options, error) {
	var opts Options
	var err error

	if opts.ConfigPath, err = cmd.Flags().GetString("config"); err != nil {
		return opts, fmt.Errorf("failed to get config flag: %w", err)
	}
	if opts.Color, err = cmd.Flags().GetString("color"); err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	if opts.NoPause, err = cmd.Flags().GetBool("no-pause"); err != nil {
		return opts, fmt.Errorf("failed to get no-pause flag: %w", err)
	}
	return opts, nil
}

func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := configutil.GetConfigWithPath(configutil.ResolvePath(opts.ConfigPath))
	if err != nil {
		return nil, err
	}

	// copy so flag overrides never leak into the cached config
	merged := *cfg
	if opts.Color != "" {
		merged.Console.Color = opts.Color
	}
	if opts.NoPause {
		merged.Console.PauseOnExit = false
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func buildSetup(cfg *config.Config, streams Streams) (*setup.Setup, *console.Printer, error) {
	log := logger.WithComponent("cli")
	mode := console.ColorMode(cfg.Console.Color)
	logger.SetNoColor(mode == console.ColorNever)
	if _, err := console.InitTerminal(mode); err != nil {
		log.Warn().Err(err).Msg("Failed to enable terminal colors")
	}

	printer := console.NewPrinter(streams.Out, mode)
	confirmer := prompt.NewConfirmer(streams.In, streams.Out, printer.Bad)
	runner := executils.NewCommandRunner(streams.Out, streams.Err)
	client := conda.NewClient(cfg.Conda.Binary, runner)

	s, err := setup.New(cfg, client, confirmer, printer)
	return s, printer, err
}

// RunSetup runs the interactive setup pipeline.
func RunSetup(ctx context.Context, opts Options, streams Streams) error {
	log := logger.WithComponent("cli")

	cfg, err := loadConfig(opts)
	if err != nil {
		errorutil.HandleError(log, err, "Failed to load config")
		return err
	}

	s, _, err := buildSetup(cfg, streams)
	if err != nil {
		errorutil.HandleError(log, err, "Failed to initialise setup")
		return err
	}

	pipeline := setup.NewPipeline(s, cfg.Console.PauseOnExit)
	state, err := pipeline.Run(ctx)
	log.Debug().Str("run_id", pipeline.RunID()).Str("state", string(state)).Msg("Pipeline finished")
	if err != nil {
		return &reportedError{err: err}
	}
	return nil
}

// RunStatus prints a read-only report of the installation.
func RunStatus(ctx context.Context, opts Options, streams Streams) error {
	log := logger.WithComponent("cli")

	cfg, err := loadConfig(opts)
	if err != nil {
		errorutil.HandleError(log, err, "Failed to load config")
		return err
	}

	s, printer, err := buildSetup(cfg, streams)
	if err != nil {
		errorutil.HandleError(log, err, "Failed to initialise setup")
		return err
	}

	if err := s.Report(ctx); err != nil {
		log.Debug().Err(err).Str("kind", string(setup.KindOf(err))).Msg("Status check failed")
		printer.Println(errorutil.Headline(err))
		return &reportedError{err: err}
	}
	return nil
}
