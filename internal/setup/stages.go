package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/theblitlabs/thz-setup/internal/conda"
	"github.com/theblitlabs/thz-setup/internal/config"
	"github.com/theblitlabs/thz-setup/internal/console"
	"github.com/theblitlabs/thz-setup/internal/execution/executils"
	"github.com/theblitlabs/thz-setup/pkg/logger"
)

const (
	msgCondaNotFound   = "conda is not found. Install Anaconda or Miniconda"
	msgCreateFailed    = "Failed to create new environment"
	msgRemoveFailed    = "Failed to delete old environment"
	msgInstallFailed   = "Failed to install required packages"
	msgDriverNotFound  = "NI-VISA is not found"
	msgListFailed      = "Failed to inspect conda environment"
	msgNoAnswer        = "No answer given"
	labelCondaCheck    = "Check conda is installed correctly"
	labelDriverCheck   = "NI-VISA status"
	questionCreate     = "Do you create environment? (y/N):"
	questionRecreate   = "Do you create environment again? (y/N):"
	questionInstallPkg = "Install required packages? (y/N)"
)

// Confirmer asks the operator yes/no questions.
type Confirmer interface {
	Ask(question string) (bool, error)
	Wait()
}

// Setup runs the individual setup stages against one conda installation.
type Setup struct {
	cfg         *config.Config
	conda       *conda.Client
	confirm     Confirmer
	printer     *console.Printer
	driverMatch *regexp.Regexp
}

func New(cfg *config.Config, client *conda.Client, confirm Confirmer, printer *console.Printer) (*Setup, error) {
	pattern, err := regexp.Compile(cfg.Driver.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid driver pattern %q: %w", cfg.Driver.Pattern, err)
	}

	return &Setup{
		cfg:         cfg,
		conda:       client,
		confirm:     confirm,
		printer:     printer,
		driverMatch: pattern,
	}, nil
}

// CheckPrerequisite verifies the conda binary can be launched. Its exit
// status is not part of the check.
func (s *Setup) CheckPrerequisite(ctx context.Context) error {
	log := logger.WithComponent("prerequisite")

	result, err := s.conda.Version(ctx)
	switch {
	case executils.IsLaunchError(err):
		log.Debug().Err(err).Str("binary", s.conda.Binary()).Msg("conda could not be launched")
		s.printer.Check(labelCondaCheck, false)
		return newError(KindToolNotFound, StagePrerequisite, msgCondaNotFound, err)
	case executils.IsExitError(err):
		log.Warn().Err(err).Str("binary", s.conda.Binary()).Msg("conda --version exited with non-zero status")
	case err != nil:
		log.Warn().Err(err).Str("binary", s.conda.Binary()).Msg("conda --version failed")
	default:
		log.Debug().Str("binary", s.conda.Binary()).Str("version", result.Stdout).Msg("Found conda")
	}

	s.printer.Check(labelCondaCheck, true)
	return nil
}

// InspectEnvironment looks for the configured environment in `conda env list`.
func (s *Setup) InspectEnvironment(ctx context.Context) (conda.EnvironmentStatus, error) {
	name := s.cfg.Environment.Name

	status, err := s.conda.Inspect(ctx, name)
	if err != nil {
		return conda.EnvironmentStatus{}, newError(classify(err), StageInspect, msgListFailed, err)
	}

	if status.Exists {
		s.printer.Printf("Environment exist in: %s\n", status.Path)
	} else {
		s.printer.Println("Virtual environment for the application does not exist")
	}
	return status, nil
}

// ProvisionEnvironment asks whether to (re)create the environment and does so
// on confirmation, removing the old one by name first.
func (s *Setup) ProvisionEnvironment(ctx context.Context, status conda.EnvironmentStatus) error {
	log := logger.WithComponent("provisioner")
	name := s.cfg.Environment.Name

	question := questionCreate
	if status.Exists {
		question = questionRecreate
	}

	ok, err := s.confirm.Ask(question)
	if err != nil {
		return newError(KindInputClosed, StageProvision, msgNoAnswer, err)
	}
	if !ok {
		log.Info().Str("env", name).Msg("Skipping environment provisioning")
		return nil
	}

	if status.Exists {
		s.printer.Printf("Deleting old environment...%s\n", status.Path)
		if err := s.conda.Remove(ctx, name); err != nil {
			return newError(classify(err), StageProvision, msgRemoveFailed, err)
		}
		s.printer.Println("Finished")
	}

	s.printer.Println("Creating new environment...")
	if err := s.conda.Create(ctx, name, s.cfg.Environment.PythonVersion); err != nil {
		return newError(classify(err), StageProvision, msgCreateFailed, err)
	}
	s.printer.Println("Finished")
	return nil
}

// InstallDependencies asks whether to run pip against the manifest inside the
// environment and does so on confirmation.
func (s *Setup) InstallDependencies(ctx context.Context) error {
	log := logger.WithComponent("installer")
	manifest := s.cfg.Install.Manifest

	ok, err := s.confirm.Ask(questionInstallPkg)
	if err != nil {
		return newError(KindInputClosed, StageInstall, msgNoAnswer, err)
	}
	if !ok {
		log.Info().Msg("Skipping package installation")
		return nil
	}

	if _, err := os.Stat(manifest); err != nil {
		log.Warn().Err(err).Str("manifest", manifest).Msg("Manifest not readable, running installer anyway")
	}

	_, err = s.conda.StreamIn(ctx, s.cfg.Environment.Name, "pip", "install", "-r", manifest)
	if err != nil {
		return newError(classify(err), StageInstall, msgInstallFailed, err)
	}
	s.printer.Println("Finished")
	return nil
}

// VerifyDriver runs the helper script and requires empty stderr plus a
// driver library name on stdout.
func (s *Setup) VerifyDriver(ctx context.Context) error {
	log := logger.WithComponent("driver")

	result, err := s.conda.RunIn(ctx, s.cfg.Environment.Name, s.cfg.Driver.Python, s.cfg.Driver.HelperScript)
	if err != nil {
		s.printer.Check(labelDriverCheck, false)
		return newError(KindVerificationMismatch, StageVerify, msgDriverNotFound, err)
	}

	if !DriverDetected(s.driverMatch, result.Stdout, result.Stderr) {
		log.Debug().
			Str("stdout", result.Stdout).
			Str("stderr", result.Stderr).
			Msg("Driver helper output did not match")
		s.printer.Check(labelDriverCheck, false)
		return newError(KindVerificationMismatch, StageVerify, msgDriverNotFound, nil)
	}

	s.printer.Check(labelDriverCheck, true)
	return nil
}

// DriverDetected is true iff stderr is empty and stdout matches pattern.
func DriverDetected(pattern *regexp.Regexp, stdout, stderr string) bool {
	return stderr == "" && pattern.MatchString(stdout)
}

func classify(err error) Kind {
	var launchErr *executils.LaunchError
	if errors.As(err, &launchErr) {
		return KindLaunchFailure
	}
	return KindCommandFailed
}
