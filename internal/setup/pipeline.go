package setup

import (
	"context"

	"github.com/google/uuid"

	"github.com/theblitlabs/thz-setup/internal/console"
	"github.com/theblitlabs/thz-setup/internal/utils/errorutil"
	"github.com/theblitlabs/thz-setup/pkg/logger"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StagePrerequisite Stage = "prerequisite"
	StageInspect      Stage = "inspect"
	StageProvision    Stage = "provision"
	StageInstall      Stage = "install"
	StageVerify       Stage = "verify"
)

// State is where the pipeline stopped.
type State string

const (
	StateStart          State = "start"
	StatePrereqOK       State = "prereq_ok"
	StateEnvInspected   State = "env_inspected"
	StateEnvProvisioned State = "env_provisioned"
	StateDepsInstalled  State = "deps_installed"
	StateDriverVerified State = "driver_verified"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

const StartMessage = "Start setup process. Need Internet access."

// Pipeline runs the stages in order and stops at the first failure.
type Pipeline struct {
	setup   *Setup
	printer *console.Printer
	confirm Confirmer
	pause   bool
	runID   string
}

// NewPipeline builds a pipeline. When pause is set the operator is asked to
// press enter before Run returns, on success and on failure.
func NewPipeline(s *Setup, pause bool) *Pipeline {
	return &Pipeline{
		setup:   s,
		printer: s.printer,
		confirm: s.confirm,
		pause:   pause,
		runID:   uuid.NewString(),
	}
}

func (p *Pipeline) RunID() string {
	return p.runID
}

// Run executes every stage. The returned State is StateDone on success and
// StateFailed otherwise; the error carries the failing stage.
func (p *Pipeline) Run(ctx context.Context) (State, error) {
	log := logger.WithComponent("pipeline").With().Str("run_id", p.runID).Logger()

	if p.pause {
		defer p.confirm.Wait()
	}

	p.printer.Println(StartMessage)
	log.Info().Str("env", p.setup.cfg.Environment.Name).Msg("Starting setup")

	state, err := p.advance(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("kind", string(KindOf(err))).
			Str("reached", string(state)).
			Msg("Setup failed")
		p.printer.Failure(errorutil.Headline(err))
		return StateFailed, err
	}

	log.Info().Msg("Setup finished")
	p.printer.Success()
	return StateDone, nil
}

// advance returns the last state reached and the error that stopped it.
func (p *Pipeline) advance(ctx context.Context) (State, error) {
	state := StateStart

	if err := p.setup.CheckPrerequisite(ctx); err != nil {
		return state, err
	}
	state = StatePrereqOK

	status, err := p.setup.InspectEnvironment(ctx)
	if err != nil {
		return state, err
	}
	state = StateEnvInspected

	if err := p.setup.ProvisionEnvironment(ctx, status); err != nil {
		return state, err
	}
	state = StateEnvProvisioned

	if err := p.setup.InstallDependencies(ctx); err != nil {
		return state, err
	}
	state = StateDepsInstalled

	if err := p.setup.VerifyDriver(ctx); err != nil {
		return state, err
	}
	return StateDriverVerified, nil
}
