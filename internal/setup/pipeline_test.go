package setup

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/theblitlabs/thz-setup/internal/console"
	"github.com/theblitlabs/thz-setup/internal/execution/executils"
	"github.com/theblitlabs/thz-setup/internal/prompt"
)

func TestPipelineCondaMissing(t *testing.T) {
	f := newFixture(t, "\n")
	f.onCapture(versionArgs, &executils.Result{ExitCode: -1}, launchErr("conda --version"))

	state, err := NewPipeline(f.setup, true).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, state)
	assert.Equal(t, KindToolNotFound, KindOf(err))

	assert.Equal(t, strings.Join([]string{
		StartMessage,
		"Check conda is installed correctly ... NG",
		"conda is not found. Install Anaconda or Miniconda",
		console.FailureBanner,
		prompt.ClosePrompt,
		"",
	}, "\n"), f.out.String())

	f.runner.AssertNotCalled(t, "Capture", mock.Anything, "conda", listArgs)
}

func TestPipelineSuccessWithRecreate(t *testing.T) {
	f := newFixture(t, "y\ny\n\n")
	f.onCapture(versionArgs, &executils.Result{Stdout: "conda 23.7.4\n"}, nil)
	f.onCapture(listArgs, &executils.Result{Stdout: "base  *  /opt/conda\nthz   /opt/conda/envs/thz\n"}, nil)
	f.onCapture(removeArgs, &executils.Result{}, nil)
	f.onStream(createArgs, &executils.Result{}, nil)
	f.onStream(installArgs, &executils.Result{}, nil)
	f.onCapture(driverArgs, &executils.Result{Stdout: "visa64.dll\n"}, nil)

	state, err := NewPipeline(f.setup, true).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)

	out := f.out.String()
	assert.Contains(t, out, "Environment exist in: /opt/conda/envs/thz\n")
	assert.Contains(t, out, "Do you create environment again? (y/N):\n")
	assert.Contains(t, out, "NI-VISA status ... OK\n")
	assert.True(t, strings.HasSuffix(out, console.SuccessBanner+"\n"+prompt.ClosePrompt+"\n"))
	f.runner.AssertExpectations(t)
}

func TestPipelineDeclineProvisioningContinues(t *testing.T) {
	f := newFixture(t, "n\nn\n")
	f.onCapture(versionArgs, &executils.Result{}, nil)
	f.onCapture(listArgs, &executils.Result{Stdout: "base  *  /opt/conda\n"}, nil)
	f.onCapture(driverArgs, &executils.Result{Stdout: "visa32.dll"}, nil)

	state, err := NewPipeline(f.setup, false).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)

	out := f.out.String()
	assert.Contains(t, out, "Do you create environment? (y/N):\n")
	assert.Contains(t, out, "Install required packages? (y/N)\n")
	assert.NotContains(t, out, prompt.ClosePrompt)
	f.runner.AssertNotCalled(t, "Capture", mock.Anything, "conda", removeArgs)
	f.runner.AssertNotCalled(t, "Stream", mock.Anything, "conda", createArgs)
	f.runner.AssertNotCalled(t, "Stream", mock.Anything, "conda", installArgs)
}

func TestPipelineDriverMissing(t *testing.T) {
	f := newFixture(t, "n\nn\n\n")
	f.onCapture(versionArgs, &executils.Result{}, nil)
	f.onCapture(listArgs, &executils.Result{Stdout: "thz  /opt/conda/envs/thz\n"}, nil)
	f.onCapture(driverArgs, &executils.Result{Stdout: "", Stderr: "ModuleNotFoundError: No module named 'pyvisa'\n"}, nil)

	state, err := NewPipeline(f.setup, true).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, state)
	assert.Equal(t, KindVerificationMismatch, KindOf(err))

	out := f.out.String()
	assert.Contains(t, out, "NI-VISA status ... NG\nNI-VISA is not found\n"+console.FailureBanner+"\n")
	assert.NotContains(t, out, console.SuccessBanner)
	assert.True(t, strings.HasSuffix(out, prompt.ClosePrompt+"\n"))
}

func TestPipelineStopsAfterInstallFailure(t *testing.T) {
	f := newFixture(t, "n\ny\n")
	f.onCapture(versionArgs, &executils.Result{}, nil)
	f.onCapture(listArgs, &executils.Result{Stdout: "thz  /opt/conda/envs/thz\n"}, nil)
	f.onStream(installArgs, &executils.Result{ExitCode: 1}, &executils.ExitError{Command: "conda run", ExitCode: 1})

	state, err := NewPipeline(f.setup, false).Run(context.Background())
	assert.Equal(t, StateFailed, state)
	assert.Equal(t, KindCommandFailed, KindOf(err))

	var setupErr *Error
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, StageInstall, setupErr.Stage)
	f.runner.AssertNotCalled(t, "Capture", mock.Anything, "conda", driverArgs)
}

func TestPipelineAdvanceReportsReachedState(t *testing.T) {
	f := newFixture(t, "")
	f.onCapture(versionArgs, &executils.Result{}, nil)
	f.onCapture(listArgs, &executils.Result{}, nil)

	state, err := NewPipeline(f.setup, false).advance(context.Background())
	assert.Equal(t, StateEnvInspected, state)
	assert.Equal(t, KindInputClosed, KindOf(err))
}

func TestPipelineRunID(t *testing.T) {
	f := newFixture(t, "")
	p := NewPipeline(f.setup, false)

	_, err := uuid.Parse(p.RunID())
	assert.NoError(t, err)
	assert.NotEqual(t, p.RunID(), NewPipeline(f.setup, false).RunID())
}

func TestReport(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		f := newFixture(t, "")
		f.onCapture(versionArgs, &executils.Result{}, nil)
		f.onCapture(listArgs, &executils.Result{Stdout: "# conda environments:\n#\nbase  *  /opt/conda\nthz      /opt/conda/envs/thz\n"}, nil)
		f.onCapture(driverArgs, &executils.Result{Stdout: "visa64.dll"}, nil)

		require.NoError(t, f.setup.Report(context.Background()))

		out := f.out.String()
		assert.Contains(t, out, "  base *")
		assert.Contains(t, out, "> thz ")
		assert.Contains(t, out, "Environment exist in: /opt/conda/envs/thz\n")
		assert.Contains(t, out, "NI-VISA status ... OK\n")
		f.runner.AssertNotCalled(t, "Stream", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("environment missing skips driver check", func(t *testing.T) {
		f := newFixture(t, "")
		f.onCapture(versionArgs, &executils.Result{}, nil)
		f.onCapture(listArgs, &executils.Result{Stdout: "base  *  /opt/conda\n"}, nil)

		err := f.setup.Report(context.Background())
		assert.Equal(t, KindVerificationMismatch, KindOf(err))
		assert.Contains(t, f.out.String(), "Virtual environment for the application does not exist\n")
		f.runner.AssertNotCalled(t, "Capture", mock.Anything, "conda", driverArgs)
	})

	t.Run("conda missing", func(t *testing.T) {
		f := newFixture(t, "")
		f.onCapture(versionArgs, &executils.Result{ExitCode: -1}, launchErr("conda --version"))

		err := f.setup.Report(context.Background())
		assert.Equal(t, KindToolNotFound, KindOf(err))
	})
}
