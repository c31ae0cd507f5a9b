package executils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/theblitlabs/thz-setup/pkg/logger"
)

// Result is the outcome of a finished command. Stdout and Stderr are only
// populated for captured runs.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
}

// LaunchError means the command could not be started at all.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitError means the command ran and exited with a non-zero status.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command failed: %s (exit status %d)", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\nStderr: " + stderr
	}
	return msg
}

// Runner runs external commands either capturing their output or streaming it
// to the console. A single invocation never does both.
type Runner interface {
	Capture(ctx context.Context, name string, args ...string) (*Result, error)
	Stream(ctx context.Context, name string, args ...string) (*Result, error)
}

// CommandRunner is the os/exec backed Runner.
type CommandRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewCommandRunner returns a runner that streams to stdout and stderr.
// Nil writers default to the process streams.
func NewCommandRunner(stdout, stderr io.Writer) *CommandRunner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &CommandRunner{stdout: stdout, stderr: stderr}
}

func (r *CommandRunner) Capture(ctx context.Context, name string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result, err := r.run(cmd, name, args)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		exitErr.Stderr = result.Stderr
	}
	return result, err
}

func (r *CommandRunner) Stream(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	return r.run(cmd, name, args)
}

func (r *CommandRunner) run(cmd *exec.Cmd, name string, args []string) (*Result, error) {
	log := logger.WithComponent("exec")
	cmdStr := CommandString(name, args...)
	result := &Result{Command: cmdStr}

	log.Debug().Str("command", cmdStr).Msg("Running command")

	err := cmd.Run()
	if err == nil {
		log.Debug().Str("command", cmdStr).Msg("Command finished")
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		log.Debug().
			Str("command", cmdStr).
			Int("exit_code", result.ExitCode).
			Msg("Command exited with non-zero status")
		return result, &ExitError{Command: cmdStr, ExitCode: result.ExitCode}
	}

	result.ExitCode = -1
	log.Debug().Err(err).Str("command", cmdStr).Msg("Command could not be launched")
	return result, &LaunchError{Command: cmdStr, Err: err}
}

// CommandString renders argv the way it would be typed.
func CommandString(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}

// IsLaunchError reports whether err means the command never started.
func IsLaunchError(err error) bool {
	var launchErr *LaunchError
	return errors.As(err, &launchErr)
}

// IsExitError reports whether err means the command ran and failed.
func IsExitError(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}
