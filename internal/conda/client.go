package conda

import (
	"context"

	"github.com/theblitlabs/thz-setup/internal/execution/executils"
	"github.com/theblitlabs/thz-setup/internal/utils/errorutil"
	"github.com/theblitlabs/thz-setup/pkg/logger"
)

// Client drives the conda binary through a Runner.
type Client struct {
	binary string
	runner executils.Runner
}

func NewClient(binary string, runner executils.Runner) *Client {
	return &Client{binary: binary, runner: runner}
}

func (c *Client) Binary() string {
	return c.binary
}

// Version runs `conda --version`.
func (c *Client) Version(ctx context.Context) (*executils.Result, error) {
	return c.runner.Capture(ctx, c.binary, "--version")
}

// ListEnvironments returns the raw text of `conda env list`.
func (c *Client) ListEnvironments(ctx context.Context) (string, error) {
	result, err := c.runner.Capture(ctx, c.binary, "env", "list")
	if err != nil {
		return "", errorutil.WrapError(err, "failed to list conda environments")
	}
	return result.Stdout, nil
}

// Inspect lists environments and looks up name in the listing.
func (c *Client) Inspect(ctx context.Context, name string) (EnvironmentStatus, error) {
	listing, err := c.ListEnvironments(ctx)
	if err != nil {
		return EnvironmentStatus{}, err
	}
	return FindEnvironment(listing, name), nil
}

// Create makes a fresh environment with a pinned python, streaming conda's
// own progress output.
func (c *Client) Create(ctx context.Context, name, pythonVersion string) error {
	log := logger.WithComponent("conda")
	log.Info().Str("env", name).Str("python", pythonVersion).Msg("Creating environment")

	_, err := c.runner.Stream(ctx, c.binary, "create", "-n", name, "-y", "python="+pythonVersion)
	return err
}

// Remove deletes the environment by name, never by path.
func (c *Client) Remove(ctx context.Context, name string) error {
	log := logger.WithComponent("conda")
	log.Info().Str("env", name).Msg("Removing environment")

	_, err := c.runner.Capture(ctx, c.binary, "remove", "-n", name, "--all", "-y")
	return err
}

// RunIn runs a command inside the activated environment and captures its output.
func (c *Client) RunIn(ctx context.Context, name string, args ...string) (*executils.Result, error) {
	return c.runner.Capture(ctx, c.binary, append([]string{"run", "-n", name}, args...)...)
}

// StreamIn runs a command inside the activated environment with live output.
func (c *Client) StreamIn(ctx context.Context, name string, args ...string) (*executils.Result, error) {
	return c.runner.Stream(ctx, c.binary, append([]string{"run", "-n", name, "--no-capture-output"}, args...)...)
}
