package fleet

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

// CommandProvisioner runs the compose trigger through the shell.
type CommandProvisioner struct {
	command string
	dir     string
	timeout time.Duration
}

// NewCommandProvisioner creates a provisioner running command in dir.
// A zero timeout means the command may run forever.
func NewCommandProvisioner(command, dir string, timeout time.Duration) *CommandProvisioner {
	return &CommandProvisioner{command: command, dir: dir, timeout: timeout}
}

// Provision runs the command and returns its stdout. On failure the returned
// ProvisioningError carries the exit code and stderr as produced.
func (p *CommandProvisioner) Provision(ctx context.Context) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", p.command)
	cmd.Dir = p.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// children of the shell may keep the output pipes open after it is killed
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return stdout.String(), srvErrors.NewProvisioningTimeoutError(stderr.String())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), srvErrors.NewProvisioningError(exitErr.ExitCode(), stderr.String())
	}

	return stdout.String(), srvErrors.NewInternalError("run "+p.command, err)
}
