// Package process runs the delegated application server as a child process and maps
// its termination to a shell-style exit status.
package process

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"runtime"
	"syscall"
	"time"

	port "github.com/tigerroll/launchpad/pkg/launch/core/application/port"
	"github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
	logger "github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

// killWaitDelay bounds how long Wait keeps draining output after a kill.
const killWaitDelay = 500 * time.Millisecond

// ExecRunner is a port.ProcessRunner backed by os/exec.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner whose children inherit the launcher's standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts spec and waits for it.
//
// Cancelling ctx sends an interrupt to the child; if it has not exited after
// spec.GracePeriod it is killed. A zero GracePeriod kills it right away. The returned status is the child's exit code,
// 128+n when it was killed by signal n, 127 when spec.Path does not exist and 126
// when it cannot be executed. The error is non-nil only when the child could not
// be started or waited for.
func (r *ExecRunner) Run(ctx context.Context, spec port.ProcessSpec) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if spec.GracePeriod > 0 {
		cmd.Cancel = func() error {
			logger.Infof("Process: stop requested, interrupting pid %d.", cmd.Process.Pid)
			return interrupt(cmd.Process)
		}
		cmd.WaitDelay = spec.GracePeriod
	} else {
		// No grace period: stop means kill.
		cmd.Cancel = func() error {
			logger.Infof("Process: stop requested, killing pid %d.", cmd.Process.Pid)
			return cmd.Process.Kill()
		}
		cmd.WaitDelay = killWaitDelay
	}

	logger.Debugf("Process: starting '%s' with args %v in '%s'.", spec.Path, spec.Args, spec.Dir)
	if err := cmd.Start(); err != nil {
		code := startFailureCode(err)
		logger.Errorf("Process: failed to start '%s': %v", spec.Path, err)
		return code, exception.NewLaunchError("process", "failed to start the server", err, code)
	}
	logger.Debugf("Process: '%s' running as pid %d.", spec.Path, cmd.Process.Pid)

	waitErr := cmd.Wait()
	if cmd.ProcessState == nil {
		return exception.ExitFailure, exception.NewLaunchError("process", "failed to wait for the server", waitErr, exception.ExitFailure)
	}
	code := ExitStatus(cmd.ProcessState)
	if waitErr != nil {
		// After a cancellation Wait reports the context error even for a clean exit.
		logger.Debugf("Process: wait returned: %v", waitErr)
	}
	logger.Debugf("Process: pid %d exited with status %d.", cmd.Process.Pid, code)
	return code, nil
}

// ExitStatus returns the shell's view of how a process ended.
func ExitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return exception.SignalExitCode(int(ws.Signal()))
	}
	return state.ExitCode()
}

func startFailureCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return exception.SignalExitCode(int(syscall.SIGINT))
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return exception.ExitCommandNotFound
	default:
		return exception.ExitCommandNotRunnable
	}
}

func interrupt(p *os.Process) error {
	if runtime.GOOS == "windows" {
		// os.Interrupt cannot be delivered to a Windows process.
		return p.Kill()
	}
	return p.Signal(os.Interrupt)
}

var _ port.ProcessRunner = (*ExecRunner)(nil)
