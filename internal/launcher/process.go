package launcher

import (
	"context"
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

func (p *execProcess) Release() error {
	return p.cmd.Process.Release()
}

// startDetached starts spec in its own session or console with no stdio
// inherited from chanmgr.
func startDetached(spec Spec) (Process, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = withEnv(spec.Env)
	applyDetach(cmd, spec)

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %s", spec.Path)
	}
	log.Debug().Str("path", spec.Path).Strs("args", spec.Args).Int("pid", cmd.Process.Pid).Msg("spawned")
	return &execProcess{cmd: cmd}, nil
}

// runAttached runs spec in the foreground on the current terminal. The
// shell's own exit status is not a launch failure.
func runAttached(ctx context.Context, spec Spec) error {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = withEnv(spec.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "starting %s", spec.Path)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Debug().Int("code", exitErr.ExitCode()).Msg("shell exited")
			return nil
		}
		return errors.Wrap(err, "waiting for shell")
	}
	return nil
}

// withEnv returns nil (inherit) when there is nothing to add
func withEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	return append(os.Environ(), extra...)
}
