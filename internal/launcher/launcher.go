// Package launcher opens an interactive shell in a working directory and
// runs a command in it.
//
// A launch is a Plan: an ordered list of steps, each with an availability
// check and a spawn spec. Steps are tried in order and the first one that
// spawns wins. On Windows the plan prefers Windows Terminal and falls back to
// a console window running PowerShell or cmd; elsewhere a login shell is
// started directly.
package launcher

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"chanmgr/internal/errs"
	"chanmgr/internal/utils"
)

// Process is a started child
type Process interface {
	Wait() error
	Release() error
}

// Launcher resolves and spawns terminals. The function fields default to the
// real OS implementations and are swapped out in tests.
type Launcher struct {
	GOOS     string
	LookPath func(file string) (string, error)
	Getenv   func(key string) string
	Home     func() string

	// Start spawns spec detached from the current process
	Start func(spec Spec) (Process, error)
	// Run spawns spec attached to the current terminal and waits for it
	Run func(ctx context.Context, spec Spec) error
}

// Result reports how a launch was carried out
type Result struct {
	Step  string `json:"step"`
	Shell string `json:"shell"`
	Dir   string `json:"dir"`
}

// New returns a Launcher for the running OS
func New() *Launcher {
	return &Launcher{
		GOOS:     runtime.GOOS,
		LookPath: exec.LookPath,
		Getenv:   os.Getenv,
		Home:     utils.HomeDir,
		Start:    startDetached,
		Run:      runAttached,
	}
}

// ResolveDir returns dir when it is an existing directory, otherwise the
// user's home directory.
func (l *Launcher) ResolveDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if utils.IsDir(dir) {
		if abs, err := filepath.Abs(dir); err == nil {
			return abs
		}
		return dir
	}
	home := l.Home()
	if dir != "" {
		log.Debug().Str("dir", dir).Str("home", home).Msg("working directory not found, using home")
	}
	return home
}

// ResolveShell picks the shell for a launch. On Windows an explicit pwsh,
// powershell or cmd wins; otherwise pwsh when installed, else powershell.
// Elsewhere: the explicit choice, $SHELL, bash, then sh.
func (l *Launcher) ResolveShell(terminal string) string {
	terminal = strings.TrimSpace(terminal)

	if l.GOOS == "windows" {
		switch strings.ToLower(terminal) {
		case TerminalPwsh, TerminalPowerShell, TerminalCmd:
			return strings.ToLower(terminal)
		}
		if _, err := l.LookPath(TerminalPwsh); err == nil {
			return TerminalPwsh
		}
		return TerminalPowerShell
	}

	candidates := []string{terminal, l.Getenv("SHELL"), "bash", "sh"}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if path, err := l.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}

// CheckTerminal reports whether a terminal choice can be used. Only Windows
// Terminal is probed; shells are assumed present.
func (l *Launcher) CheckTerminal(name string) bool {
	if strings.EqualFold(strings.TrimSpace(name), TerminalWT) {
		_, err := l.LookPath(TerminalWT)
		return err == nil
	}
	return true
}

// Launch evaluates the plan for opts. Success means a child was spawned; the
// child is not tracked afterwards unless opts.Wait is set.
func (l *Launcher) Launch(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.Command) == "" {
		return nil, errs.Invalid("launch command cannot be empty")
	}

	plan := l.BuildPlan(opts)
	var failures []string

	for _, step := range plan.Steps {
		if !step.Available() {
			log.Debug().Str("step", step.Name).Msg("launch step not available")
			continue
		}
		spec := step.Build()

		if opts.Wait && l.GOOS != "windows" {
			if err := l.Run(ctx, spec); err != nil {
				failures = append(failures, step.Name+": "+err.Error())
				continue
			}
			return &Result{Step: step.Name, Shell: plan.Shell, Dir: plan.Dir}, nil
		}

		if err := l.spawn(step, spec); err != nil {
			log.Debug().Err(err).Str("step", step.Name).Msg("launch step failed")
			failures = append(failures, step.Name+": "+err.Error())
			continue
		}
		return &Result{Step: step.Name, Shell: plan.Shell, Dir: plan.Dir}, nil
	}

	if len(failures) == 0 {
		return nil, errs.Spawn(nil, "no terminal or shell available to run %q", opts.Command)
	}
	return nil, errs.Spawn(errors.Newf("%s", strings.Join(failures, "; ")), "failed to launch %q", opts.Command)
}

func (l *Launcher) spawn(step Step, spec Spec) error {
	p, err := l.Start(spec)
	if err != nil {
		return err
	}
	if step.Confirm <= 0 {
		if err := p.Release(); err != nil {
			log.Debug().Err(err).Msg("failed to release child process")
		}
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- p.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return errors.Wrapf(err, "%s exited early", filepath.Base(spec.Path))
		}
		return nil
	case <-time.After(step.Confirm):
		return nil
	}
}
