package launcher

import (
	"sort"
	"strings"
	"time"
)

// Terminal names understood on Windows
const (
	TerminalWT         = "wt"
	TerminalPwsh       = "pwsh"
	TerminalPowerShell = "powershell"
	TerminalCmd        = "cmd"
)

// wtConfirm is how long a Windows Terminal launch is watched for an early
// failure exit before it counts as started.
const wtConfirm = 1500 * time.Millisecond

// Spec is one process to start
type Spec struct {
	Path string
	Args []string
	Dir  string

	// CmdLine, when set, is passed to Windows verbatim instead of the
	// escaped Args. cmd.exe and PowerShell do not parse the MSVCRT quoting
	// Go produces for Args.
	CmdLine string

	// NewConsole opens a console window for the child (Windows only)
	NewConsole bool

	// Env holds KEY=VALUE pairs added to the inherited environment
	Env []string
}

// Step is one entry of a launch plan
type Step struct {
	Name      string
	Available func() bool
	Build     func() Spec

	// Confirm, if non-zero, waits this long for the child to fail before
	// the step is considered successful.
	Confirm time.Duration
}

// Plan is an ordered list of steps; the first one that spawns wins
type Plan struct {
	Dir   string
	Shell string
	Steps []Step
}

// Options describes a launch request
type Options struct {
	// Command is run inside the shell, e.g. "claude"
	Command string
	// Dir is the working directory; missing directories fall back to home
	Dir string
	// Terminal optionally forces a terminal or shell
	Terminal string
	// Wait runs the shell attached to the current terminal (non-Windows)
	Wait bool
	// Env is set in the child on top of the inherited environment
	Env map[string]string
}

// BuildPlan resolves the working directory and shell and returns the steps
// to try for opts.
func (l *Launcher) BuildPlan(opts Options) Plan {
	dir := l.ResolveDir(opts.Dir)
	shell := l.ResolveShell(opts.Terminal)

	var steps []Step
	if l.GOOS == "windows" {
		steps = l.windowsSteps(dir, shell, opts)
	} else {
		steps = l.unixSteps(dir, shell, opts)
	}

	env := envList(opts.Env)
	for i := range steps {
		build := steps[i].Build
		steps[i].Build = func() Spec {
			spec := build()
			spec.Env = env
			return spec
		}
	}
	return Plan{Dir: dir, Shell: shell, Steps: steps}
}

func (l *Launcher) windowsSteps(dir, shell string, opts Options) []Step {
	terminal := strings.ToLower(strings.TrimSpace(opts.Terminal))

	wt := Step{
		Name: "windows-terminal",
		Available: func() bool {
			if terminal != "" && terminal != TerminalWT {
				return false
			}
			_, err := l.LookPath(TerminalWT)
			return err == nil
		},
		Build: func() Spec {
			path, _ := l.LookPath(TerminalWT)
			args := []string{"-d", dir, shell}
			if shell == TerminalCmd {
				args = append(args, "/K", opts.Command)
			} else {
				args = append(args, "-NoExit", "-Command", opts.Command)
			}
			return Spec{Path: path, Args: args, Dir: dir}
		},
		Confirm: wtConfirm,
	}

	console := Step{
		Name:      "console",
		Available: func() bool { return true },
		Build: func() Spec {
			path := shell
			if p, err := l.LookPath(shell); err == nil {
				path = p
			}
			if shell == TerminalCmd {
				inner := `cd /d "` + dir + `" && ` + opts.Command
				return Spec{
					Path:       path,
					Args:       []string{"/K", inner},
					Dir:        dir,
					CmdLine:    shell + " /K " + inner,
					NewConsole: true,
				}
			}
			inner := "Set-Location -LiteralPath " + quotePowerShell(dir) + "; " + opts.Command
			return Spec{
				Path:       path,
				Args:       []string{"-NoExit", "-Command", inner},
				Dir:        dir,
				CmdLine:    shell + ` -NoExit -Command "` + inner + `"`,
				NewConsole: true,
			}
		},
	}

	return []Step{wt, console}
}

func (l *Launcher) unixSteps(dir, shell string, opts Options) []Step {
	return []Step{{
		Name:      "login-shell",
		Available: func() bool { return shell != "" },
		Build: func() Spec {
			return Spec{
				Path: shell,
				Args: []string{"-l", "-c", "cd " + quotePOSIX(dir) + " && " + opts.Command},
				Dir:  dir,
			}
		},
	}}
}

func envList(vars map[string]string) []string {
	if len(vars) == 0 {
		return nil
	}
	env := make([]string, 0, len(vars))
	for k, v := range vars {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// quotePOSIX single-quotes s for sh
func quotePOSIX(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// quotePowerShell single-quotes s for PowerShell
func quotePowerShell(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
