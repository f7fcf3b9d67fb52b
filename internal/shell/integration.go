package shell

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

const (
	blockStart = "# >>> chanmgr shell integration >>>"
	blockEnd   = "# <<< chanmgr shell integration <<<"
)

const shellIntegrationTemplate = `{{.Start}}
# Loads variables persisted by '{{.Binary}} key use' into new shells.
if command -v {{.Binary}} >/dev/null 2>&1; then
  eval "$(command {{.Binary}} load-active)"

  # 'key use' prints an export line; apply it to the current shell too
  {{.Binary}}() {
    if [ "${1-}" = "key" ] && [ "${2-}" = "use" ]; then
      local __chanmgr_output
      if ! __chanmgr_output="$(command {{.Binary}} "$@")"; then
        return 1
      fi
      eval "$__chanmgr_output"
    else
      command {{.Binary}} "$@"
    fi
  }
fi
{{.End}}
`

// InstallState reports what Install did
type InstallState int

const (
	Installed InstallState = iota
	Updated
	AlreadyInstalled
)

// Generator renders the rc-file snippet
type Generator struct {
	Binary string
}

// NewGenerator returns a Generator for the chanmgr binary
func NewGenerator() *Generator {
	return &Generator{Binary: "chanmgr"}
}

// Generate renders the snippet, including its start and end markers
func (g *Generator) Generate() (string, error) {
	tmpl, err := template.New("shell").Parse(shellIntegrationTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Binary, Start, End string
	}{g.Binary, blockStart, blockEnd})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RCFile picks the rc file for the login shell named by shellEnv
func RCFile(shellEnv, home string) (string, error) {
	switch base := filepath.Base(shellEnv); {
	case strings.Contains(base, "zsh"):
		return filepath.Join(home, ".zshrc"), nil
	case strings.Contains(base, "bash"):
		return filepath.Join(home, ".bashrc"), nil
	default:
		return "", fmt.Errorf("unsupported shell: %q", shellEnv)
	}
}

// Install appends the snippet to rcFile. An existing block is left alone
// unless force is set, in which case it is replaced in place.
func (g *Generator) Install(rcFile string, force bool) (InstallState, error) {
	snippet, err := g.Generate()
	if err != nil {
		return 0, err
	}

	content, err := os.ReadFile(rcFile)
	if err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("failed to read %s: %w", rcFile, err)
	}
	existing := string(content)

	start := strings.Index(existing, blockStart)
	end := strings.Index(existing, blockEnd)
	if start >= 0 && end > start {
		if !force {
			return AlreadyInstalled, nil
		}
		end += len(blockEnd)
		if end < len(existing) && existing[end] == '\n' {
			end++
		}
		updated := existing[:start] + snippet + existing[end:]
		if err := os.WriteFile(rcFile, []byte(updated), 0644); err != nil {
			return 0, fmt.Errorf("failed to update %s: %w", rcFile, err)
		}
		return Updated, nil
	}

	if err := os.MkdirAll(filepath.Dir(rcFile), 0755); err != nil {
		return 0, err
	}
	f, err := os.OpenFile(rcFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", rcFile, err)
	}

	prefix := "\n"
	if existing == "" || strings.HasSuffix(existing, "\n\n") {
		prefix = ""
	} else if !strings.HasSuffix(existing, "\n") {
		prefix = "\n\n"
	}
	if _, err := f.WriteString(prefix + snippet); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to write to %s: %w", rcFile, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", rcFile, err)
	}
	return Installed, nil
}

// ExportLines renders vars as sorted POSIX export statements
func ExportLines(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "export %s=%s\n", k, Quote(vars[k]))
	}
	return b.String()
}

// Quote single-quotes s for POSIX shells
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
