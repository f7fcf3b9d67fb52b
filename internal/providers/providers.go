package providers

import (
	"sort"

	"chanmgr/config/keystore"
	"chanmgr/config/models"
	"chanmgr/internal/errs"
)

// Tool describes a CLI that chanmgr can configure and launch
type Tool interface {
	// Name returns the tool's registry name (e.g., "claude", "droid")
	Name() string
	// DisplayName returns a human-readable name
	DisplayName() string
	// DefaultCommand returns the command typed in a shell to start the tool
	DefaultCommand() string
	// CredentialVar returns the environment variable holding the tool's credential
	CredentialVar() string
	// DefaultBaseURL returns the endpoint used when no base URL is configured
	DefaultBaseURL() string
}

// registry stores all registered tools
var registry = make(map[string]Tool)

// Register registers a new tool
func Register(name string, tool Tool) {
	registry[name] = tool
}

// Get returns a tool by name
func Get(name string) (Tool, error) {
	tool, ok := registry[name]
	if !ok {
		return nil, errs.NotFound(nil, "unknown tool: %s", name)
	}
	return tool, nil
}

// List returns all registered tool names, sorted
func List() []string {
	list := make([]string, 0, len(registry))
	for name := range registry {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// 内置工具：Claude Code，由 settings.json 渠道配置
type ClaudeTool struct{}

func (t *ClaudeTool) Name() string {
	return "claude"
}

func (t *ClaudeTool) DisplayName() string {
	return "Claude Code"
}

func (t *ClaudeTool) DefaultCommand() string {
	return "claude"
}

func (t *ClaudeTool) CredentialVar() string {
	return models.EnvAuthToken
}

func (t *ClaudeTool) DefaultBaseURL() string {
	return "https://api.anthropic.com"
}

// 内置工具：Droid，由 key.txt 中的 API key 配置
type DroidTool struct{}

func (t *DroidTool) Name() string {
	return "droid"
}

func (t *DroidTool) DisplayName() string {
	return "Droid"
}

func (t *DroidTool) DefaultCommand() string {
	return "droid"
}

func (t *DroidTool) CredentialVar() string {
	return keystore.EnvVar
}

func (t *DroidTool) DefaultBaseURL() string {
	return "https://app.factory.ai"
}

// 初始化：注册内置工具
func init() {
	Register("claude", &ClaudeTool{})
	Register("droid", &DroidTool{})
}
