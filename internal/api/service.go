package api

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"chanmgr/config"
	"chanmgr/config/keystore"
	"chanmgr/config/models"
	"chanmgr/internal/appconfig"
	"chanmgr/internal/balance"
	"chanmgr/internal/envstore"
	"chanmgr/internal/errs"
	"chanmgr/internal/launcher"
	"chanmgr/internal/providers"
	"chanmgr/internal/utils"
)

// Service ties the stores, the launcher and the env store together
type Service struct {
	Channels *config.Manager
	Keys     *keystore.Store
	Launcher *launcher.Launcher
	Env      envstore.Store
	HTTP     *http.Client

	// Commands overrides a tool's launch command, keyed by tool name
	Commands       map[string]string
	Terminal       string
	TerminalDir    string
	BalanceTimeout time.Duration
}

// NewService builds a Service from the application config
func NewService(cfg *appconfig.Config) *Service {
	return &Service{
		Channels: config.NewManager(cfg.ConfigDir),
		Keys:     keystore.New(cfg.ConfigDir),
		Launcher: launcher.New(),
		Env:      envstore.New(appconfig.Dir()),
		HTTP:     &http.Client{},
		Commands: map[string]string{
			"claude": cfg.ClaudeCommand,
			"droid":  cfg.DroidCommand,
		},
		Terminal:       cfg.Terminal,
		TerminalDir:    cfg.TerminalDir,
		BalanceTimeout: cfg.BalanceTimeout,
	}
}

// ChannelInfo is one row of a channel listing
type ChannelInfo struct {
	Name       string             `json:"name"`
	BaseURL    string             `json:"baseUrl,omitempty"`
	Token      string             `json:"token"`
	Model      string             `json:"model,omitempty"`
	BalanceAPI *models.BalanceAPI `json:"balanceApi,omitempty"`
	Mtime      *int64             `json:"mtime,omitempty"`
	Active     bool               `json:"active"`
}

// ChannelList is the data of ListChannels
type ChannelList struct {
	Active   string        `json:"active,omitempty"`
	Channels []ChannelInfo `json:"channels"`
}

// SaveChannelRequest is a channel save. Creating over, or renaming onto, an
// existing channel is refused unless Overwrite is set.
type SaveChannelRequest struct {
	config.SaveRequest
	Overwrite bool `json:"overwrite"`
}

// LaunchRequest selects the tool and terminal for a launch
type LaunchRequest struct {
	Tool     string `json:"tool"`
	Dir      string `json:"dir"`
	Terminal string `json:"terminal"`
	Wait     bool   `json:"wait"`
}

// KeyInfo is one row of a key listing
type KeyInfo struct {
	Name   string `json:"name"`
	Key    string `json:"key"`
	Active bool   `json:"active"`
}

// ListChannels returns all channels, newest first, with the active one
// marked. The active channel is the one whose token and base URL match
// settings.json.
func (s *Service) ListChannels() Response {
	channels, err := s.Channels.List()
	if err != nil {
		return Fail(err)
	}

	active, err := s.Channels.GetActive()
	if err != nil && errs.KindOf(err) != errs.KindNotFound {
		log.Debug().Err(err).Msg("active settings unreadable")
	}
	activeName := config.ActiveName(channels, active)

	list := ChannelList{Active: activeName, Channels: make([]ChannelInfo, 0, len(channels))}
	for _, name := range config.SortedNames(channels) {
		c := channels[name]
		list.Channels = append(list.Channels, ChannelInfo{
			Name:       name,
			BaseURL:    c.BaseURL(),
			Token:      utils.MaskSecret(c.AuthToken()),
			Model:      c.Model,
			BalanceAPI: c.BalanceAPI,
			Mtime:      c.Mtime,
			Active:     name == activeName,
		})
	}
	return OK(list)
}

// GetChannel returns one stored channel
func (s *Service) GetChannel(name string) Response {
	return From(s.Channels.Get(name))
}

// GetActive returns the active settings decoded as a channel
func (s *Service) GetActive() Response {
	return From(s.Channels.GetActive())
}

// SaveChannel creates, updates or renames a channel
func (s *Service) SaveChannel(req SaveChannelRequest) Response {
	name := strings.TrimSpace(req.Name)
	oldName := strings.TrimSpace(req.OldName)
	req.Name, req.OldName = name, oldName

	if oldName != "" && oldName != name && !s.Channels.Exists(oldName) {
		return Fail(errs.NotFound(nil, "channel %q not found", oldName))
	}
	if !req.Overwrite && oldName != name && s.Channels.Exists(name) {
		return Fail(errs.Duplicate("channel %q already exists", name))
	}

	channel, err := s.Channels.Save(req.SaveRequest)
	if err != nil {
		return Fail(err)
	}
	log.Info().Str("channel", name).Msg("channel saved")
	return OK(channel)
}

// DeleteChannel soft-deletes a channel
func (s *Service) DeleteChannel(name string) Response {
	if err := s.Channels.Delete(name); err != nil {
		return Fail(err)
	}
	return OK(nil)
}

// SwitchChannel activates a channel
func (s *Service) SwitchChannel(name string) Response {
	if err := s.Channels.Switch(name); err != nil {
		return Fail(err)
	}
	return OK(map[string]string{"active": name, "path": s.Channels.ActivePath()})
}

// RestoreActive restores settings.json from its latest backup
func (s *Service) RestoreActive() Response {
	backup, err := s.Channels.Restore()
	if err != nil {
		return Fail(err)
	}
	return OK(map[string]string{"backup": backup, "path": s.Channels.ActivePath()})
}

// Launch opens a terminal running the requested tool. Variables persisted
// by key activation are passed to the child.
func (s *Service) Launch(ctx context.Context, req LaunchRequest) Response {
	toolName := req.Tool
	if toolName == "" {
		toolName = "claude"
	}
	tool, err := providers.Get(toolName)
	if err != nil {
		return Fail(err)
	}

	command := s.Commands[tool.Name()]
	if command == "" {
		command = tool.DefaultCommand()
	}

	opts := launcher.Options{
		Command:  command,
		Dir:      firstNonEmpty(req.Dir, s.TerminalDir),
		Terminal: firstNonEmpty(req.Terminal, s.Terminal),
		Wait:     req.Wait,
	}
	if s.Env != nil {
		vars, err := s.Env.Load()
		if err != nil {
			log.Warn().Err(err).Str("path", s.Env.Path()).Msg("ignoring unreadable env file")
		} else {
			opts.Env = vars
		}
	}

	return From(s.Launcher.Launch(ctx, opts))
}

// CheckTerminal reports whether a terminal choice is usable
func (s *Service) CheckTerminal(name string) Response {
	return OK(map[string]any{"terminal": name, "available": s.Launcher.CheckTerminal(name)})
}

// Balance runs a single balance query for a channel
func (s *Service) Balance(ctx context.Context, name string) Response {
	channel, err := s.Channels.Get(name)
	if err != nil {
		return Fail(err)
	}
	if channel.BalanceAPI == nil {
		return Fail(errs.NotFound(nil, "channel %q has no balance API configured", name))
	}

	timeout := s.BalanceTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return From(balance.Query(ctx, s.HTTP, channel.BalanceAPI, channel.AuthToken()))
}

// ListKeys returns the Droid key profiles with the active one marked
func (s *Service) ListKeys() Response {
	profiles, err := s.Keys.List()
	if err != nil {
		return Fail(err)
	}

	current := ""
	if s.Env != nil {
		if vars, err := s.Env.Load(); err == nil {
			current = vars[keystore.EnvVar]
		}
	}
	if current == "" {
		current = os.Getenv(keystore.EnvVar)
	}
	active, err := s.Keys.ActiveName(current)
	if err != nil {
		return Fail(err)
	}

	keys := make([]KeyInfo, 0, len(profiles))
	for _, p := range profiles {
		keys = append(keys, KeyInfo{
			Name:   p.Name,
			Key:    utils.MaskSecret(p.APIKey),
			Active: p.Name == active,
		})
	}
	return OK(keys)
}

// SaveKey creates or updates a key profile
func (s *Service) SaveKey(name, key, oldName string) Response {
	if err := s.Keys.Save(strings.TrimSpace(name), strings.TrimSpace(key), strings.TrimSpace(oldName)); err != nil {
		return Fail(err)
	}
	return OK(nil)
}

// DeleteKey removes a key profile
func (s *Service) DeleteKey(name string) Response {
	if err := s.Keys.Delete(name); err != nil {
		return Fail(err)
	}
	return OK(nil)
}

// UseKey activates a key profile and persists its variable
func (s *Service) UseKey(name string) Response {
	result, err := s.Keys.Activate(name)
	if err != nil {
		return Fail(err)
	}
	if s.Env != nil {
		if err := s.Env.Persist(*result); err != nil {
			return Fail(err)
		}
	}
	return OK(result)
}

// LoadActive returns the persisted activation variables
func (s *Service) LoadActive() Response {
	if s.Env == nil {
		return OK(map[string]string{})
	}
	return From(s.Env.Load())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
