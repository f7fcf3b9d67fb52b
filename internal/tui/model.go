// Package tui provides the interactive channel picker for chanmgr
package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"chanmgr/config/models"
	"chanmgr/internal/api"
)

// ViewState represents the current view state
type ViewState int

const (
	ViewList   ViewState = iota // Channel list
	ViewAdd                     // Add channel form
	ViewEdit                    // Edit channel form
	ViewDelete                  // Delete confirmation dialog
	ViewHelp                    // Help panel
)

// Backend is the part of the service the picker needs
type Backend interface {
	ListChannels() api.Response
	GetChannel(name string) api.Response
	SaveChannel(req api.SaveChannelRequest) api.Response
	DeleteChannel(name string) api.Response
}

// Model is the core state model for the picker
type Model struct {
	backend Backend
	keys    KeyMap
	help    help.Model

	channels  []api.ChannelInfo
	active    string
	cursor    int // index into visible()
	viewState ViewState
	loaded    bool

	filter    textinput.Model
	filtering bool

	// Form related
	formInputs []textinput.Model
	formFocus  int
	editing    string // channel being edited, "" when adding

	message  string
	errorMsg string

	width        int
	height       int
	scrollOffset int

	chosen string
}

// NewModel creates a picker over backend
func NewModel(backend Backend) Model {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "筛选渠道"
	filter.CharLimit = 50

	return Model{
		backend:   backend,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		filter:    filter,
		viewState: ViewList,
		width:     80,
		height:    24,
	}
}

// Chosen returns the channel picked with Enter, or "" when the picker was
// closed without a choice.
func (m Model) Chosen() string {
	return m.chosen
}

// Init loads the channel list
func (m Model) Init() tea.Cmd {
	return loadChannels(m.backend)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.adjustScrollOffset()
		return m, nil

	case ChannelsLoadedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.channels = msg.Channels
		m.active = msg.Active
		if !m.loaded {
			m.loaded = true
			m.cursorToActive()
		}
		m.clampCursor()
		return m, nil

	case ChannelSavedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.message = "渠道已保存: " + msg.Name
		m.errorMsg = ""
		m.viewState = ViewList
		m.formInputs = nil
		m.formFocus = 0
		m.editing = ""
		return m, loadChannels(m.backend)

	case ChannelDeletedMsg:
		m.viewState = ViewList
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.message = "渠道已删除: " + msg.Name
		return m, loadChannels(m.backend)
	}

	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewState {
	case ViewList:
		if m.filtering {
			return m.handleFilterKeys(msg)
		}
		return m.handleListKeys(msg)
	case ViewAdd, ViewEdit:
		return m.handleFormKeys(msg)
	case ViewDelete:
		return m.handleDeleteKeys(msg)
	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
			m.viewState = ViewList
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()
	if !key.Matches(msg, m.keys.Select) {
		m.message = ""
		m.errorMsg = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		m.adjustScrollOffset()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.adjustScrollOffset()

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.adjustScrollOffset()

	case key.Matches(msg, m.keys.Bottom):
		if len(visible) > 0 {
			m.cursor = len(visible) - 1
		}
		m.adjustScrollOffset()

	case key.Matches(msg, m.keys.Select):
		if c, ok := m.current(); ok {
			m.chosen = c.Name
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Cancel):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Add):
		m.initForm(ViewAdd, FormData{})

	case key.Matches(msg, m.keys.Edit):
		if c, ok := m.current(); ok {
			resp := m.backend.GetChannel(c.Name)
			if err := responseErr(resp); err != nil {
				m.errorMsg = err.Error()
				return m, nil
			}
			ch, _ := resp.Data.(*models.Channel)
			m.initForm(ViewEdit, formDataFor(c.Name, ch))
			m.editing = c.Name
		}

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.current(); ok {
			m.viewState = ViewDelete
		}

	case key.Matches(msg, m.keys.Help):
		m.viewState = ViewHelp
	}
	return m, nil
}

func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Select):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	m.scrollOffset = 0
	return m, cmd
}

func (m Model) handleDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) {
		if c, ok := m.current(); ok {
			return m, deleteChannel(m.backend, c.Name)
		}
	}
	m.viewState = ViewList
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewState = ViewList
		m.formInputs = nil
		m.editing = ""
		m.errorMsg = ""
		return m, nil

	case "tab", "down":
		m.formFocus = NextFormField(m.formInputs, m.formFocus)
		return m, nil

	case "shift+tab", "up":
		m.formFocus = PrevFormField(m.formInputs, m.formFocus)
		return m, nil

	case "enter":
		data := GetFormData(m.formInputs)
		if err := data.Validate(); err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		m.errorMsg = ""
		return m, saveChannel(m.backend, data.Request(m.editing))
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) initForm(view ViewState, data FormData) {
	m.formInputs = FormInputs()
	m.formFocus = 0
	SetFormData(m.formInputs, data)
	m.viewState = view
	m.message = ""
	m.errorMsg = ""
}

func formDataFor(name string, c *models.Channel) FormData {
	data := FormData{Name: name}
	if c == nil {
		return data
	}
	data.Token = c.AuthToken()
	data.BaseURL = c.BaseURL()
	data.Model = c.Model
	if c.BalanceAPI != nil {
		data.BalanceURL = c.BalanceAPI.URL
		data.BalanceField = c.BalanceAPI.Field
	}
	return data
}

// visible returns the channels matching the filter
func (m Model) visible() []api.ChannelInfo {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if q == "" {
		return m.channels
	}
	out := make([]api.ChannelInfo, 0, len(m.channels))
	for _, c := range m.channels {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

func (m Model) current() (api.ChannelInfo, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return api.ChannelInfo{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) cursorToActive() {
	for i, c := range m.visible() {
		if c.Name == m.active {
			m.cursor = i
			break
		}
	}
	m.adjustScrollOffset()
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustScrollOffset()
}

// getVisibleListHeight returns how many rows the list can show
func (m Model) getVisibleListHeight() int {
	h := m.height - 8
	if h < 3 {
		return 3
	}
	return h
}

// adjustScrollOffset keeps the cursor inside the visible window
func (m *Model) adjustScrollOffset() {
	height := m.getVisibleListHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+height {
		m.scrollOffset = m.cursor - height + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func loadChannels(b Backend) tea.Cmd {
	return func() tea.Msg {
		resp := b.ListChannels()
		if err := responseErr(resp); err != nil {
			return ChannelsLoadedMsg{Err: err}
		}
		list, _ := resp.Data.(api.ChannelList)
		return ChannelsLoadedMsg{Channels: list.Channels, Active: list.Active}
	}
}

func saveChannel(b Backend, req api.SaveChannelRequest) tea.Cmd {
	return func() tea.Msg {
		return ChannelSavedMsg{Name: req.Name, Err: responseErr(b.SaveChannel(req))}
	}
}

func deleteChannel(b Backend, name string) tea.Cmd {
	return func() tea.Msg {
		return ChannelDeletedMsg{Name: name, Err: responseErr(b.DeleteChannel(name))}
	}
}

func responseErr(resp api.Response) error {
	if resp.Success {
		return nil
	}
	return errors.New(resp.Error)
}
