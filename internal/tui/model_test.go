package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"chanmgr/config/models"
	"chanmgr/internal/api"
	"chanmgr/internal/errs"
)

type fakeBackend struct {
	channels  []api.ChannelInfo
	active    string
	stored    map[string]*models.Channel
	saved     []api.SaveChannelRequest
	deleted   []string
	deleteErr error
}

func (f *fakeBackend) ListChannels() api.Response {
	return api.OK(api.ChannelList{Active: f.active, Channels: f.channels})
}

func (f *fakeBackend) GetChannel(name string) api.Response {
	c, ok := f.stored[name]
	if !ok {
		return api.Fail(errs.NotFound(nil, "channel %q not found", name))
	}
	return api.OK(c)
}

func (f *fakeBackend) SaveChannel(req api.SaveChannelRequest) api.Response {
	f.saved = append(f.saved, req)
	return api.OK(nil)
}

func (f *fakeBackend) DeleteChannel(name string) api.Response {
	if f.deleteErr != nil {
		return api.Fail(f.deleteErr)
	}
	f.deleted = append(f.deleted, name)
	return api.OK(nil)
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		active: "home",
		channels: []api.ChannelInfo{
			{Name: "work", BaseURL: "https://a.example.com"},
			{Name: "home", Active: true},
			{Name: "relay", Model: "opus"},
		},
		stored: map[string]*models.Channel{
			"work": func() *models.Channel {
				c := models.NewChannel("T-work", "https://a.example.com", "", models.NewBalanceAPI("https://a.example.com/b", "", "data.left"))
				return &c
			}(),
		},
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press sends keys one by one and runs any resulting commands that talk to
// the backend.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyPress(k))
		m = next.(Model)
	}
	return m, cmd
}

// deliver runs cmd and feeds its message back into the model
func deliver(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg.(type) {
	case ChannelsLoadedMsg, ChannelSavedMsg, ChannelDeletedMsg:
		next, follow := m.Update(msg)
		return deliver(next.(Model), follow)
	}
	return m
}

func loadedModel(b *fakeBackend) Model {
	m := NewModel(b)
	return deliver(m, m.Init())
}

func TestInitPlacesCursorOnActive(t *testing.T) {
	m := loadedModel(newBackend())

	if len(m.channels) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(m.channels))
	}
	if c, _ := m.current(); c.Name != "home" {
		t.Errorf("cursor should start on the active channel, got %q", c.Name)
	}
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"j"}, "relay"},
		{[]string{"j", "j", "j"}, "relay"},
		{[]string{"k"}, "work"},
		{[]string{"k", "k", "k"}, "work"},
		{[]string{"G"}, "relay"},
		{[]string{"G", "g"}, "work"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ","), func(t *testing.T) {
			m, _ := press(t, loadedModel(newBackend()), tt.keys...)
			if c, _ := m.current(); c.Name != tt.want {
				t.Errorf("after %v cursor is on %q, want %q", tt.keys, c.Name, tt.want)
			}
		})
	}
}

func TestSelectQuitsWithChoice(t *testing.T) {
	m, cmd := press(t, loadedModel(newBackend()), "k", "enter")

	if m.Chosen() != "work" {
		t.Errorf("Chosen() = %q, want work", m.Chosen())
	}
	if cmd == nil {
		t.Fatal("Enter should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Enter should quit the program")
	}
}

func TestQuitWithoutChoice(t *testing.T) {
	m, cmd := press(t, loadedModel(newBackend()), "q")

	if m.Chosen() != "" {
		t.Errorf("quitting should not choose, got %q", m.Chosen())
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
}

func TestFilter(t *testing.T) {
	m, _ := press(t, loadedModel(newBackend()), "/", "r", "e")

	visible := m.visible()
	if len(visible) != 1 || visible[0].Name != "relay" {
		t.Fatalf("filter 're' should leave only relay, got %v", visible)
	}

	m, _ = press(t, m, "enter")
	if m.filtering {
		t.Error("Enter should leave filter mode")
	}
	if m.Chosen() != "" {
		t.Error("Enter in filter mode should not choose")
	}

	m, _ = press(t, m, "enter")
	if m.Chosen() != "relay" {
		t.Errorf("Chosen() = %q, want relay", m.Chosen())
	}
}

func TestFilterEscClears(t *testing.T) {
	m, _ := press(t, loadedModel(newBackend()), "/", "x", "esc")

	if m.filtering || m.filter.Value() != "" {
		t.Error("Esc should clear and leave the filter")
	}
	if len(m.visible()) != 3 {
		t.Errorf("expected all channels after clearing, got %d", len(m.visible()))
	}
}

func TestDeleteConfirm(t *testing.T) {
	b := newBackend()
	m, cmd := press(t, loadedModel(b), "d")
	if m.viewState != ViewDelete {
		t.Fatalf("d should open the delete dialog, got %v", m.viewState)
	}
	if !strings.Contains(m.View(), "home") {
		t.Error("dialog should name the channel")
	}

	m, cmd = press(t, m, "y")
	m = deliver(m, cmd)

	if len(b.deleted) != 1 || b.deleted[0] != "home" {
		t.Errorf("deleted = %v, want [home]", b.deleted)
	}
	if m.viewState != ViewList || !strings.Contains(m.message, "home") {
		t.Errorf("expected list view with a message, got view %v message %q", m.viewState, m.message)
	}
}

func TestDeleteCancel(t *testing.T) {
	b := newBackend()
	m, _ := press(t, loadedModel(b), "d", "n")

	if m.viewState != ViewList {
		t.Error("any other key should cancel the dialog")
	}
	if len(b.deleted) != 0 {
		t.Error("nothing should be deleted")
	}
}

func TestDeleteFailureShowsError(t *testing.T) {
	b := newBackend()
	b.deleteErr = errs.IO(nil, "disk on fire")

	m, cmd := press(t, loadedModel(b), "d", "y")
	m = deliver(m, cmd)

	if !strings.Contains(m.errorMsg, "disk on fire") {
		t.Errorf("errorMsg = %q", m.errorMsg)
	}
}

func TestAddForm(t *testing.T) {
	b := newBackend()
	m, _ := press(t, loadedModel(b), "a")
	if m.viewState != ViewAdd {
		t.Fatalf("a should open the add form, got %v", m.viewState)
	}

	m, cmd := press(t, m, "n", "e", "w", "tab", "T", "enter")
	if m.viewState != ViewAdd {
		t.Fatalf("form should stay open until the save result arrives")
	}
	m = deliver(m, cmd)

	if len(b.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(b.saved))
	}
	req := b.saved[0]
	if req.Name != "new" || req.Token != "T" || req.OldName != "" {
		t.Errorf("unexpected request %+v", req.SaveRequest)
	}
	if m.viewState != ViewList {
		t.Errorf("form should close after saving, got %v", m.viewState)
	}
}

func TestAddFormValidation(t *testing.T) {
	b := newBackend()
	m, _ := press(t, loadedModel(b), "a", "n", "enter")

	if m.errorMsg == "" {
		t.Error("a missing token should be reported")
	}
	if len(b.saved) != 0 {
		t.Error("invalid forms must not be saved")
	}
}

func TestEditFormPrefilled(t *testing.T) {
	b := newBackend()
	m, _ := press(t, loadedModel(b), "k", "e")
	if m.viewState != ViewEdit {
		t.Fatalf("e should open the edit form, got %v", m.viewState)
	}

	data := GetFormData(m.formInputs)
	want := FormData{
		Name:         "work",
		Token:        "T-work",
		BaseURL:      "https://a.example.com",
		BalanceURL:   "https://a.example.com/b",
		BalanceField: "data.left",
	}
	if data != want {
		t.Errorf("form data = %+v, want %+v", data, want)
	}

	_, cmd := press(t, m, "enter")
	deliver(m, cmd)
	if len(b.saved) != 1 || b.saved[0].OldName != "work" {
		t.Errorf("edit should save with OldName=work, got %+v", b.saved)
	}
}

func TestEditMissingChannel(t *testing.T) {
	m, _ := press(t, loadedModel(newBackend()), "e")

	if m.viewState != ViewList {
		t.Error("editing an unreadable channel should stay on the list")
	}
	if m.errorMsg == "" {
		t.Error("expected an error message")
	}
}

func TestLoadError(t *testing.T) {
	m := NewModel(newBackend())
	next, _ := m.Update(ChannelsLoadedMsg{Err: errors.New("boom")})

	if next.(Model).errorMsg != "boom" {
		t.Errorf("errorMsg = %q", next.(Model).errorMsg)
	}
}

func TestViewMarksActive(t *testing.T) {
	m, _ := press(t, loadedModel(newBackend()), "j")
	view := m.View()

	if !strings.Contains(view, "* home") {
		t.Errorf("active channel should be marked:\n%s", view)
	}
	if !strings.Contains(view, "> ") {
		t.Errorf("cursor should be drawn:\n%s", view)
	}
}

func TestHelpView(t *testing.T) {
	m, _ := press(t, loadedModel(newBackend()), "?")
	if m.viewState != ViewHelp {
		t.Fatal("? should open help")
	}
	m, _ = press(t, m, "esc")
	if m.viewState != ViewList {
		t.Error("Esc should close help")
	}
}
