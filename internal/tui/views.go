package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chanmgr/internal/api"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2)
)

// View renders the current view
func (m Model) View() string {
	switch m.viewState {
	case ViewAdd:
		return RenderForm(m.formInputs, m.formFocus, "添加渠道", m.errorMsg)
	case ViewEdit:
		return RenderForm(m.formInputs, m.formFocus, "编辑渠道: "+m.editing, m.errorMsg)
	case ViewDelete:
		return m.renderDeleteView()
	case ViewHelp:
		return m.renderHelpView()
	default:
		return m.renderListView()
	}
}

func (m Model) renderListView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("选择要启用的渠道"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth())))
	b.WriteString("\n\n")

	visible := m.visible()
	switch {
	case len(m.channels) == 0:
		b.WriteString(dimStyle.Render("暂无渠道，按 'a' 添加新渠道"))
		b.WriteString("\n")
	case len(visible) == 0:
		b.WriteString(dimStyle.Render("没有匹配的渠道"))
		b.WriteString("\n")
	default:
		start := m.scrollOffset
		end := start + m.getVisibleListHeight()
		if end > len(visible) {
			end = len(visible)
		}
		if start > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ 还有 %d 项...", start)))
			b.WriteString("\n")
		}
		for i := start; i < end; i++ {
			b.WriteString(m.renderChannelLine(i, visible[i]))
			b.WriteString("\n")
		}
		if end < len(visible) {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ 还有 %d 项...", len(visible)-end)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(messageStyle.Render("✓ " + m.message))
		b.WriteString("\n")
	}
	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMsg))
		b.WriteString("\n")
	}
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth())))
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return b.String()
}

// getEffectiveWidth returns the separator width, capped for readability
func (m Model) getEffectiveWidth() int {
	if m.width <= 2 {
		return 40
	}
	if m.width < 80 {
		return m.width - 2
	}
	return 80
}

// renderChannelLine renders a single channel in the list
func (m Model) renderChannelLine(index int, c api.ChannelInfo) string {
	cursor := "  "
	if index == m.cursor {
		cursor = "> "
	}
	marker := "  "
	if c.Active {
		marker = "* "
	}

	details := ""
	if c.BaseURL != "" {
		url := c.BaseURL
		if len(url) > 30 {
			url = url[:27] + "..."
		}
		details += " (" + url + ")"
	}
	if c.Model != "" {
		details += " [" + c.Model + "]"
	}

	line := cursor + marker + c.Name
	switch {
	case index == m.cursor:
		return selectedStyle.Render(line) + dimStyle.Render(details)
	case c.Active:
		return activeStyle.Render(line) + dimStyle.Render(details)
	default:
		return normalStyle.Render(line) + dimStyle.Render(details)
	}
}

func (m Model) renderDeleteView() string {
	c, _ := m.current()
	body := fmt.Sprintf("删除渠道 %q？\n\n文件将被重命名为 .del，可手动恢复。\n\n%s",
		c.Name, helpStyle.Render("y: 确认 │ 其他键: 取消"))
	return dialogStyle.Render(body)
}

func (m Model) renderHelpView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("帮助"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("* 标记当前生效的渠道 (token 与 Base URL 均匹配)"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("按 ? 或 Esc 返回"))
	return b.String()
}
