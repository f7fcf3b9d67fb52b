package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"chanmgr/config"
	"chanmgr/internal/api"
	"chanmgr/internal/utils"
)

// FormField represents the index of each form field
const (
	FormFieldName = iota
	FormFieldToken
	FormFieldBaseURL
	FormFieldModel
	FormFieldBalanceURL
	FormFieldBalanceField
	FormFieldCount // Total number of fields
)

// FormData represents the data collected from the channel form
type FormData struct {
	Name         string
	Token        string
	BaseURL      string
	Model        string
	BalanceURL   string
	BalanceField string
}

// Validate checks what can be checked before the save; the store
// validates again.
func (f *FormData) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("渠道名称不能为空")
	}
	if strings.TrimSpace(f.Token) == "" {
		return errors.New("token 不能为空")
	}
	if strings.TrimSpace(f.BaseURL) != "" && !utils.ValidateURL(f.BaseURL) {
		return errors.New("无效的 Base URL")
	}
	if strings.TrimSpace(f.BalanceURL) != "" {
		if !utils.ValidateURL(f.BalanceURL) {
			return errors.New("无效的余额查询 URL")
		}
		if strings.TrimSpace(f.BalanceField) == "" {
			return errors.New("设置余额 URL 时必须填写余额字段")
		}
	}
	return nil
}

// Request builds the save request. oldName is the channel being edited, or
// "" for a new one.
func (f *FormData) Request(oldName string) api.SaveChannelRequest {
	return api.SaveChannelRequest{SaveRequest: config.SaveRequest{
		Name:         strings.TrimSpace(f.Name),
		Token:        strings.TrimSpace(f.Token),
		BaseURL:      strings.TrimSpace(f.BaseURL),
		Model:        strings.TrimSpace(f.Model),
		OldName:      oldName,
		BalanceURL:   strings.TrimSpace(f.BalanceURL),
		BalanceField: strings.TrimSpace(f.BalanceField),
	}}
}

// Form styles
var (
	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	formFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				Width(14)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	in.Prompt = ""
	return in
}

// FormInputs creates the channel form inputs with the first one focused
func FormInputs() []textinput.Model {
	inputs := make([]textinput.Model, FormFieldCount)

	inputs[FormFieldName] = newInput("work", 50)
	inputs[FormFieldToken] = newInput("sk-...", 512)
	inputs[FormFieldToken].EchoMode = textinput.EchoPassword
	inputs[FormFieldToken].EchoCharacter = '•'
	inputs[FormFieldBaseURL] = newInput("https://api.example.com", 256)
	inputs[FormFieldModel] = newInput("claude-sonnet-4-5", 128)
	inputs[FormFieldBalanceURL] = newInput("https://api.example.com/balance", 256)
	inputs[FormFieldBalanceField] = newInput("data.balance", 128)

	inputs[FormFieldName].Focus()
	return inputs
}

// GetFormData extracts FormData from form inputs
func GetFormData(inputs []textinput.Model) FormData {
	return FormData{
		Name:         inputs[FormFieldName].Value(),
		Token:        inputs[FormFieldToken].Value(),
		BaseURL:      inputs[FormFieldBaseURL].Value(),
		Model:        inputs[FormFieldModel].Value(),
		BalanceURL:   inputs[FormFieldBalanceURL].Value(),
		BalanceField: inputs[FormFieldBalanceField].Value(),
	}
}

// SetFormData populates form inputs with existing data
func SetFormData(inputs []textinput.Model, data FormData) {
	inputs[FormFieldName].SetValue(data.Name)
	inputs[FormFieldToken].SetValue(data.Token)
	inputs[FormFieldBaseURL].SetValue(data.BaseURL)
	inputs[FormFieldModel].SetValue(data.Model)
	inputs[FormFieldBalanceURL].SetValue(data.BalanceURL)
	inputs[FormFieldBalanceField].SetValue(data.BalanceField)
}

// FormLabels returns the labels for each form field
func FormLabels() []string {
	return []string{
		"Name:",
		"Token:",
		"Base URL:",
		"Model:",
		"Balance URL:",
		"Balance Field:",
	}
}

// FormHints returns the hint text for each form field
func FormHints() []string {
	return []string{
		"渠道的唯一名称",
		"ANTHROPIC_AUTH_TOKEN",
		"API 基础 URL (可选)",
		"覆盖默认模型 (可选)",
		"余额查询接口 (可选)",
		"响应中余额字段的路径，如 data.balance",
	}
}

// RenderForm renders the form view with inputs
func RenderForm(inputs []textinput.Model, focusIndex int, title string, errorMsg string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n\n")

	labels := FormLabels()
	hints := FormHints()

	for i, input := range inputs {
		if i == focusIndex {
			b.WriteString(formFocusedStyle.Render(labels[i]))
		} else {
			b.WriteString(formLabelStyle.Render(labels[i]))
		}
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n")

		if i == focusIndex {
			b.WriteString(formLabelStyle.Render(""))
			b.WriteString(" ")
			b.WriteString(formHintStyle.Render(hints[i]))
			b.WriteString("\n")
		}
	}

	if errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(formErrorStyle.Render("✗ " + errorMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Tab/↓: 下一项 │ Shift+Tab/↑: 上一项 │ Enter: 保存 │ Esc: 取消"))

	return b.String()
}

// NextFormField moves focus to the next form field
func NextFormField(inputs []textinput.Model, currentFocus int) int {
	inputs[currentFocus].Blur()
	nextFocus := (currentFocus + 1) % len(inputs)
	inputs[nextFocus].Focus()
	return nextFocus
}

// PrevFormField moves focus to the previous form field
func PrevFormField(inputs []textinput.Model, currentFocus int) int {
	inputs[currentFocus].Blur()
	prevFocus := currentFocus - 1
	if prevFocus < 0 {
		prevFocus = len(inputs) - 1
	}
	inputs[prevFocus].Focus()
	return prevFocus
}
