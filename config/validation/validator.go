package validation

import (
	"strings"
	"unicode"

	"chanmgr/internal/errs"
)

// ChannelInput is the user-supplied part of a channel save
type ChannelInput struct {
	Name          string
	Token         string
	BaseURL       string
	Model         string
	BalanceURL    string
	BalanceMethod string
	BalanceField  string
}

// Validator validates channel and key profile input
type Validator struct {
	input *InputValidator
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{input: NewInputValidator()}
}

// ValidateChannel validates the fields of a channel save
func (v *Validator) ValidateChannel(in ChannelInput) error {
	if err := v.input.ValidateChannelName(in.Name); err != nil {
		return err
	}

	if strings.TrimSpace(in.Token) == "" {
		return errs.Invalid("auth token cannot be empty")
	}

	if err := v.input.ValidateURL(in.BaseURL); err != nil {
		return err
	}

	if err := v.ValidateModel(in.Model); err != nil {
		return err
	}

	if in.BalanceURL != "" {
		if err := v.input.ValidateURL(in.BalanceURL); err != nil {
			return err
		}
		switch strings.ToUpper(in.BalanceMethod) {
		case "", "GET", "POST":
		default:
			return errs.Invalid("unsupported balance method %q (use GET or POST)", in.BalanceMethod)
		}
	}

	return nil
}

// maxModelLength bounds the model override
const maxModelLength = 128

// ValidateModel checks an optional model override. Blank means none.
func (v *Validator) ValidateModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil
	}
	if strings.ContainsFunc(model, unicode.IsSpace) {
		return errs.Invalid("model %q cannot contain whitespace", model)
	}
	if len(model) > maxModelLength {
		return errs.Invalid("model name too long (max %d characters)", maxModelLength)
	}
	return nil
}

// ValidateKeyProfile validates a key profile save
func (v *Validator) ValidateKeyProfile(name, key string) error {
	if err := v.input.ValidateKeyName(name); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errs.Invalid("API key cannot be empty")
	}
	if strings.ContainsAny(key, "\r\n") {
		return errs.Invalid("API key cannot contain line breaks")
	}
	return nil
}
