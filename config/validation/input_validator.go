package validation

import (
	"strings"
	"unicode"

	"chanmgr/internal/errs"
	"chanmgr/internal/utils"
)

// MaxNameLength is the longest accepted channel or key profile name
const MaxNameLength = 50

// InputValidator validates user input
type InputValidator struct {
}

// NewInputValidator creates a new InputValidator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateChannelName checks that name can be used as <name> in settings-<name>.json
func (iv *InputValidator) ValidateChannelName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.Invalid("channel name cannot be empty")
	}
	if len([]rune(name)) > MaxNameLength {
		return errs.Invalid("channel name is too long (max %d characters)", MaxNameLength)
	}
	if strings.ContainsAny(name, `<>:"/\|?*`) || strings.ContainsFunc(name, unicode.IsControl) {
		return errs.Invalid("channel name %q contains invalid characters", name)
	}
	if name == "." || name == ".." || strings.HasSuffix(name, ".") {
		return errs.Invalid("channel name %q cannot end with a dot", name)
	}
	return nil
}

// ValidateKeyName checks a key profile name. key.txt separates name and key
// with the first space, so names cannot contain whitespace.
func (iv *InputValidator) ValidateKeyName(name string) error {
	if name == "" {
		return errs.Invalid("profile name cannot be empty")
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return errs.Invalid("profile name %q cannot contain whitespace", name)
	}
	if len([]rune(name)) > MaxNameLength {
		return errs.Invalid("profile name is too long (max %d characters)", MaxNameLength)
	}
	return nil
}

// ValidateURL checks an optional URL
func (iv *InputValidator) ValidateURL(url string) error {
	if url != "" && !utils.ValidateURL(url) {
		return errs.Invalid("invalid URL format: %s", url)
	}
	return nil
}
