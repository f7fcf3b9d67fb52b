package sync

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Keys owned by activation. Everything else in the active document belongs
// to Claude Code or the user and is carried over untouched.
const (
	keyEnv         = "env"
	keyBalanceAPI  = "balanceApi"
	keyPermissions = "permissions"
	keyThinking    = "alwaysThinkingEnabled"
)

const defaultPermissions = `{"allow":[],"deny":[]}`

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: false}

// MergeActive merges a channel document into the active settings document.
//
// env is replaced with the channel's env, balanceApi is copied from the
// channel or removed when the channel has none, and permissions and
// alwaysThinkingEnabled are added with defaults only when missing. All other
// keys keep their position and raw value. An active document that is empty,
// malformed, or not an object is treated as {}.
func MergeActive(active, channel string) (string, error) {
	if !gjson.Valid(channel) || !gjson.Parse(channel).IsObject() {
		return "", fmt.Errorf("channel document is not a JSON object")
	}
	if strings.TrimSpace(active) == "" || !gjson.Valid(active) || !gjson.Parse(active).IsObject() {
		active = "{}"
	}

	src := gjson.Parse(channel)
	merged := active

	env := "{}"
	if e := src.Get(keyEnv); e.IsObject() {
		env = e.Raw
	}
	var err error
	merged, err = sjson.SetRaw(merged, keyEnv, env)
	if err != nil {
		return "", fmt.Errorf("failed to update env field: %w", err)
	}

	if b := src.Get(keyBalanceAPI); b.Exists() && b.Type != gjson.Null {
		merged, err = sjson.SetRaw(merged, keyBalanceAPI, b.Raw)
	} else {
		merged, err = sjson.Delete(merged, keyBalanceAPI)
	}
	if err != nil {
		return "", fmt.Errorf("failed to update balanceApi field: %w", err)
	}

	if !gjson.Get(merged, keyPermissions).Exists() {
		merged, err = sjson.SetRaw(merged, keyPermissions, defaultPermissions)
		if err != nil {
			return "", fmt.Errorf("failed to add permissions field: %w", err)
		}
	}
	if !gjson.Get(merged, keyThinking).Exists() {
		merged, err = sjson.Set(merged, keyThinking, true)
		if err != nil {
			return "", fmt.Errorf("failed to add alwaysThinkingEnabled field: %w", err)
		}
	}

	if err := validateMerge(active, merged); err != nil {
		return "", fmt.Errorf("merge validation failed: %w", err)
	}

	return string(pretty.PrettyOptions([]byte(merged), prettyOptions)), nil
}

// validateMerge checks that every key activation does not own survived the
// merge with an identical raw value, and that no foreign key appeared.
func validateMerge(original, merged string) error {
	if !gjson.Valid(merged) {
		return fmt.Errorf("merged JSON is invalid")
	}

	var differences []string
	after := gjson.Parse(merged)

	gjson.Parse(original).ForEach(func(key, value gjson.Result) bool {
		if isOwnedKey(key.String()) {
			return true
		}
		got := after.Get(gjson.Escape(key.String()))
		if !got.Exists() {
			differences = append(differences, key.String()+" (missing)")
		} else if got.Raw != value.Raw {
			differences = append(differences, key.String())
		}
		return true
	})

	before := gjson.Parse(original)
	after.ForEach(func(key, _ gjson.Result) bool {
		if isOwnedKey(key.String()) {
			return true
		}
		if !before.Get(gjson.Escape(key.String())).Exists() {
			differences = append(differences, key.String()+" (new)")
		}
		return true
	})

	if len(differences) > 0 {
		return fmt.Errorf("unexpected changes to unmanaged fields: %s", strings.Join(differences, ", "))
	}
	return nil
}

func isOwnedKey(key string) bool {
	switch key {
	case keyEnv, keyBalanceAPI, keyPermissions, keyThinking:
		return true
	}
	return false
}
