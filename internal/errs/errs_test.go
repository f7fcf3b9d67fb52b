package errs

import (
	"os"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"io", IO(os.ErrPermission, "writing %s", "x"), KindIO},
		{"parse", Parse(errors.New("bad"), "decoding"), KindParse},
		{"not found without cause", NotFound(nil, "channel %q not found", "a"), KindNotFound},
		{"duplicate", Duplicate("profile %q already exists", "a"), KindDuplicateName},
		{"spawn", Spawn(errors.New("exec: not found"), "starting wt"), KindProcessSpawn},
		{"invalid", Invalid("name cannot be empty"), KindInvalidName},
		{"plain", errors.New("plain"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkSurvivesWrapping(t *testing.T) {
	err := NotFound(os.ErrNotExist, "reading settings-work.json")
	wrapped := errors.Wrap(err, "switching channel")

	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("wrapped error lost its NotFound mark: %v", wrapped)
	}
	if !errors.Is(wrapped, os.ErrNotExist) {
		t.Errorf("wrapped error lost its cause: %v", wrapped)
	}
	if !strings.Contains(wrapped.Error(), "reading settings-work.json") {
		t.Errorf("message lost context: %q", wrapped.Error())
	}
}
