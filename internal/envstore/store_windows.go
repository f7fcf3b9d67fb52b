//go:build windows

package envstore

import (
	"unsafe"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"chanmgr/config/models"
	"chanmgr/internal/errs"
)

const (
	hwndBroadcast   = 0xffff
	wmSettingChange = 0x001A
	smtoAbortIfHung = 0x0002
)

var procSendMessageTimeout = windows.NewLazySystemDLL("user32.dll").NewProc("SendMessageTimeoutW")

// userEnvStore writes HKCU\Environment and mirrors the value into the env
// file so Git Bash and WSL-style shells pick it up too.
type userEnvStore struct {
	*FileStore
}

func newDefault(dir string) Store {
	return &userEnvStore{FileStore: NewFileStore(dir)}
}

func (s *userEnvStore) Persist(r models.ActivationResult) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.SET_VALUE)
	if err != nil {
		return errs.IO(err, "failed to open user environment")
	}
	defer key.Close()

	if r.Value == "" {
		if err := key.DeleteValue(r.Variable); err != nil && err != registry.ErrNotExist {
			return errs.IO(err, "failed to remove %s", r.Variable)
		}
	} else if err := key.SetStringValue(r.Variable, r.Value); err != nil {
		return errs.IO(err, "failed to set %s", r.Variable)
	}

	broadcastEnvironmentChange()
	return s.FileStore.Persist(r)
}

// broadcastEnvironmentChange tells Explorer to reload the user environment
// so new consoles see the change.
func broadcastEnvironmentChange() {
	param, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return
	}
	var result uintptr
	ret, _, callErr := procSendMessageTimeout.Call(
		hwndBroadcast,
		wmSettingChange,
		0,
		uintptr(unsafe.Pointer(param)),
		smtoAbortIfHung,
		5000,
		uintptr(unsafe.Pointer(&result)),
	)
	if ret == 0 {
		log.Debug().Err(callErr).Msg("environment change broadcast failed")
	}
}
