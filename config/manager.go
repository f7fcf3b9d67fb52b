package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"chanmgr/config/models"
	"chanmgr/config/storage"
	syncpkg "chanmgr/config/sync"
	"chanmgr/config/validation"
	"chanmgr/internal/errs"
)

// File layout inside the configuration directory
const (
	ActiveFileName = "settings.json"

	channelPrefix = "settings-"
	channelSuffix = ".json"
	deletedSuffix = ".del"
	lockSuffix    = ".lock"

	channelFileMode os.FileMode = 0600
)

// SaveRequest carries the fields of a channel save. OldName is set when an
// existing channel is being edited and possibly renamed.
type SaveRequest struct {
	Name          string
	Token         string
	BaseURL       string
	Model         string
	OldName       string
	BalanceURL    string
	BalanceMethod string
	BalanceField  string
}

// Manager manages the channel files of one configuration directory
type Manager struct {
	dir     string
	backups *storage.Rotation
	mu      sync.Mutex // serializes writers within this process
}

// NewManager creates a Manager for dir. The directory does not need to exist.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:     dir,
		backups: storage.NewRotation(storage.DefaultBackupRetention),
	}
}

// Dir returns the configuration directory
func (m *Manager) Dir() string {
	return m.dir
}

// ActivePath returns the path of the active settings document
func (m *Manager) ActivePath() string {
	return filepath.Join(m.dir, ActiveFileName)
}

// ChannelPath returns the backing file of the named channel
func (m *Manager) ChannelPath(name string) string {
	return filepath.Join(m.dir, channelPrefix+name+channelSuffix)
}

// channelName extracts <name> from settings-<name>.json
func channelName(fileName string) (string, bool) {
	if !strings.HasPrefix(fileName, channelPrefix) || !strings.HasSuffix(fileName, channelSuffix) {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(fileName, channelPrefix), channelSuffix)
	return name, name != ""
}

// checkName rejects names that would address a file outside the directory
func checkName(name string) error {
	if name == "" {
		return errs.Invalid("channel name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errs.Invalid("channel name %q contains a path separator", name)
	}
	return nil
}

// List returns every readable channel in the directory keyed by name. Files
// that cannot be read or parsed are skipped. A missing directory yields an
// empty map.
func (m *Manager) List() (map[string]models.Channel, error) {
	channels := make(map[string]models.Channel)

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return channels, nil
		}
		return nil, errs.IO(err, "failed to read config directory %s", m.dir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := channelName(entry.Name())
		if !ok {
			continue
		}

		c, err := m.readChannel(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			log.Debug().Err(err).Str("channel", name).Msg("skipping unreadable channel")
			continue
		}
		channels[name] = *c
	}

	return channels, nil
}

// Get returns the named channel
func (m *Manager) Get(name string) (*models.Channel, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return m.readChannel(m.ChannelPath(name))
}

// Exists reports whether a backing file for name exists
func (m *Manager) Exists(name string) bool {
	if checkName(name) != nil {
		return false
	}
	return storage.Exists(m.ChannelPath(name))
}

// GetActive parses the active settings document as a channel
func (m *Manager) GetActive() (*models.Channel, error) {
	return m.readChannel(m.ActivePath())
}

func (m *Manager) readChannel(path string) (*models.Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NotFound(err, "%s not found", filepath.Base(path))
		}
		return nil, errs.IO(err, "failed to read %s", filepath.Base(path))
	}

	c, err := models.Decode(data)
	if err != nil {
		return nil, errs.Parse(err, "failed to parse %s", filepath.Base(path))
	}

	if info, err := os.Stat(path); err == nil {
		mtime := info.ModTime().UnixMilli()
		c.Mtime = &mtime
	}
	return &c, nil
}

// Save writes the channel described by req to settings-<name>.json. When
// req.OldName names a different channel its file is removed afterwards on a
// best-effort basis. No duplicate check is done here.
func (m *Manager) Save(req SaveRequest) (*models.Channel, error) {
	validator := validation.NewValidator()
	if err := validator.ValidateChannel(validation.ChannelInput{
		Name:          req.Name,
		Token:         req.Token,
		BaseURL:       req.BaseURL,
		Model:         req.Model,
		BalanceURL:    req.BalanceURL,
		BalanceMethod: req.BalanceMethod,
		BalanceField:  req.BalanceField,
	}); err != nil {
		return nil, err
	}
	if req.OldName != "" {
		if err := checkName(req.OldName); err != nil {
			return nil, err
		}
	}

	channel := models.NewChannel(
		strings.TrimSpace(req.Token),
		strings.TrimSpace(req.BaseURL),
		strings.TrimSpace(req.Model),
		models.NewBalanceAPI(req.BalanceURL, req.BalanceMethod, req.BalanceField),
	)

	data, err := models.Encode(channel)
	if err != nil {
		return nil, errs.Parse(err, "failed to encode channel %q", req.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, errs.IO(err, "failed to create config directory %s", m.dir)
	}
	if err := storage.WriteAtomic(m.ChannelPath(req.Name), data, channelFileMode); err != nil {
		return nil, errs.IO(err, "failed to write channel %q", req.Name)
	}

	if req.OldName != "" && req.OldName != req.Name {
		if err := os.Remove(m.ChannelPath(req.OldName)); err != nil {
			log.Debug().Err(err).Str("channel", req.OldName).Msg("failed to remove renamed channel file")
		}
	}

	return &channel, nil
}

// Delete soft-deletes a channel by renaming settings-<name>.json to
// settings-<name>.json.del.
func (m *Manager) Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.ChannelPath(name)
	dst := src + deletedSuffix

	if _, err := os.Stat(src); err != nil {
		return errs.IO(err, "cannot delete channel %q", name)
	}
	// os.Rename replaces an existing target on POSIX
	if _, err := os.Stat(dst); err == nil {
		return errs.IO(os.ErrExist, "cannot delete channel %q: %s already exists", name, filepath.Base(dst))
	}
	if err := os.Rename(src, dst); err != nil {
		return errs.IO(err, "failed to delete channel %q", name)
	}
	return nil
}

// Switch activates a channel by merging it into the active settings
// document. Only env and balanceApi are taken from the channel; permissions
// and alwaysThinkingEnabled are added when missing and every other key is
// left as it was. The previous document is backed up first.
func (m *Manager) Switch(name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	unlock, err := m.lockActive()
	if err != nil {
		return err
	}
	defer unlock()

	raw, err := os.ReadFile(m.ChannelPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return errs.NotFound(err, "channel %q not found", name)
		}
		return errs.IO(err, "failed to read channel %q", name)
	}
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return errs.Parse(nil, "channel %q is not a valid JSON object", name)
	}

	activePath := m.ActivePath()
	active := ""
	if data, err := os.ReadFile(activePath); err == nil {
		active = string(data)
	} else if !os.IsNotExist(err) {
		return errs.IO(err, "failed to read %s", ActiveFileName)
	}

	if active != "" && !gjson.Valid(active) {
		log.Warn().Str("path", activePath).Msg("active settings are not valid JSON, starting from an empty document")
	}

	merged, err := syncpkg.MergeActive(active, string(raw))
	if err != nil {
		return errs.Parse(err, "failed to merge channel %q", name)
	}

	if err := m.backups.Replace(activePath, []byte(merged), storage.ModeOf(activePath, channelFileMode)); err != nil {
		return errs.IO(err, "failed to write %s", ActiveFileName)
	}

	log.Debug().Str("channel", name).Str("path", activePath).Msg("channel activated")
	return nil
}

// Restore replaces the active settings document with its most recent backup
// and returns the backup path used.
func (m *Manager) Restore() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	unlock, err := m.lockActive()
	if err != nil {
		return "", err
	}
	defer unlock()

	backup, err := m.backups.Restore(m.ActivePath())
	if err != nil {
		if errs.IsNotExist(err) {
			return "", errs.NotFound(err, "no backup of %s", ActiveFileName)
		}
		return "", errs.IO(err, "failed to restore %s", ActiveFileName)
	}
	return backup, nil
}

// lockActive takes the advisory lock guarding the active settings document
func (m *Manager) lockActive() (func(), error) {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, errs.IO(err, "failed to create config directory %s", m.dir)
	}

	f, err := acquireLock(m.ActivePath() + lockSuffix)
	if err != nil {
		return nil, errs.IO(err, "failed to lock %s", ActiveFileName)
	}

	return func() {
		if err := releaseLock(f); err != nil {
			log.Warn().Err(err).Msg("failed to unlock settings lock file")
		}
	}, nil
}
