// Package keystore manages the Droid CLI's named API keys in key.txt.
//
// The file holds one profile per line, "<name> <key>". The key may contain
// spaces; the name may not. Older files can carry an "[active]" suffix on a
// line, which is dropped on read and never written back.
package keystore

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"chanmgr/config/models"
	"chanmgr/config/storage"
	"chanmgr/config/validation"
	"chanmgr/internal/errs"
)

const (
	// FileName is the backing file inside the configuration directory
	FileName = "key.txt"

	// EnvVar is the variable the Droid CLI reads its key from
	EnvVar = "FACTORY_API_KEY"

	legacyActiveMarker = "[active]"
)

// Store is the key.txt backed profile store
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store for key.txt in dir
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// List returns all profiles in file order. A missing file yields an empty list.
func (s *Store) List() ([]models.KeyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the named profile
func (s *Store) Get(name string) (*models.KeyProfile, error) {
	profiles, err := s.List()
	if err != nil {
		return nil, err
	}
	if i := indexOf(profiles, name); i >= 0 {
		return &profiles[i], nil
	}
	return nil, errs.NotFound(nil, "key profile %q not found", name)
}

// Save creates or updates a profile.
//
// With an empty oldName a new profile is inserted at the head of the file;
// the name must not exist yet. With oldName set the profile is updated where
// it stands, and renamed when name differs, which must not collide with
// another profile.
func (s *Store) Save(name, key, oldName string) error {
	key = strings.TrimSpace(key)
	if err := validation.NewValidator().ValidateKeyProfile(name, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, kept, err := s.loadFile()
	if err != nil {
		return err
	}

	profile := models.KeyProfile{Name: name, APIKey: key}

	if oldName == "" {
		if indexOf(profiles, name) >= 0 {
			return errs.Duplicate("key profile %q already exists", name)
		}
		profiles = append([]models.KeyProfile{profile}, profiles...)
		return s.write(profiles, kept)
	}

	pos := indexOf(profiles, oldName)
	if pos < 0 {
		return errs.NotFound(nil, "key profile %q not found", oldName)
	}
	if name != oldName && indexOf(profiles, name) >= 0 {
		return errs.Duplicate("key profile %q already exists", name)
	}
	profiles[pos] = profile
	return s.write(profiles, kept)
}

// Delete removes the named profile. Removing a missing name succeeds.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, kept, err := s.loadFile()
	if err != nil {
		return err
	}

	pos := indexOf(profiles, name)
	if pos < 0 {
		log.Debug().Str("profile", name).Msg("key profile already absent")
		return nil
	}
	return s.write(append(profiles[:pos], profiles[pos+1:]...), kept)
}

// Activate returns the variable assignment that makes name the active key.
// It does not touch the process environment or any file.
func (s *Store) Activate(name string) (*models.ActivationResult, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	return &models.ActivationResult{
		Variable: EnvVar,
		Value:    p.APIKey,
		Profile:  p.Name,
	}, nil
}

// ActiveName returns the profile whose key equals value, or "".
func (s *Store) ActiveName(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	profiles, err := s.List()
	if err != nil {
		return "", err
	}
	for _, p := range profiles {
		if p.APIKey == value {
			return p.Name, nil
		}
	}
	return "", nil
}

func (s *Store) load() ([]models.KeyProfile, error) {
	profiles, _, err := s.loadFile()
	return profiles, err
}

// loadFile returns the profiles and the malformed lines of key.txt. Mutations
// write the malformed lines back so a rewrite never drops file content.
func (s *Store) loadFile() ([]models.KeyProfile, []string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.KeyProfile{}, nil, nil
		}
		return nil, nil, errs.IO(err, "failed to read %s", FileName)
	}
	return parse(data)
}

func (s *Store) write(profiles []models.KeyProfile, kept []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errs.IO(err, "failed to create directory for %s", FileName)
	}
	content := Format(profiles)
	for _, line := range kept {
		content = append(content, line...)
		content = append(content, '\n')
	}
	if err := storage.WriteAtomic(s.path, content, 0600); err != nil {
		return errs.IO(err, "failed to write %s", FileName)
	}
	return nil
}

// Parse reads key.txt content. Blank lines, lines without a space and lines
// with an empty key are not profiles and are skipped.
func Parse(data []byte) ([]models.KeyProfile, error) {
	profiles, _, err := parse(data)
	return profiles, err
}

func parse(data []byte) ([]models.KeyProfile, []string, error) {
	profiles := []models.KeyProfile{}
	var malformed []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	// no line can outgrow the whole file
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimSpace(strings.TrimSuffix(line, legacyActiveMarker))
		if line == "" {
			continue
		}

		name, key, ok := strings.Cut(line, " ")
		key = strings.TrimSpace(key)
		if !ok || name == "" || key == "" {
			log.Debug().Str("line", name).Msg("skipping malformed key.txt line")
			malformed = append(malformed, line)
			continue
		}
		profiles = append(profiles, models.KeyProfile{Name: name, APIKey: key})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errs.Parse(err, "failed to parse %s", FileName)
	}

	return profiles, malformed, nil
}

// Format renders profiles as key.txt content
func Format(profiles []models.KeyProfile) []byte {
	var buf bytes.Buffer
	for _, p := range profiles {
		buf.WriteString(p.Name)
		buf.WriteByte(' ')
		buf.WriteString(p.APIKey)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func indexOf(profiles []models.KeyProfile, name string) int {
	for i, p := range profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}
