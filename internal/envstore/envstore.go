// Package envstore persists activation variables so that shells started
// later see them.
package envstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"chanmgr/config/models"
	"chanmgr/config/storage"
	"chanmgr/internal/errs"
)

// FileName is the env file kept under the application config directory
const FileName = "active.env"

// Store applies an ActivationResult persistently
type Store interface {
	Persist(r models.ActivationResult) error
	Load() (map[string]string, error)
	Path() string
}

// FileStore keeps variables in a dotenv file that the shell integration
// evaluates at startup.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore for dir/active.env
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, FileName)}
}

// New returns the store for the running platform
func New(dir string) Store {
	return newDefault(dir)
}

func (s *FileStore) Path() string { return s.path }

// Load returns the persisted variables. A missing file is an empty set.
func (s *FileStore) Load() (map[string]string, error) {
	vars, err := godotenv.Read(s.path)
	if err != nil {
		if errs.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errs.Parse(err, "failed to read %s", s.path)
	}
	return vars, nil
}

// Persist sets r.Variable in the file, keeping other variables. An empty
// value removes the variable.
func (s *FileStore) Persist(r models.ActivationResult) error {
	if strings.TrimSpace(r.Variable) == "" {
		return errs.Invalid("activation variable cannot be empty")
	}

	vars, err := s.Load()
	if err != nil {
		return err
	}
	if r.Value == "" {
		delete(vars, r.Variable)
	} else {
		vars[r.Variable] = r.Value
	}

	content, err := godotenv.Marshal(vars)
	if err != nil {
		return errs.IO(err, "failed to encode %s", s.path)
	}
	if content != "" {
		content += "\n"
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errs.IO(err, "failed to create %s", filepath.Dir(s.path))
	}
	if err := storage.WriteAtomic(s.path, []byte(content), 0600); err != nil {
		return errs.IO(err, "failed to write %s", s.path)
	}
	return nil
}
