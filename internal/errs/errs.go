// Package errs defines the error kinds reported by chanmgr operations.
//
// Every store and launcher failure is marked with one of the sentinel
// errors below so the caller can categorize it without string matching:
//
//	if errors.Is(err, errs.ErrNotFound) { ... }
//	kind := errs.KindOf(err) // "NotFound"
package errs

import (
	"os"

	"github.com/cockroachdb/errors"
)

// Kind is the category name carried in API responses.
type Kind string

const (
	KindIO            Kind = "IoError"
	KindParse         Kind = "ParseError"
	KindDuplicateName Kind = "DuplicateName"
	KindNotFound      Kind = "NotFound"
	KindProcessSpawn  Kind = "ProcessSpawnError"
	KindInvalidName   Kind = "InvalidName"
	KindUnknown       Kind = "Unknown"
)

// Sentinel errors used as marks.
var (
	// ErrIO indicates a file was missing, unwritable, or could not be renamed.
	ErrIO = errors.New("io error")

	// ErrParse indicates a malformed JSON payload.
	ErrParse = errors.New("parse error")

	// ErrDuplicateName indicates the requested name is already taken.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrNotFound indicates the target of a read, rename, or edit is missing.
	ErrNotFound = errors.New("not found")

	// ErrProcessSpawn indicates a terminal or shell could not be started.
	ErrProcessSpawn = errors.New("process spawn failed")

	// ErrInvalidName indicates a name or input failed validation.
	ErrInvalidName = errors.New("invalid name")
)

var kinds = []struct {
	sentinel error
	kind     Kind
}{
	{ErrDuplicateName, KindDuplicateName},
	{ErrNotFound, KindNotFound},
	{ErrInvalidName, KindInvalidName},
	{ErrParse, KindParse},
	{ErrProcessSpawn, KindProcessSpawn},
	{ErrIO, KindIO},
}

// IO wraps err as an IoError with a formatted context message.
func IO(err error, format string, args ...interface{}) error {
	return mark(err, ErrIO, format, args...)
}

// Parse wraps err as a ParseError.
func Parse(err error, format string, args ...interface{}) error {
	return mark(err, ErrParse, format, args...)
}

// NotFound wraps err as a NotFound error. err may be nil.
func NotFound(err error, format string, args ...interface{}) error {
	return mark(err, ErrNotFound, format, args...)
}

// Duplicate returns a DuplicateName error for name.
func Duplicate(format string, args ...interface{}) error {
	return mark(nil, ErrDuplicateName, format, args...)
}

// Spawn wraps err as a ProcessSpawnError.
func Spawn(err error, format string, args ...interface{}) error {
	return mark(err, ErrProcessSpawn, format, args...)
}

// Invalid returns an InvalidName error.
func Invalid(format string, args ...interface{}) error {
	return mark(nil, ErrInvalidName, format, args...)
}

func mark(err error, sentinel error, format string, args ...interface{}) error {
	if err == nil {
		return errors.Mark(errors.Newf(format, args...), sentinel)
	}
	return errors.Mark(errors.Wrapf(err, format, args...), sentinel)
}

// KindOf returns the kind of err, or KindUnknown when it carries no mark.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindUnknown
}

// IsNotExist reports whether err wraps os.ErrNotExist
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
