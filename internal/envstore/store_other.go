//go:build !windows

package envstore

func newDefault(dir string) Store {
	return NewFileStore(dir)
}
