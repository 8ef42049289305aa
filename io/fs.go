package io

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files and directories.
// Snapshots are marshaled through it.
type CreateFS interface {
	// Sub returns a filesystem for a subdirectory.
	Sub(name string) (sub CreateFS, err error)
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
	// Mkdir creates a new directory with the specified permissions.
	Mkdir(name string, filemode fs.FileMode) (err error)
}

// SubOrMkdir returns the named subdirectory, creating it if needed.
func SubOrMkdir(filesys CreateFS, name string) (sub CreateFS, err error) {
	sub, err = filesys.Sub(name)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return
	}

	err = filesys.Mkdir(name, 0755)
	if err != nil {
		return
	}

	return filesys.Sub(name)
}

// DirFS is a CreateFS rooted at a host directory.
type DirFS string

var _ CreateFS = DirFS("")

func (dir DirFS) path(name string) string {
	return filepath.Join(string(dir), filepath.FromSlash(name))
}

func (dir DirFS) Sub(name string) (sub CreateFS, err error) {
	path := dir.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = &fs.PathError{Op: "sub", Path: path, Err: fs.ErrInvalid}
		return
	}

	sub = DirFS(path)
	return
}

func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	return os.Create(dir.path(name))
}

func (dir DirFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	return os.Mkdir(dir.path(name), filemode)
}
