// Package host declares the capabilities a benchmark instance needs from the
// compilation host: the global standard and flags, the AST workspace, build
// configuration, process execution, read-only resources, and a working
// directory for data files.
package host

import "errors"

// ErrEmptyStack is returned by PopAST when nothing was pushed.
var ErrEmptyStack = errors.New("ast stack is empty")

// Config is the host's mutable compiler configuration.
type Config interface {
	Standard() string
	SetStandard(standard string) error
	Flags() string
	SetFlags(flags string) error
}

// File is a source or data file known to the host.
type File struct {
	// Name is the base name, e.g. "gemm.c".
	Name string
	// Path is the location on disk.
	Path string
}

// Workspace is the host AST. PushAST and PopAST must be balanced.
type Workspace interface {
	PushAST() error
	PopAST() error
	RemoveChildren() error
	AddFile(f File) error
	Rebuild() error
}

// Entry is one element of a resource folder listing.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
}

// Resources gives read-only access to a suite's resource tree. Paths are
// slash separated and relative to the tree root.
type Resources interface {
	File(rel string) (File, error)
	IsFolder(rel string) bool
	List(rel string) ([]Entry, error)
}

// WorkDir is the directory the built executable runs in. Names are relative
// to Path.
type WorkDir interface {
	Path() string
	CopyFile(src File, name string) (string, error)
	CopyFolder(srcDir, name string) (string, error)
	Delete(names ...string) error
	DeleteFolder(name string) error
	Exists(name string) bool
	List() ([]string, error)
}

// CMaker collects build settings for the external build step.
type CMaker interface {
	AddLibs(libs ...string)
	Libs() []string
}

// Executable is a built program.
type Executable interface {
	Path() string
}

// Executor runs an executable and keeps the outcome for inspection.
type Executor interface {
	Execute(path string, args ...string) error
	ExitCode() int
	Output() string
}
