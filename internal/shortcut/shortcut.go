// Package shortcut creates the application's desktop shortcut.
//
// [Create] derives the shortcut descriptor from a [paths.Layout] and hands it
// to a [Saver]. Two savers exist: [NativeSaver] writes the Shell Link format
// directly on any platform; [ShellSaver] drives the Windows WScript.Shell
// automation object. The target executable is never checked for existence.
package shortcut

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"tools.zach/dev/deskshortcut/internal/config"
	"tools.zach/dev/deskshortcut/internal/lnk"
	"tools.zach/dev/deskshortcut/internal/paths"
)

// ErrShellUnavailable is returned when the shell automation facility cannot
// be reached, including on platforms that do not have one.
var ErrShellUnavailable = errors.New("shell shortcut facility unavailable")

// ///////////////////////////////////////////////
// Saver
// ///////////////////////////////////////////////

// Saver persists a shortcut descriptor at path, creating or replacing the file.
type Saver interface {
	// Name identifies the backend in logs and config.
	Name() string
	// Save writes s to path.
	Save(path string, s lnk.Shortcut) error
}

// NewSaver returns the Saver for a configured backend name. "auto" picks the
// shell on Windows and the native writer elsewhere.
func NewSaver(backend string) (Saver, error) {
	switch backend {
	case config.BackendAuto:
		if runtime.GOOS == "windows" {
			return ShellSaver{}, nil
		}
		return NativeSaver{}, nil
	case config.BackendNative:
		return NativeSaver{}, nil
	case config.BackendShell:
		return ShellSaver{}, nil
	default:
		return nil, fmt.Errorf("unknown shortcut backend %q", backend)
	}
}

// ///////////////////////////////////////////////
// Errors
// ///////////////////////////////////////////////

// SaveError reports that the shortcut could not be persisted.
type SaveError struct {
	// Path is the shortcut destination.
	Path string
	// Backend is the [Saver.Name] that failed.
	Backend string
	// Err is the underlying cause.
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save shortcut %s (%s): %v", e.Path, e.Backend, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// ///////////////////////////////////////////////
// Create
// ///////////////////////////////////////////////

// Result describes a shortcut that was written.
type Result struct {
	// Path is where the shortcut file was written.
	Path string
	// Shortcut holds the target and working directory written.
	Shortcut lnk.Shortcut
	// Backend is the [Saver.Name] that wrote it.
	Backend string
}

// Create writes the desktop shortcut described by l, replacing any existing
// file at the same path. Either the whole file is written or the error is a
// *[SaveError] and nothing was changed.
func Create(l paths.Layout, saver Saver) (Result, error) {
	dest := l.Shortcut()
	s := lnk.Shortcut{
		TargetPath: l.Target(),
		WorkingDir: l.WorkingDir(),
	}

	slog.Debug("creating shortcut",
		"path", dest,
		"target", s.TargetPath,
		"working_dir", s.WorkingDir,
		"backend", saver.Name(),
	)

	start := time.Now()
	if err := saver.Save(dest, s); err != nil {
		return Result{}, &SaveError{Path: dest, Backend: saver.Name(), Err: err}
	}
	slog.Debug("shortcut saved", "path", dest, "elapsed", time.Since(start))

	return Result{Path: dest, Shortcut: s, Backend: saver.Name()}, nil
}
