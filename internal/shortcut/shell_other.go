//go:build !windows

package shortcut

import (
	"tools.zach/dev/deskshortcut/internal/config"
	"tools.zach/dev/deskshortcut/internal/lnk"
)

// ShellSaver is the WScript.Shell backend. Outside Windows it always fails
// with [ErrShellUnavailable].
type ShellSaver struct{}

// Name returns "shell".
func (ShellSaver) Name() string { return config.BackendShell }

// Save reports that no shell facility exists on this platform.
func (ShellSaver) Save(string, lnk.Shortcut) error {
	return ErrShellUnavailable
}
