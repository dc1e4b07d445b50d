//go:build windows

// Shell-automation persistence through the WScript.Shell COM object, the same
// facility Windows Script Host and installers use to create .lnk files.

package shortcut

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"tools.zach/dev/deskshortcut/internal/config"
	"tools.zach/dev/deskshortcut/internal/lnk"
)

// sFalse is the HRESULT CoInitializeEx returns when COM is already
// initialized on the thread. It still needs a matching CoUninitialize.
const sFalse = 0x00000001

// ShellSaver persists shortcuts with WScript.Shell's CreateShortcut.
type ShellSaver struct{}

// Name returns "shell".
func (ShellSaver) Name() string { return config.BackendShell }

// Save creates or replaces the shortcut at path via WScript.Shell.
func (ShellSaver) Save(path string, s lnk.Shortcut) error {
	// COM apartments are per OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED|ole.COINIT_SPEED_OVER_MEMORY); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return fmt.Errorf("%w: CoInitializeEx: %v", ErrShellUnavailable, err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return fmt.Errorf("%w: CreateObject: %v", ErrShellUnavailable, err)
	}
	defer unknown.Release()

	wshell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("%w: QueryInterface: %v", ErrShellUnavailable, err)
	}
	defer wshell.Release()

	cs, err := oleutil.CallMethod(wshell, "CreateShortcut", path)
	if err != nil {
		return fmt.Errorf("CreateShortcut: %w", err)
	}
	defer cs.Clear()
	link := cs.ToIDispatch()

	if _, err := oleutil.PutProperty(link, "TargetPath", s.TargetPath); err != nil {
		return fmt.Errorf("set TargetPath: %w", err)
	}
	if s.WorkingDir != "" {
		if _, err := oleutil.PutProperty(link, "WorkingDirectory", s.WorkingDir); err != nil {
			return fmt.Errorf("set WorkingDirectory: %w", err)
		}
	}
	if _, err := oleutil.CallMethod(link, "Save"); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}
