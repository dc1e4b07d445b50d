//go:build windows

// Desktop lookup via the per-user shell folder registry key.
//
// Explorer records the desktop location (including OneDrive or GPO
// redirection) under HKCU "User Shell Folders", usually as a REG_EXPAND_SZ
// such as "%USERPROFILE%\Desktop".

package paths

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const userShellFolders = `Software\Microsoft\Windows\CurrentVersion\Explorer\User Shell Folders`

// shellDesktopDir reads and expands the Desktop value from User Shell Folders.
func shellDesktopDir() (string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, userShellFolders, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("open user shell folders: %w", err)
	}
	defer k.Close()

	v, valType, err := k.GetStringValue(DesktopDirName)
	if err != nil {
		return "", fmt.Errorf("read desktop shell folder: %w", err)
	}
	if valType == registry.EXPAND_SZ {
		if v, err = registry.ExpandString(v); err != nil {
			return "", fmt.Errorf("expand desktop shell folder: %w", err)
		}
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ErrEmptyDir
	}
	return v, nil
}
