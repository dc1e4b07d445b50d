package paths

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrEmptyDir is returned when a directory lookup succeeds but yields no path.
var ErrEmptyDir = errors.New("directory path is empty")

// oneDriveDesktopGlob matches desktops redirected by OneDrive folder backup,
// e.g. "OneDrive/Desktop" or "OneDrive - Contoso/Desktop".
const oneDriveDesktopGlob = "OneDrive*/" + DesktopDirName

// ResolveError reports that the profile or desktop directory could not be
// determined.
type ResolveError struct {
	// Dir names the directory that failed: "profile" or "desktop".
	Dir string
	// Err is the underlying cause.
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s directory: %v", e.Dir, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// ///////////////////////////////////////////////
// Profile
// ///////////////////////////////////////////////

// ProfileDir returns the current user's profile directory (%USERPROFILE% on
// Windows, $HOME elsewhere).
func ProfileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &ResolveError{Dir: "profile", Err: err}
	}
	if home == "" {
		return "", &ResolveError{Dir: "profile", Err: ErrEmptyDir}
	}
	return home, nil
}

// ///////////////////////////////////////////////
// Desktop
// ///////////////////////////////////////////////

// DesktopDir returns the current user's desktop directory. The shell's
// configured location wins when the platform has one; otherwise the desktop
// is looked up under profile.
func DesktopDir(profile string) (string, error) {
	dir, err := shellDesktopDir()
	if err != nil {
		slog.Debug("shell desktop folder unavailable, using profile", "error", err)
	}
	if dir != "" {
		return dir, nil
	}
	return profileDesktopDir(profile)
}

// profileDesktopDir returns <profile>/Desktop when it exists, then the first
// OneDrive-redirected desktop, and finally <profile>/Desktop regardless so the
// caller's save reports the real error.
func profileDesktopDir(profile string) (string, error) {
	if profile == "" {
		return "", &ResolveError{Dir: "desktop", Err: ErrEmptyDir}
	}
	primary := filepath.Join(profile, DesktopDirName)
	if isDir(primary) {
		return primary, nil
	}

	matches, err := doublestar.Glob(os.DirFS(profile), oneDriveDesktopGlob)
	if err != nil {
		slog.Debug("desktop glob failed", "pattern", oneDriveDesktopGlob, "error", err)
		return primary, nil
	}
	sort.Strings(matches)
	for _, m := range matches {
		candidate := filepath.Join(profile, filepath.FromSlash(m))
		if isDir(candidate) {
			return candidate, nil
		}
	}
	return primary, nil
}

// isDir reports whether path exists and is a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
