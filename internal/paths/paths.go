// Package paths centralizes the names and per-user locations the shortcut tool
// works with. Product, install, and shortcut names are defined here as the
// single source of truth; the config package may override the first three.
package paths

import "path/filepath"

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

// Installed application names.
const (
	ProductName   = "School Comms Aggregator"
	InstallDirRel = "school-comms-aggregator" // relative to the profile dir
	BuildDirRel   = "dist"                    // relative to the install dir
)

// Platform file extensions and folder names.
const (
	ShortcutExt    = ".lnk"
	ExeExt         = ".exe"
	DesktopDirName = "Desktop"
)

// Tool data directory file names.
const (
	DataDirRel = ".school-comms-aggregator" // relative to the profile dir
	ConfigFile = "shortcut.toml"
	LogFile    = "shortcut.log"
)

// ///////////////////////////////////////////////
// DataDir
// ///////////////////////////////////////////////

// DataDir provides path construction methods rooted at the tool's data directory.
type DataDir struct {
	Root string
}

// DataDirFor returns the data directory under the given profile directory.
func DataDirFor(profile string) DataDir {
	return DataDir{Root: filepath.Join(profile, DataDirRel)}
}

// Config returns the full path to the config file.
func (d DataDir) Config() string { return filepath.Join(d.Root, ConfigFile) }

// Log returns the full path to the default log file.
func (d DataDir) Log() string { return filepath.Join(d.Root, LogFile) }

// ///////////////////////////////////////////////
// Layout
// ///////////////////////////////////////////////

// Layout derives the shortcut location, target executable, and working
// directory from the resolved profile and desktop directories.
type Layout struct {
	// Profile is the current user's profile directory.
	Profile string
	// Desktop is the current user's desktop directory.
	Desktop string
	// Product is the display name used for both the shortcut and the executable.
	Product string
	// InstallDir is the install directory relative to Profile.
	InstallDir string
	// BuildDir is the build output directory relative to InstallDir.
	BuildDir string
}

// NewLayout returns a Layout for profile and desktop using the built-in
// product and install names.
func NewLayout(profile, desktop string) Layout {
	return Layout{
		Profile:    profile,
		Desktop:    desktop,
		Product:    ProductName,
		InstallDir: InstallDirRel,
		BuildDir:   BuildDirRel,
	}
}

// Shortcut returns the full path of the shortcut file on the desktop.
func (l Layout) Shortcut() string {
	return filepath.Join(l.Desktop, l.Product+ShortcutExt)
}

// WorkingDir returns the install directory, used as the shortcut's working directory.
func (l Layout) WorkingDir() string {
	return filepath.Join(l.Profile, l.InstallDir)
}

// Target returns the full path of the executable the shortcut launches.
func (l Layout) Target() string {
	return filepath.Join(l.WorkingDir(), l.BuildDir, l.Product+ExeExt)
}
