//go:build !windows

package paths

// shellDesktopDir reports no shell-configured desktop; callers fall back to
// the profile lookup.
func shellDesktopDir() (string, error) {
	return "", nil
}
