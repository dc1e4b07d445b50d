package shortcut

import (
	"log/slog"
	"os"

	"tools.zach/dev/deskshortcut/internal/atomicfile"
	"tools.zach/dev/deskshortcut/internal/config"
	"tools.zach/dev/deskshortcut/internal/lnk"
	"tools.zach/dev/deskshortcut/internal/logger"
)

// defaultPerm is the mode given to shortcut files by [NativeSaver].
const defaultPerm os.FileMode = 0o644

// NativeSaver encodes the Shell Link format itself and replaces the
// destination atomically. It works on every platform.
type NativeSaver struct {
	// Perm is the file mode for the shortcut; zero means 0o644.
	Perm os.FileMode
}

// Name returns "native".
func (NativeSaver) Name() string { return config.BackendNative }

// Save encodes s and writes it to path.
func (n NativeSaver) Save(path string, s lnk.Shortcut) error {
	data, err := lnk.Encode(s)
	if err != nil {
		return err
	}
	logger.Trace(slog.Default(), "encoded shell link", "bytes", len(data))

	perm := n.Perm
	if perm == 0 {
		perm = defaultPerm
	}
	return atomicfile.Write(path, data, perm)
}
