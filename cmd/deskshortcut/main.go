// Package main implements deskshortcut, which places a shortcut to the School
// Comms Aggregator executable on the current user's desktop.
//
// The command takes no arguments. Names, backend and logging can be adjusted
// in the optional shortcut.toml under the user's data directory.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"tools.zach/dev/deskshortcut/internal/config"
	"tools.zach/dev/deskshortcut/internal/logger"
	"tools.zach/dev/deskshortcut/internal/paths"
	"tools.zach/dev/deskshortcut/internal/shortcut"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/deskshortcut
//
// Without ldflags, resolveVersion falls back to the VCS info embedded by the
// Go toolchain.
var version = "dev"

// resolveVersion returns the build version string. If [version] was set via
// ldflags it is returned as-is; otherwise a "dev+<hash>" tag is built from the
// embedded VCS revision and dirty state.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// Environment
// ///////////////////////////////////////////////

// successMessage is the single line printed on stdout after a save.
const successMessage = "Shortcut created successfully!"

// env is everything run takes from the process.
type env struct {
	stdout     io.Writer
	stderr     io.Writer
	profileDir func() (string, error)
	desktopDir func(profile string) (string, error)
}

// processEnv returns the real process environment.
func processEnv() env {
	return env{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		profileDir: paths.ProfileDir,
		desktopDir: paths.DesktopDir,
	}
}

// ///////////////////////////////////////////////
// Main
// ///////////////////////////////////////////////

func main() {
	if err := run(processEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run creates the desktop shortcut and prints the confirmation line.
func run(e env) error {
	profile, err := e.profileDir()
	if err != nil {
		return err
	}
	dataDir := paths.DataDirFor(profile)

	cfg, err := config.Load(dataDir.Config())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closer, err := logger.NewLogger(e.stderr, logger.Options{
		Level:     logger.ParseLevel(cfg.Log.Level),
		File:      cfg.LogFile(dataDir.Root),
		MaxSizeMB: cfg.Log.MaxSizeMB,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()
	previous := slog.Default()
	slog.SetDefault(log)
	defer slog.SetDefault(previous)

	slog.Debug("deskshortcut starting", "version", resolveVersion(), "profile", profile)

	desktop, err := e.desktopDir(profile)
	if err != nil {
		return err
	}
	layout := cfg.Layout(profile, desktop)

	saver, err := shortcut.NewSaver(cfg.Shortcut.Backend)
	if err != nil {
		return err
	}
	slog.Debug("backend selected", "configured", cfg.Shortcut.Backend, "backend", saver.Name())

	res, err := shortcut.Create(layout, saver)
	if err != nil {
		return err
	}
	slog.Info("shortcut created", "path", res.Path, "target", res.Shortcut.TargetPath)

	_, err = fmt.Fprintln(e.stdout, successMessage)
	return err
}
