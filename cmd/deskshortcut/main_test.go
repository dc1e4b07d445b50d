package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tools.zach/dev/deskshortcut/internal/lnk"
	"tools.zach/dev/deskshortcut/internal/paths"
	"tools.zach/dev/deskshortcut/internal/shortcut"
)

// ///////////////////////////////////////////////
// resolveVersion Tests
// ///////////////////////////////////////////////

func TestResolveVersionWithLdflags(t *testing.T) {
	original := version
	defer func() { version = original }()

	version = "1.2.3"
	if got := resolveVersion(); got != "1.2.3" {
		t.Errorf("resolveVersion() = %q, want %q", got, "1.2.3")
	}
}

func TestResolveVersionDev(t *testing.T) {
	original := version
	defer func() { version = original }()

	version = "dev"
	got := resolveVersion()
	// "dev", "dev+<hash>" or "dev+<hash>.dirty" depending on embedded VCS info.
	if !strings.HasPrefix(got, "dev") {
		t.Errorf("resolveVersion() = %q, expected to start with 'dev'", got)
	}
}

// ///////////////////////////////////////////////
// run Tests
// ///////////////////////////////////////////////

// testEnv returns an env rooted at a temp profile whose desktop exists.
func testEnv(t *testing.T) (env, *bytes.Buffer, *bytes.Buffer, string) {
	t.Helper()
	profile := t.TempDir()
	desktop := filepath.Join(profile, paths.DesktopDirName)
	if err := os.Mkdir(desktop, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	var stdout, stderr bytes.Buffer
	e := env{
		stdout:     &stdout,
		stderr:     &stderr,
		profileDir: func() (string, error) { return profile, nil },
		desktopDir: func(string) (string, error) { return desktop, nil },
	}
	return e, &stdout, &stderr, profile
}

// writeConfig writes a shortcut.toml into profile's data directory.
func writeConfig(t *testing.T, profile, body string) string {
	t.Helper()
	dataDir := paths.DataDirFor(profile)
	if err := os.MkdirAll(dataDir.Root, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(dataDir.Config(), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return dataDir.Root
}

func TestRunNativeBackend(t *testing.T) {
	e, stdout, stderr, profile := testEnv(t)
	writeConfig(t, profile, "[shortcut]\nbackend = \"native\"\n")

	if err := run(e); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := stdout.String(); got != "Shortcut created successfully!\n" {
		t.Errorf("stdout = %q, want exactly the success line", got)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty at default level", stderr.String())
	}

	got, err := lnk.ReadFile(filepath.Join(profile, "Desktop", "School Comms Aggregator.lnk"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := lnk.Shortcut{
		TargetPath: filepath.Join(profile, "school-comms-aggregator", "dist", "School Comms Aggregator.exe"),
		WorkingDir: filepath.Join(profile, "school-comms-aggregator"),
	}
	if got != want {
		t.Errorf("shortcut = %+v, want %+v", got, want)
	}
}

func TestRunTwiceOverwrites(t *testing.T) {
	e, stdout, _, profile := testEnv(t)
	writeConfig(t, profile, "[shortcut]\nbackend = \"native\"\n")

	for i := 0; i < 2; i++ {
		if err := run(e); err != nil {
			t.Fatalf("run #%d: %v", i+1, err)
		}
	}
	if n := strings.Count(stdout.String(), successMessage); n != 2 {
		t.Errorf("success line printed %d times, want 2", n)
	}
	entries, err := os.ReadDir(filepath.Join(profile, "Desktop"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("desktop has %d entries, want 1", len(entries))
	}
}

func TestRunCustomNames(t *testing.T) {
	e, _, _, profile := testEnv(t)
	writeConfig(t, profile, `
[shortcut]
product_name = "Comms"
install_dir = "apps/comms"
build_dir = "bin"
backend = "native"
`)

	if err := run(e); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := lnk.ReadFile(filepath.Join(profile, "Desktop", "Comms.lnk"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	wantTarget := filepath.Join(profile, "apps", "comms", "bin", "Comms.exe")
	if got.TargetPath != wantTarget {
		t.Errorf("TargetPath = %q, want %q", got.TargetPath, wantTarget)
	}
}

func TestRunLogFile(t *testing.T) {
	e, _, stderr, profile := testEnv(t)
	dataDir := writeConfig(t, profile, `
[shortcut]
backend = "native"

[log]
level = "debug"
file = "shortcut.log"
`)

	if err := run(e); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dataDir, "shortcut.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{"[DEBUG] deskshortcut starting", "[INFO] shortcut created"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q:\n%s", want, data)
		}
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr missing %q", want)
		}
	}
}

func TestRunProfileError(t *testing.T) {
	e, stdout, _, _ := testEnv(t)
	cause := &paths.ResolveError{Dir: "profile", Err: paths.ErrEmptyDir}
	e.profileDir = func() (string, error) { return "", cause }

	err := run(e)
	var resolveErr *paths.ResolveError
	if !errors.As(err, &resolveErr) {
		t.Fatalf("run error = %v, want *paths.ResolveError", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty on failure", stdout.String())
	}
}

func TestRunBadConfig(t *testing.T) {
	e, stdout, _, profile := testEnv(t)
	writeConfig(t, profile, "[shortcut]\nbackend = \"carrier-pigeon\"\n")

	if err := run(e); err == nil {
		t.Fatal("run succeeded with invalid backend")
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty on failure", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(profile, "Desktop", "School Comms Aggregator.lnk")); err == nil {
		t.Error("shortcut written despite config error")
	}
}

func TestRunMissingDesktop(t *testing.T) {
	e, stdout, _, profile := testEnv(t)
	writeConfig(t, profile, "[shortcut]\nbackend = \"native\"\n")
	e.desktopDir = func(string) (string, error) { return filepath.Join(profile, "nowhere"), nil }

	err := run(e)
	var saveErr *shortcut.SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("run error = %v, want *shortcut.SaveError", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty on failure", stdout.String())
	}
}
