// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

const infoPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>CFBundleIdentifier</key>
    <string>%s</string>
    <key>CFBundleName</key>
    <string>%s</string>
    <key>CFBundleExecutable</key>
    <string>%s</string>
</dict>
</plist>
`

// FakeAppBundle creates a minimal .app bundle whose main executable is
// a copy of /bin/sleep, so launching it yields a real bundle process.
type FakeAppBundle struct {
	Dir      string
	Name     string
	BundleID string
}

// NewFakeAppBundle creates a new fake app bundle generator.
func NewFakeAppBundle(dir, name, bundleID string) *FakeAppBundle {
	return &FakeAppBundle{Dir: dir, Name: name, BundleID: bundleID}
}

// BundlePath returns the .app directory.
func (f *FakeAppBundle) BundlePath() string {
	return filepath.Join(f.Dir, f.Name+".app")
}

// ExecutablePath returns the bundle's main executable.
func (f *FakeAppBundle) ExecutablePath() string {
	return filepath.Join(f.BundlePath(), "Contents", "MacOS", f.Name)
}

// Create writes Info.plist and the executable.
func (f *FakeAppBundle) Create() error {
	macOS := filepath.Dir(f.ExecutablePath())
	if err := os.MkdirAll(macOS, 0755); err != nil {
		return err
	}

	plist := fmt.Sprintf(infoPlistTemplate, f.BundleID, f.Name, f.Name)
	infoPath := filepath.Join(f.BundlePath(), "Contents", "Info.plist")
	if err := os.WriteFile(infoPath, []byte(plist), 0644); err != nil {
		return err
	}

	return copyFile("/bin/sleep", f.ExecutablePath(), 0755)
}

// Launch starts the app's executable. The caller must Kill the process.
func (f *FakeAppBundle) Launch() (*exec.Cmd, error) {
	cmd := exec.Command(f.ExecutablePath(), "600")
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Kill stops a launched instance and reaps it.
func Kill(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
}

// Cleanup removes the bundle.
func (f *FakeAppBundle) Cleanup() error {
	return os.RemoveAll(f.BundlePath())
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
