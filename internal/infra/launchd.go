package infra

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

// LaunchAgent plist template (runs as user at login)
const launchAgentTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{xml .Label}}</string>

    <key>ProgramArguments</key>
    <array>
        <string>{{xml .ExecutablePath}}</string>
        <string>run</string>
        <string>--headless</string>
    </array>

    <key>RunAtLoad</key>
    <true/>

    <key>StandardErrorPath</key>
    <string>{{xml .ErrorLogPath}}</string>

    <key>ProcessType</key>
    <string>Interactive</string>
</dict>
</plist>`

const errorLogPath = "/var/tmp/keepawake.error.log"

type plistConfig struct {
	Label          string
	ExecutablePath string
	ErrorLogPath   string
}

// LaunchAgentManager implements domain.LoginItemManager with a per-user
// LaunchAgent. Writing the plist registers the agent for the next login;
// the running instance is never loaded or unloaded through launchctl.
type LaunchAgentManager struct {
	label     string
	plistDir  string
	plistPath string
}

// NewLoginItemManager creates a login item manager for the real user.
func NewLoginItemManager(paths *Paths) *LaunchAgentManager {
	return NewLoginItemManagerWithDir(paths.LaunchAgentsDir)
}

// NewLoginItemManagerWithDir creates a manager writing into dir (for testing)
func NewLoginItemManagerWithDir(dir string) *LaunchAgentManager {
	return &LaunchAgentManager{
		label:     LaunchAgentLabel,
		plistDir:  dir,
		plistPath: filepath.Join(dir, LaunchAgentLabel+".plist"),
	}
}

// generatePlistContent creates plist content for the given exec path.
func (m *LaunchAgentManager) generatePlistContent(execPath string) ([]byte, error) {
	config := plistConfig{
		Label:          m.label,
		ExecutablePath: execPath,
		ErrorLogPath:   errorLogPath,
	}

	tmpl, err := template.New("plist").
		Funcs(template.FuncMap{"xml": template.HTMLEscapeString}).
		Parse(launchAgentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plist template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, config); err != nil {
		return nil, fmt.Errorf("failed to execute plist template: %w", err)
	}

	return buf.Bytes(), nil
}

// IsEnabled checks if the plist is installed.
func (m *LaunchAgentManager) IsEnabled() bool {
	_, err := os.Stat(m.plistPath)
	return err == nil
}

// SetEnabled writes or removes the plist.
func (m *LaunchAgentManager) SetEnabled(enabled bool, execPath string) error {
	if !enabled {
		if err := os.Remove(m.plistPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	if execPath == "" {
		return errors.New("executable path is required")
	}

	if err := os.MkdirAll(m.plistDir, 0755); err != nil {
		return err
	}

	content, err := m.generatePlistContent(execPath)
	if err != nil {
		return fmt.Errorf("failed to generate plist content: %w", err)
	}

	return os.WriteFile(m.plistPath, content, 0644)
}

// NeedsUpdate checks if plist exists but has different content than expected.
func (m *LaunchAgentManager) NeedsUpdate(execPath string) bool {
	if !m.IsEnabled() {
		return false // Doesn't exist, needs install not update
	}

	currentContent, err := os.ReadFile(m.plistPath)
	if err != nil {
		return true
	}

	expectedContent, err := m.generatePlistContent(execPath)
	if err != nil {
		return true
	}

	return !bytes.Equal(currentContent, expectedContent)
}

// GetPlistPath returns the plist file path.
func (m *LaunchAgentManager) GetPlistPath() string {
	return m.plistPath
}

// Ensure LaunchAgentManager implements domain.LoginItemManager.
var _ domain.LoginItemManager = (*LaunchAgentManager)(nil)
