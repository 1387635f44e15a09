// Package infra implements infrastructure concerns (process, power, accessibility, launchd).
package infra

import (
	"os"
	"os/user"
	"path/filepath"
)

const (
	// LaunchAgentLabel is the launchd label of the login item.
	LaunchAgentLabel = "com.focusd.keepawake"

	// FallbackLogPath is used when ~/Library/Logs is not writable.
	FallbackLogPath = "/var/tmp/keepawake.log"

	logFileName = "keepawake.log"
)

// Paths holds per-user file locations.
type Paths struct {
	Home            string
	LaunchAgentsDir string // Where the login item plist goes
	PlistPath       string // Full path to the login item plist
	LogPath         string
	ConfigDir       string // Optional config.yaml lives here
}

// DetectPaths returns the locations for the real user, even under sudo.
func DetectPaths() *Paths {
	return PathsForHome(GetRealUserHome())
}

// PathsForHome returns the locations rooted at home.
func PathsForHome(home string) *Paths {
	launchAgentsDir := filepath.Join(home, "Library", "LaunchAgents")
	return &Paths{
		Home:            home,
		LaunchAgentsDir: launchAgentsDir,
		PlistPath:       filepath.Join(launchAgentsDir, LaunchAgentLabel+".plist"),
		LogPath:         filepath.Join(home, "Library", "Logs", logFileName),
		ConfigDir:       filepath.Join(home, ".config", "keepawake"),
	}
}

// GetRealUserHome returns the real user's home directory, even when running under sudo.
// Under sudo, os.UserHomeDir() returns /var/root, so we use SUDO_USER to find the real user.
func GetRealUserHome() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		if u, err := user.Lookup(sudoUser); err == nil {
			return u.HomeDir
		}
	}
	home, _ := os.UserHomeDir()
	return home
}
