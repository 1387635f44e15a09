// Package target defines the single application keepawake supervises.
package target

import "fmt"

// ClaudeBundleID is the bundle identifier of the Claude desktop app.
const ClaudeBundleID = "com.anthropic.claudefordesktop"

// App describes the supervised application.
type App struct {
	BundleID string
	Name     string
}

// Claude returns the Claude desktop app target.
func Claude() App {
	return App{
		BundleID: ClaudeBundleID,
		Name:     "Claude",
	}
}

// AssertionReason is the name attached to the power assertion.
// It shows up in `pmset -g assertions`.
func (a App) AssertionReason() string {
	return fmt.Sprintf("keepawake: Keeping system awake for %s.app", a.Name)
}

// Matches reports whether bundleID identifies this app.
func (a App) Matches(bundleID string) bool {
	return bundleID != "" && bundleID == a.BundleID
}
