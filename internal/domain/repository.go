package domain

import "time"

// ProcessManager handles OS process queries.
// Implementation: uses gopsutil plus the app bundle's Info.plist.
type ProcessManager interface {
	// Snapshot returns every running process that belongs to an app bundle.
	Snapshot() ([]ProcessHandle, error)

	// FindByBundleID returns the running processes of one application.
	FindByBundleID(bundleID string) ([]ProcessHandle, error)

	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool
}

// Subscription is a live registration for workspace events.
type Subscription interface {
	// Events delivers launch/terminate notifications for all apps.
	Events() <-chan WorkspaceEvent

	// Unsubscribe stops delivery. Safe to call more than once.
	Unsubscribe()
}

// WorkspaceNotifier is the OS source of application lifecycle notifications.
type WorkspaceNotifier interface {
	Subscribe() (Subscription, error)
}

// PowerManager wraps the OS power-management assertion API.
type PowerManager interface {
	// CreateAssertion requests that the display not sleep.
	CreateAssertion(reason string) (AssertionID, error)

	// ReleaseAssertion drops a previously created assertion.
	ReleaseAssertion(id AssertionID) error
}

// WindowElement is one window of an application's accessibility tree,
// valid only for the poll that produced it.
type WindowElement interface {
	// ResolveID returns the window server id backing this element.
	ResolveID() (WindowID, error)
}

// AccessibilityClient wraps the OS accessibility API.
type AccessibilityClient interface {
	// IsProcessTrusted returns the current trust state. With prompt set,
	// the OS may show its consent dialog; the call does not wait for it.
	IsProcessTrusted(prompt bool) bool

	// WindowsOf returns the windows owned by pid at call time.
	WindowsOf(pid int) ([]WindowElement, error)
}

// WindowServer sets window stacking levels.
// The underlying call is private API; callers treat failures as per-window.
type WindowServer interface {
	FloatingLevel() WindowLevel
	SetWindowLevel(id WindowID, level WindowLevel) error
}

// LoginItemManager registers the executable to launch at user login.
type LoginItemManager interface {
	// IsEnabled reports whether the login item is registered.
	IsEnabled() bool

	// SetEnabled registers or unregisters the login item.
	SetEnabled(enabled bool, execPath string) error

	// NeedsUpdate checks if the login item exists but points elsewhere.
	NeedsUpdate(execPath string) bool
}

// Task is a recurring scheduled callback.
type Task interface {
	// Cancel stops the task. No callback runs after Cancel returns.
	Cancel()
}

// Scheduler runs recurring callbacks on the caller's execution context.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) Task
}
