// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

// ProcessHandle identifies one running application process.
// A handle is only meaningful while the process is alive; it is never
// reused once a terminate event for the same PID has been seen.
type ProcessHandle struct {
	PID        int
	BundleID   string // CFBundleIdentifier of the enclosing .app
	BundlePath string // e.g. /Applications/Claude.app
}

// IsZero reports whether h refers to no process.
func (h ProcessHandle) IsZero() bool {
	return h.PID == 0
}

// WorkspaceEventKind distinguishes launch from termination.
type WorkspaceEventKind int

const (
	ProcessLaunched WorkspaceEventKind = iota + 1
	ProcessTerminated
)

func (k WorkspaceEventKind) String() string {
	switch k {
	case ProcessLaunched:
		return "launched"
	case ProcessTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// WorkspaceEvent is an application lifecycle notification for any app,
// not yet filtered to the target.
type WorkspaceEvent struct {
	Kind    WorkspaceEventKind
	Process ProcessHandle
}

// AssertionID is the OS handle of a held power assertion.
type AssertionID uint32

// WindowID is the window server's identifier for a window.
type WindowID uint32

// WindowLevel is a window stacking level. Higher draws above lower.
type WindowLevel int32

// FloatingState is the state of the window floating enforcer.
type FloatingState string

const (
	FloatingDisabled          FloatingState = "disabled"
	FloatingPermissionPending FloatingState = "permission_pending"
	FloatingActive            FloatingState = "active"
)

// FloatReport captures what happened during a single floating tick.
type FloatReport struct {
	Windows int // windows enumerated
	Floated int // windows whose level was set
	Skipped int // windows that could not be resolved or leveled
}

// Status is a point-in-time snapshot for the menu to render.
type Status struct {
	TargetRunning   bool
	AssertionActive bool
	FloatingActive  bool

	Enabled       bool
	FloatingState FloatingState
	LaunchAtLogin bool
	LastFloat     FloatReport
}
