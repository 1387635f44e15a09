package usecase

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

// DefaultFloatInterval is how often window levels are re-applied.
// Windows drop back to normal level on refocus or redraw, so once is not enough.
const DefaultFloatInterval = 2 * time.Second

// HandleLocator resolves the target's current process.
type HandleLocator interface {
	CurrentHandle() (domain.ProcessHandle, bool)
}

// WindowFloatingEnforcer keeps the target's windows at floating level
// while enabled and permitted.
type WindowFloatingEnforcer struct {
	locator       HandleLocator
	accessibility domain.AccessibilityClient
	windowServer  domain.WindowServer
	scheduler     domain.Scheduler
	interval      time.Duration
	logger        *zap.Logger

	state      domain.FloatingState
	task       domain.Task
	lastReport domain.FloatReport
}

// NewWindowFloatingEnforcer creates a disabled enforcer.
func NewWindowFloatingEnforcer(
	locator HandleLocator,
	ax domain.AccessibilityClient,
	ws domain.WindowServer,
	scheduler domain.Scheduler,
	interval time.Duration,
	logger *zap.Logger,
) *WindowFloatingEnforcer {
	if interval <= 0 {
		interval = DefaultFloatInterval
	}
	return &WindowFloatingEnforcer{
		locator:       locator,
		accessibility: ax,
		windowServer:  ws,
		scheduler:     scheduler,
		interval:      interval,
		logger:        logger,
		state:         domain.FloatingDisabled,
	}
}

// HasPermission checks accessibility trust without prompting.
func (e *WindowFloatingEnforcer) HasPermission() bool {
	return e.accessibility.IsProcessTrusted(false)
}

// RequestPermission asks the OS to show its consent dialog and returns
// immediately. A grant is only noticed by a later Enable call.
func (e *WindowFloatingEnforcer) RequestPermission() {
	_ = e.accessibility.IsProcessTrusted(true)
}

// Enable starts floating the target's windows. Without accessibility
// trust it requests permission and returns ErrPermissionDenied; the
// caller retries Enable later.
func (e *WindowFloatingEnforcer) Enable() error {
	if e.state == domain.FloatingActive {
		return nil
	}

	if !e.HasPermission() {
		e.state = domain.FloatingPermissionPending
		e.logger.Info("accessibility permission missing, requesting")
		e.RequestPermission()
		return fmt.Errorf("cannot float windows: %w", domain.ErrPermissionDenied)
	}

	e.state = domain.FloatingActive
	e.apply()
	e.task = e.scheduler.Schedule(e.interval, e.tick)

	e.logger.Info("window floating enabled", zap.Duration("interval", e.interval))
	return nil
}

// Disable stops floating. No level is set after it returns.
func (e *WindowFloatingEnforcer) Disable() {
	if e.task != nil {
		e.task.Cancel()
		e.task = nil
	}
	if e.state != domain.FloatingDisabled {
		e.logger.Info("window floating disabled")
	}
	e.state = domain.FloatingDisabled
}

// IsActive reports whether the enforcer is armed.
func (e *WindowFloatingEnforcer) IsActive() bool {
	return e.state == domain.FloatingActive
}

// State returns the enforcer state.
func (e *WindowFloatingEnforcer) State() domain.FloatingState {
	return e.state
}

// LastReport returns the outcome of the most recent application.
func (e *WindowFloatingEnforcer) LastReport() domain.FloatReport {
	return e.lastReport
}

// Shutdown cancels the periodic task.
func (e *WindowFloatingEnforcer) Shutdown() {
	e.Disable()
}

func (e *WindowFloatingEnforcer) tick() {
	if e.state != domain.FloatingActive {
		return
	}
	e.apply()
}

// apply levels every current target window once.
func (e *WindowFloatingEnforcer) apply() {
	report, err := e.floatWindows()
	if err != nil {
		e.logger.Debug("floating tick skipped", zap.Error(err))
	}
	e.lastReport = report
}

func (e *WindowFloatingEnforcer) floatWindows() (domain.FloatReport, error) {
	var report domain.FloatReport

	handle, ok := e.locator.CurrentHandle()
	if !ok {
		return report, domain.ErrNotRunning
	}

	windows, err := e.accessibility.WindowsOf(handle.PID)
	if err != nil {
		return report, fmt.Errorf("failed to list windows of pid %d: %w", handle.PID, err)
	}
	report.Windows = len(windows)

	level := e.windowServer.FloatingLevel()
	for i, w := range windows {
		id, err := w.ResolveID()
		if err != nil {
			e.logger.Debug("skipping unresolved window", zap.Int("index", i), zap.Error(err))
			report.Skipped++
			continue
		}
		if err := e.windowServer.SetWindowLevel(id, level); err != nil {
			e.logger.Debug("failed to set window level",
				zap.Uint32("window_id", uint32(id)),
				zap.Error(err))
			report.Skipped++
			continue
		}
		report.Floated++
	}

	return report, nil
}
