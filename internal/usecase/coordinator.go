package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

// TargetProbe answers whether the target is running. IsRunning asks the OS;
// HasLive reports what lifecycle tracking has seen, so an assertion taken
// on it is always paired with a terminate notification.
type TargetProbe interface {
	IsRunning() bool
	HasLive() bool
}

// Coordinator turns lifecycle events and user toggles into calls on the
// sleep assertion manager and the floating enforcer.
type Coordinator struct {
	probe      TargetProbe
	sleep      *SleepAssertionManager
	floating   *WindowFloatingEnforcer
	loginItems domain.LoginItemManager
	execPath   string
	logger     *zap.Logger

	enabled bool
}

// NewCoordinator creates a coordinator with keep-awake enabled.
func NewCoordinator(
	probe TargetProbe,
	sleep *SleepAssertionManager,
	floating *WindowFloatingEnforcer,
	loginItems domain.LoginItemManager,
	execPath string,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		probe:      probe,
		sleep:      sleep,
		floating:   floating,
		loginItems: loginItems,
		execPath:   execPath,
		logger:     logger,
		enabled:    true,
	}
}

// Start reconciles with a target that was already running before
// monitoring began.
func (c *Coordinator) Start() {
	if c.enabled && c.probe.HasLive() {
		c.sleep.Acquire()
	}
}

// HandleLaunched reacts to the target starting.
func (c *Coordinator) HandleLaunched(_ domain.ProcessHandle) {
	if !c.enabled {
		return
	}
	c.sleep.Acquire()
}

// HandleTerminated tears everything down. Floating goes too, whatever the
// user asked for, since there is nothing left to float.
func (c *Coordinator) HandleTerminated(_ domain.ProcessHandle) {
	c.sleep.Release()
	c.floating.Disable()
}

// Enabled reports whether keep-awake is wanted.
func (c *Coordinator) Enabled() bool {
	return c.enabled
}

// SetEnabled changes the user's keep-awake preference.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled {
		c.sleep.Release()
		return
	}
	if c.probe.HasLive() {
		c.sleep.Acquire()
	}
}

// ToggleEnabled flips the keep-awake preference.
func (c *Coordinator) ToggleEnabled() {
	c.SetEnabled(!c.enabled)
}

// SetFloating enables or disables window floating.
func (c *Coordinator) SetFloating(on bool) error {
	if !on {
		c.floating.Disable()
		return nil
	}
	return c.floating.Enable()
}

// ToggleFloating flips window floating. A pending permission request
// counts as off, so toggling again re-checks the permission.
func (c *Coordinator) ToggleFloating() error {
	return c.SetFloating(!c.floating.IsActive())
}

// LaunchAtLogin reports whether the login item is registered.
func (c *Coordinator) LaunchAtLogin() bool {
	if c.loginItems == nil {
		return false
	}
	return c.loginItems.IsEnabled()
}

// SetLaunchAtLogin registers or removes the login item. On failure the
// previous registration is left as it was.
func (c *Coordinator) SetLaunchAtLogin(enabled bool) error {
	if c.loginItems == nil {
		return fmt.Errorf("%w: %v", domain.ErrLoginItem, domain.ErrUnsupported)
	}
	if err := c.loginItems.SetEnabled(enabled, c.execPath); err != nil {
		c.logger.Warn("failed to change launch at login",
			zap.Bool("enabled", enabled),
			zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrLoginItem, err)
	}
	c.logger.Info("launch at login changed", zap.Bool("enabled", enabled))
	return nil
}

// ToggleLaunchAtLogin flips the login item registration.
func (c *Coordinator) ToggleLaunchAtLogin() error {
	return c.SetLaunchAtLogin(!c.LaunchAtLogin())
}

// Status returns a snapshot for display. It has no side effects.
func (c *Coordinator) Status() domain.Status {
	running := c.probe.IsRunning()
	return domain.Status{
		TargetRunning:   running,
		AssertionActive: c.sleep.IsActive(),
		FloatingActive:  c.floating.IsActive() && running,
		Enabled:         c.enabled,
		FloatingState:   c.floating.State(),
		LaunchAtLogin:   c.LaunchAtLogin(),
		LastFloat:       c.floating.LastReport(),
	}
}

// Shutdown releases the assertion and stops floating, in that order.
// The lifecycle monitor is shut down by the owner afterwards.
func (c *Coordinator) Shutdown() error {
	c.sleep.Shutdown()
	c.floating.Shutdown()
	return nil
}
