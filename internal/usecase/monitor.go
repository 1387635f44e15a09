// Package usecase contains application business logic.
//
// The components here are not safe for concurrent use. They are driven
// from a single serial execution context (see daemon.Agent), which is
// what lets them go without locks.
package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
	"github.com/eliteGoblin/focusd/keep_awake/internal/target"
)

// LifecycleHandlers are invoked on target launch/terminate edges.
type LifecycleHandlers struct {
	OnLaunched   func(domain.ProcessHandle)
	OnTerminated func(domain.ProcessHandle)
}

// LifecycleMonitor filters workspace notifications down to the target
// app and turns them into edge-triggered launched/terminated callbacks.
type LifecycleMonitor struct {
	app            target.App
	processManager domain.ProcessManager
	notifier       domain.WorkspaceNotifier
	handlers       LifecycleHandlers
	logger         *zap.Logger

	sub  domain.Subscription
	live map[int]domain.ProcessHandle
}

// NewLifecycleMonitor creates a monitor for app. Handlers are fixed for
// the monitor's lifetime.
func NewLifecycleMonitor(
	app target.App,
	pm domain.ProcessManager,
	notifier domain.WorkspaceNotifier,
	handlers LifecycleHandlers,
	logger *zap.Logger,
) *LifecycleMonitor {
	return &LifecycleMonitor{
		app:            app,
		processManager: pm,
		notifier:       notifier,
		handlers:       handlers,
		logger:         logger,
		live:           make(map[int]domain.ProcessHandle),
	}
}

// StartMonitoring subscribes to workspace notifications.
// Calling it while already subscribed does nothing.
func (m *LifecycleMonitor) StartMonitoring() error {
	if m.sub != nil {
		return nil
	}

	sub, err := m.notifier.Subscribe()
	if err != nil {
		return fmt.Errorf("failed to subscribe to workspace notifications: %w", err)
	}
	m.sub = sub

	// Seed after subscribing so a launch in between is not lost.
	// A terminate for a PID we never saw is ignored by Deliver.
	m.live = make(map[int]domain.ProcessHandle)
	procs, err := m.processManager.FindByBundleID(m.app.BundleID)
	if err != nil {
		m.logger.Warn("failed to seed running target processes", zap.Error(err))
	}
	for _, p := range procs {
		m.live[p.PID] = p
	}

	m.logger.Info("lifecycle monitoring started",
		zap.String("bundle_id", m.app.BundleID),
		zap.Int("running", len(m.live)))
	return nil
}

// StopMonitoring unsubscribes. Once it returns no handler is invoked,
// including for events already buffered in the subscription.
func (m *LifecycleMonitor) StopMonitoring() {
	if m.sub == nil {
		return
	}
	m.sub.Unsubscribe()
	m.sub = nil
	m.live = make(map[int]domain.ProcessHandle)
	m.logger.Info("lifecycle monitoring stopped")
}

// IsMonitoring reports whether a subscription is active.
func (m *LifecycleMonitor) IsMonitoring() bool {
	return m.sub != nil
}

// Notifications returns the channel the owner's loop should drain into
// Deliver. It is nil while not monitoring, which blocks forever in a select.
func (m *LifecycleMonitor) Notifications() <-chan domain.WorkspaceEvent {
	if m.sub == nil {
		return nil
	}
	return m.sub.Events()
}

// Deliver processes one workspace notification.
func (m *LifecycleMonitor) Deliver(ev domain.WorkspaceEvent) {
	if m.sub == nil {
		return
	}
	if !m.app.Matches(ev.Process.BundleID) {
		return
	}

	wasRunning := len(m.live) > 0

	switch ev.Kind {
	case domain.ProcessLaunched:
		if _, known := m.live[ev.Process.PID]; known {
			return
		}
		m.live[ev.Process.PID] = ev.Process
		if !wasRunning {
			m.logger.Info("target launched",
				zap.String("bundle_id", ev.Process.BundleID),
				zap.Int("pid", ev.Process.PID))
			if m.handlers.OnLaunched != nil {
				m.handlers.OnLaunched(ev.Process)
			}
		}

	case domain.ProcessTerminated:
		if _, known := m.live[ev.Process.PID]; !known {
			return
		}
		delete(m.live, ev.Process.PID)
		if wasRunning && len(m.live) == 0 {
			m.logger.Info("target terminated",
				zap.String("bundle_id", ev.Process.BundleID),
				zap.Int("pid", ev.Process.PID))
			if m.handlers.OnTerminated != nil {
				m.handlers.OnTerminated(ev.Process)
			}
		}
	}
}

// HasLive reports whether the monitor is tracking at least one target
// process from its seed or from delivered notifications.
func (m *LifecycleMonitor) HasLive() bool {
	return len(m.live) > 0
}

// IsRunning checks if at least one target process exists right now.
func (m *LifecycleMonitor) IsRunning() bool {
	_, ok := m.CurrentHandle()
	return ok
}

// CurrentHandle returns a live target process, if any. A tracked process
// that still exists wins over a full scan; the lowest PID is preferred.
func (m *LifecycleMonitor) CurrentHandle() (domain.ProcessHandle, bool) {
	var (
		best  domain.ProcessHandle
		found bool
	)
	for pid, h := range m.live {
		if found && pid >= best.PID {
			continue
		}
		if m.processManager.IsRunning(pid) {
			best, found = h, true
		}
	}
	if found {
		return best, true
	}

	procs, err := m.processManager.FindByBundleID(m.app.BundleID)
	if err != nil {
		m.logger.Debug("failed to look up target process", zap.Error(err))
		return domain.ProcessHandle{}, false
	}
	if len(procs) == 0 {
		return domain.ProcessHandle{}, false
	}
	return procs[0], true
}

// Shutdown stops monitoring.
func (m *LifecycleMonitor) Shutdown() {
	m.StopMonitoring()
}
