// Package daemon implements the keepawake agent loop.
package daemon

import (
	"context"
	"errors"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
	"github.com/eliteGoblin/focusd/keep_awake/internal/target"
	"github.com/eliteGoblin/focusd/keep_awake/internal/usecase"
)

// ErrAgentStopped is returned when work is posted to an agent that is not running.
var ErrAgentStopped = errors.New("agent stopped")

// AgentConfig holds agent configuration.
type AgentConfig struct {
	FloatInterval time.Duration // How often window levels are re-applied (default 2s)
	Enabled       bool          // Keep-awake wanted at startup
	FloatWindows  bool          // Enable floating at startup
	ExecPath      string        // Binary registered as login item
}

// DefaultAgentConfig returns default agent configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		FloatInterval: usecase.DefaultFloatInterval,
		Enabled:       true,
		FloatWindows:  false,
	}
}

// Deps are the OS boundaries the agent drives.
type Deps struct {
	ProcessManager domain.ProcessManager
	Notifier       domain.WorkspaceNotifier
	Power          domain.PowerManager
	Accessibility  domain.AccessibilityClient
	WindowServer   domain.WindowServer
	LoginItems     domain.LoginItemManager
}

// Agent is the single serial execution context for the keep-awake core.
// Workspace notifications, scheduled floating ticks and user commands
// are all run one at a time on the Run goroutine.
type Agent struct {
	config AgentConfig
	app    target.App
	logger *zap.Logger

	monitor     *usecase.LifecycleMonitor
	sleep       *usecase.SleepAssertionManager
	floating    *usecase.WindowFloatingEnforcer
	coordinator *usecase.Coordinator

	queue    chan func()
	done     chan struct{}
	onStatus func(domain.Status)
	last     domain.Status
}

// NewAgent wires the core components for app.
func NewAgent(config AgentConfig, app target.App, deps Deps, logger *zap.Logger) *Agent {
	a := &Agent{
		config: config,
		app:    app,
		logger: logger,
		queue:  make(chan func(), 64),
		done:   make(chan struct{}),
	}

	a.monitor = usecase.NewLifecycleMonitor(app, deps.ProcessManager, deps.Notifier, usecase.LifecycleHandlers{
		OnLaunched:   func(h domain.ProcessHandle) { a.coordinator.HandleLaunched(h) },
		OnTerminated: func(h domain.ProcessHandle) { a.coordinator.HandleTerminated(h) },
	}, logger.Named("monitor"))
	a.sleep = usecase.NewSleepAssertionManager(deps.Power, app.AssertionReason(), logger.Named("sleep"))
	a.floating = usecase.NewWindowFloatingEnforcer(a.monitor, deps.Accessibility, deps.WindowServer,
		a, config.FloatInterval, logger.Named("floating"))
	a.coordinator = usecase.NewCoordinator(a.monitor, a.sleep, a.floating, deps.LoginItems,
		config.ExecPath, logger.Named("coordinator"))

	return a
}

// OnStatus registers a callback invoked on the agent loop whenever the
// status snapshot changes. Must be called before Run.
func (a *Agent) OnStatus(fn func(domain.Status)) {
	a.onStatus = fn
}

// Run starts the agent loop.
// This blocks until context is canceled.
func (a *Agent) Run(ctx context.Context) error {
	defer close(a.done)

	if err := a.monitor.StartMonitoring(); err != nil {
		a.logger.Error("failed to start lifecycle monitoring", zap.Error(err))
		return err
	}

	a.logger.Info("keepawake agent started",
		zap.String("target", a.app.BundleID),
		zap.Bool("enabled", a.config.Enabled),
		zap.Bool("float_windows", a.config.FloatWindows))

	if !a.config.Enabled {
		a.coordinator.SetEnabled(false)
	}
	a.coordinator.Start()
	if a.config.FloatWindows {
		if err := a.coordinator.SetFloating(true); err != nil {
			a.logger.Warn("window floating not enabled at startup", zap.Error(err))
		}
	}
	a.publish(true)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("keepawake agent stopping")
			if err := a.shutdown(); err != nil {
				a.logger.Warn("shutdown incomplete", zap.Error(err))
			}
			return ctx.Err()

		case ev, ok := <-a.monitor.Notifications():
			if !ok {
				a.logger.Warn("workspace notifications closed, resubscribing")
				a.monitor.StopMonitoring()
				if err := a.monitor.StartMonitoring(); err != nil {
					a.logger.Error("failed to resubscribe", zap.Error(err))
				}
				continue
			}
			a.monitor.Deliver(ev)

		case fn := <-a.queue:
			fn()
		}
		a.publish(false)
	}
}

// shutdown releases the assertion and cancels enforcement before
// unsubscribing, so no callback lands on half-torn-down state.
func (a *Agent) shutdown() error {
	err := a.coordinator.Shutdown()
	a.monitor.Shutdown()

	if a.sleep.IsActive() {
		err = multierr.Append(err, errors.New("sleep assertion still held"))
	}
	if a.floating.IsActive() {
		err = multierr.Append(err, errors.New("window floating still active"))
	}
	if a.monitor.IsMonitoring() {
		err = multierr.Append(err, errors.New("lifecycle monitor still subscribed"))
	}
	return err
}

// publish reports the status if it changed (or always when forced).
func (a *Agent) publish(force bool) {
	if a.onStatus == nil {
		return
	}
	s := a.coordinator.Status()
	if !force && s == a.last {
		return
	}
	a.last = s
	a.onStatus(s)
}

// Done is closed once Run has returned.
func (a *Agent) Done() <-chan struct{} {
	return a.done
}

// Do runs fn on the agent loop and returns without waiting.
func (a *Agent) Do(fn func(c *usecase.Coordinator)) error {
	select {
	case a.queue <- func() { fn(a.coordinator) }:
		return nil
	case <-a.done:
		return ErrAgentStopped
	}
}

// Status returns a snapshot taken on the agent loop.
func (a *Agent) Status(ctx context.Context) (domain.Status, error) {
	result := make(chan domain.Status, 1)
	select {
	case a.queue <- func() { result <- a.coordinator.Status() }:
	case <-a.done:
		return domain.Status{}, ErrAgentStopped
	case <-ctx.Done():
		return domain.Status{}, ctx.Err()
	}

	select {
	case s := <-result:
		return s, nil
	case <-a.done:
		return domain.Status{}, ErrAgentStopped
	case <-ctx.Done():
		return domain.Status{}, ctx.Err()
	}
}
