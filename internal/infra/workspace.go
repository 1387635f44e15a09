package infra

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

// DefaultPollInterval is how often the process table is diffed.
const DefaultPollInterval = time.Second

// WorkspaceWatcher implements domain.WorkspaceNotifier by polling the
// process table and reporting app launches and terminations.
type WorkspaceWatcher struct {
	pm       domain.ProcessManager
	interval time.Duration
	logger   *zap.Logger
}

// NewWorkspaceWatcher creates a watcher. A non-positive interval uses
// DefaultPollInterval.
func NewWorkspaceWatcher(pm domain.ProcessManager, interval time.Duration, logger *zap.Logger) *WorkspaceWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &WorkspaceWatcher{pm: pm, interval: interval, logger: logger}
}

// Subscribe starts a polling goroutine. Processes already running are
// the baseline and produce no launch events.
func (w *WorkspaceWatcher) Subscribe() (domain.Subscription, error) {
	initial, err := w.pm.Snapshot()
	if err != nil {
		return nil, err
	}

	sub := &pollSubscription{
		events: make(chan domain.WorkspaceEvent, 64),
		stop:   make(chan struct{}),
	}
	go sub.poll(w, indexByPID(initial))
	return sub, nil
}

// pollSubscription is one polling goroutine and its event channel.
type pollSubscription struct {
	events   chan domain.WorkspaceEvent
	stop     chan struct{}
	stopOnce sync.Once
}

func (s *pollSubscription) Events() <-chan domain.WorkspaceEvent {
	return s.events
}

// Unsubscribe stops the poller. Events is closed once it exits.
func (s *pollSubscription) Unsubscribe() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *pollSubscription) poll(w *WorkspaceWatcher, known map[int]domain.ProcessHandle) {
	defer close(s.events)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		procs, err := w.pm.Snapshot()
		if err != nil {
			if w.logger != nil {
				w.logger.Debug("process snapshot failed", zap.Error(err))
			}
			continue
		}

		next := indexByPID(procs)
		for _, ev := range diffSnapshots(known, next) {
			select {
			case s.events <- ev:
			case <-s.stop:
				return
			}
		}
		known = next
	}
}

func indexByPID(procs []domain.ProcessHandle) map[int]domain.ProcessHandle {
	m := make(map[int]domain.ProcessHandle, len(procs))
	for _, p := range procs {
		m[p.PID] = p
	}
	return m
}

// diffSnapshots returns terminations then launches, each ordered by PID.
func diffSnapshots(prev, next map[int]domain.ProcessHandle) []domain.WorkspaceEvent {
	var gone, started []domain.ProcessHandle
	for pid, p := range prev {
		if _, ok := next[pid]; !ok {
			gone = append(gone, p)
		}
	}
	for pid, p := range next {
		if _, ok := prev[pid]; !ok {
			started = append(started, p)
		}
	}
	byPID := func(s []domain.ProcessHandle) {
		sort.Slice(s, func(i, j int) bool { return s[i].PID < s[j].PID })
	}
	byPID(gone)
	byPID(started)

	events := make([]domain.WorkspaceEvent, 0, len(gone)+len(started))
	for _, p := range gone {
		events = append(events, domain.WorkspaceEvent{Kind: domain.ProcessTerminated, Process: p})
	}
	for _, p := range started {
		events = append(events, domain.WorkspaceEvent{Kind: domain.ProcessLaunched, Process: p})
	}
	return events
}

// Ensure WorkspaceWatcher implements domain.WorkspaceNotifier.
var _ domain.WorkspaceNotifier = (*WorkspaceWatcher)(nil)
