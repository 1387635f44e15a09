package usecase

import (
	"errors"
	"time"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
	"github.com/eliteGoblin/focusd/keep_awake/internal/target"
)

var errMock = errors.New("mock failure")

var claudeApp = target.Claude()

func claudeProc(pid int) domain.ProcessHandle {
	return domain.ProcessHandle{
		PID:        pid,
		BundleID:   target.ClaudeBundleID,
		BundlePath: "/Applications/Claude.app",
	}
}

func otherProc(pid int) domain.ProcessHandle {
	return domain.ProcessHandle{
		PID:        pid,
		BundleID:   "com.apple.Safari",
		BundlePath: "/Applications/Safari.app",
	}
}

// mockProcessManager implements domain.ProcessManager for testing
type mockProcessManager struct {
	procs   []domain.ProcessHandle
	findErr error
}

func (m *mockProcessManager) Snapshot() ([]domain.ProcessHandle, error) {
	return m.procs, nil
}

func (m *mockProcessManager) FindByBundleID(bundleID string) ([]domain.ProcessHandle, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var found []domain.ProcessHandle
	for _, p := range m.procs {
		if p.BundleID == bundleID {
			found = append(found, p)
		}
	}
	return found, nil
}

func (m *mockProcessManager) IsRunning(pid int) bool {
	for _, p := range m.procs {
		if p.PID == pid {
			return true
		}
	}
	return false
}

func (m *mockProcessManager) start(p domain.ProcessHandle) {
	m.procs = append(m.procs, p)
}

func (m *mockProcessManager) stop(pid int) {
	kept := m.procs[:0]
	for _, p := range m.procs {
		if p.PID != pid {
			kept = append(kept, p)
		}
	}
	m.procs = kept
}

// mockSubscription implements domain.Subscription for testing
type mockSubscription struct {
	events       chan domain.WorkspaceEvent
	unsubscribed bool
}

func (s *mockSubscription) Events() <-chan domain.WorkspaceEvent {
	return s.events
}

func (s *mockSubscription) Unsubscribe() {
	s.unsubscribed = true
}

// mockNotifier implements domain.WorkspaceNotifier for testing
type mockNotifier struct {
	subscribeErr  error
	subscriptions []*mockSubscription
}

func (n *mockNotifier) Subscribe() (domain.Subscription, error) {
	if n.subscribeErr != nil {
		return nil, n.subscribeErr
	}
	sub := &mockSubscription{events: make(chan domain.WorkspaceEvent, 16)}
	n.subscriptions = append(n.subscriptions, sub)
	return sub, nil
}

func (n *mockNotifier) current() *mockSubscription {
	if len(n.subscriptions) == 0 {
		return nil
	}
	return n.subscriptions[len(n.subscriptions)-1]
}

// mockPowerManager implements domain.PowerManager for testing
type mockPowerManager struct {
	createErr  error
	releaseErr error
	nextID     domain.AssertionID
	created    int
	released   []domain.AssertionID
	live       map[domain.AssertionID]bool
	lastReason string
}

func newMockPowerManager() *mockPowerManager {
	return &mockPowerManager{live: make(map[domain.AssertionID]bool)}
}

func (m *mockPowerManager) CreateAssertion(reason string) (domain.AssertionID, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	m.created++
	m.live[m.nextID] = true
	m.lastReason = reason
	return m.nextID, nil
}

func (m *mockPowerManager) ReleaseAssertion(id domain.AssertionID) error {
	m.released = append(m.released, id)
	delete(m.live, id)
	return m.releaseErr
}

func (m *mockPowerManager) liveCount() int {
	return len(m.live)
}

// mockWindow implements domain.WindowElement for testing
type mockWindow struct {
	id  domain.WindowID
	err error
}

func (w *mockWindow) ResolveID() (domain.WindowID, error) {
	if w.err != nil {
		return 0, w.err
	}
	return w.id, nil
}

// mockAccessibility implements domain.AccessibilityClient for testing
type mockAccessibility struct {
	trusted     bool
	prompts     int
	checks      int
	windows     map[int][]domain.WindowElement
	windowsErr  error
	windowCalls int
}

func newMockAccessibility(trusted bool) *mockAccessibility {
	return &mockAccessibility{
		trusted: trusted,
		windows: make(map[int][]domain.WindowElement),
	}
}

func (m *mockAccessibility) IsProcessTrusted(prompt bool) bool {
	if prompt {
		m.prompts++
	} else {
		m.checks++
	}
	return m.trusted
}

func (m *mockAccessibility) WindowsOf(pid int) ([]domain.WindowElement, error) {
	m.windowCalls++
	if m.windowsErr != nil {
		return nil, m.windowsErr
	}
	return m.windows[pid], nil
}

func (m *mockAccessibility) setWindows(pid int, ids ...domain.WindowID) {
	elems := make([]domain.WindowElement, 0, len(ids))
	for _, id := range ids {
		elems = append(elems, &mockWindow{id: id})
	}
	m.windows[pid] = elems
}

// mockWindowServer implements domain.WindowServer for testing
type mockWindowServer struct {
	failIDs map[domain.WindowID]bool
	levels  map[domain.WindowID]domain.WindowLevel
	calls   []domain.WindowID
}

const floatingLevel domain.WindowLevel = 3

func newMockWindowServer() *mockWindowServer {
	return &mockWindowServer{
		failIDs: make(map[domain.WindowID]bool),
		levels:  make(map[domain.WindowID]domain.WindowLevel),
	}
}

func (m *mockWindowServer) FloatingLevel() domain.WindowLevel {
	return floatingLevel
}

func (m *mockWindowServer) SetWindowLevel(id domain.WindowID, level domain.WindowLevel) error {
	m.calls = append(m.calls, id)
	if m.failIDs[id] {
		return errMock
	}
	m.levels[id] = level
	return nil
}

func (m *mockWindowServer) reset() {
	m.calls = nil
	m.levels = make(map[domain.WindowID]domain.WindowLevel)
}

// manualTask implements domain.Task for testing
type manualTask struct {
	interval  time.Duration
	fn        func()
	cancelled bool
}

func (t *manualTask) Cancel() {
	t.cancelled = true
}

// manualScheduler implements domain.Scheduler; ticks fire only via fire()
type manualScheduler struct {
	tasks []*manualTask
}

func (s *manualScheduler) Schedule(interval time.Duration, fn func()) domain.Task {
	t := &manualTask{interval: interval, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *manualScheduler) fire() {
	for _, t := range s.tasks {
		if !t.cancelled {
			t.fn()
		}
	}
}

func (s *manualScheduler) activeTasks() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// mockLoginItems implements domain.LoginItemManager for testing
type mockLoginItems struct {
	enabled  bool
	setErr   error
	lastPath string
}

func (m *mockLoginItems) IsEnabled() bool {
	return m.enabled
}

func (m *mockLoginItems) SetEnabled(enabled bool, execPath string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.enabled = enabled
	m.lastPath = execPath
	return nil
}

func (m *mockLoginItems) NeedsUpdate(execPath string) bool {
	return m.enabled && m.lastPath != execPath
}

// Ensure mocks implement the interfaces
var (
	_ domain.ProcessManager      = (*mockProcessManager)(nil)
	_ domain.WorkspaceNotifier   = (*mockNotifier)(nil)
	_ domain.PowerManager        = (*mockPowerManager)(nil)
	_ domain.AccessibilityClient = (*mockAccessibility)(nil)
	_ domain.WindowServer        = (*mockWindowServer)(nil)
	_ domain.Scheduler           = (*manualScheduler)(nil)
	_ domain.LoginItemManager    = (*mockLoginItems)(nil)
)
