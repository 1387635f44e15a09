package infra

import (
	"sort"
	"sync"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

// processLister abstracts the process table for testing
type processLister interface {
	Pids() ([]int32, error)
	Exe(pid int32) (string, error)
	Exists(pid int32) bool
}

// gopsutilLister reads the process table with gopsutil
type gopsutilLister struct{}

func (gopsutilLister) Pids() ([]int32, error) {
	return process.Pids()
}

func (gopsutilLister) Exe(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Exe()
}

func (gopsutilLister) Exists(pid int32) bool {
	ok, err := process.PidExists(pid)
	return err == nil && ok
}

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
// Each PID is resolved to its bundle once and cached until the PID
// disappears from the process table.
type ProcessManagerImpl struct {
	lister  processLister
	bundles *BundleResolver

	mu    sync.Mutex
	known map[int32]domain.ProcessHandle // zero handle for non-app processes
}

// NewProcessManager creates a new process manager.
func NewProcessManager() *ProcessManagerImpl {
	return newProcessManagerWithDeps(gopsutilLister{}, NewBundleResolver())
}

func newProcessManagerWithDeps(lister processLister, bundles *BundleResolver) *ProcessManagerImpl {
	return &ProcessManagerImpl{
		lister:  lister,
		bundles: bundles,
		known:   make(map[int32]domain.ProcessHandle),
	}
}

// Snapshot returns every running app-bundle process, ordered by PID.
func (pm *ProcessManagerImpl) Snapshot() ([]domain.ProcessHandle, error) {
	pids, err := pm.lister.Pids()
	if err != nil {
		return nil, err
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	seen := make(map[int32]struct{}, len(pids))
	var found []domain.ProcessHandle
	for _, pid := range pids {
		seen[pid] = struct{}{}
		h, ok := pm.known[pid]
		if !ok {
			h = pm.resolve(pid)
			pm.known[pid] = h
		}
		if h.BundleID != "" {
			found = append(found, h)
		}
	}

	for pid := range pm.known {
		if _, ok := seen[pid]; !ok {
			delete(pm.known, pid)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].PID < found[j].PID })
	return found, nil
}

// resolve maps pid to its app bundle. Processes that exit mid-scan or
// belong to another user resolve to the zero handle.
func (pm *ProcessManagerImpl) resolve(pid int32) domain.ProcessHandle {
	exe, err := pm.lister.Exe(pid)
	if err != nil {
		return domain.ProcessHandle{}
	}
	bundlePath, bundleID, ok := pm.bundles.Resolve(exe)
	if !ok {
		return domain.ProcessHandle{}
	}
	return domain.ProcessHandle{PID: int(pid), BundleID: bundleID, BundlePath: bundlePath}
}

// FindByBundleID returns the running processes of one application.
func (pm *ProcessManagerImpl) FindByBundleID(bundleID string) ([]domain.ProcessHandle, error) {
	procs, err := pm.Snapshot()
	if err != nil {
		return nil, err
	}

	var found []domain.ProcessHandle
	for _, p := range procs {
		if p.BundleID == bundleID {
			found = append(found, p)
		}
	}
	return found, nil
}

// IsRunning checks if a PID exists and is running.
func (pm *ProcessManagerImpl) IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	return pm.lister.Exists(int32(pid))
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
