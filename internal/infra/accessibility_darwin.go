//go:build darwin

package infra

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>

typedef int CGSConnectionID;
extern CGSConnectionID CGSMainConnectionID(void);
extern CGError CGSSetWindowLevel(CGSConnectionID cid, CGWindowID wid, CGWindowLevel level);
extern AXError _AXUIElementGetWindow(AXUIElementRef element, CGWindowID *wid);

static int ka_is_trusted(int prompt) {
	if (!prompt) {
		return AXIsProcessTrusted();
	}
	const void *keys[] = { kAXTrustedCheckOptionPrompt };
	const void *values[] = { kCFBooleanTrue };
	CFDictionaryRef opts = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
		&kCFCopyStringDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
	Boolean trusted = AXIsProcessTrustedWithOptions(opts);
	CFRelease(opts);
	return trusted;
}

// Fills ids for up to max windows of pid. ok[i] is 0 when window i has
// no window server id. Returns the count, or -1 if the list is unreadable.
static int ka_copy_window_ids(int pid, unsigned int *ids, int *ok, int max) {
	AXUIElementRef app = AXUIElementCreateApplication(pid);
	if (app == NULL) {
		return -1;
	}
	CFArrayRef windows = NULL;
	AXError err = AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, (CFTypeRef *)&windows);
	CFRelease(app);
	if (err == kAXErrorNoValue) {
		return 0;
	}
	if (err != kAXErrorSuccess || windows == NULL) {
		return -1;
	}
	CFIndex n = CFArrayGetCount(windows);
	if (n > max) {
		n = max;
	}
	for (CFIndex i = 0; i < n; i++) {
		AXUIElementRef w = (AXUIElementRef)CFArrayGetValueAtIndex(windows, i);
		CGWindowID wid = 0;
		ok[i] = _AXUIElementGetWindow(w, &wid) == kAXErrorSuccess && wid != 0;
		ids[i] = wid;
	}
	CFRelease(windows);
	return (int)n;
}

static int ka_set_window_level(unsigned int wid, int level) {
	return CGSSetWindowLevel(CGSMainConnectionID(), wid, level);
}

static int ka_floating_level(void) {
	return CGWindowLevelForKey(kCGFloatingWindowLevelKey);
}
*/
import "C"

import (
	"fmt"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

// maxWindows caps how many windows of one app are levelled per poll.
const maxWindows = 64

// AccessibilityClientImpl implements domain.AccessibilityClient with the
// AX API.
type AccessibilityClientImpl struct{}

// NewAccessibilityClient creates a new accessibility client.
func NewAccessibilityClient() *AccessibilityClientImpl {
	return &AccessibilityClientImpl{}
}

// IsProcessTrusted reports whether this process may use the AX API.
func (a *AccessibilityClientImpl) IsProcessTrusted(prompt bool) bool {
	p := 0
	if prompt {
		p = 1
	}
	return C.ka_is_trusted(C.int(p)) != 0
}

// WindowsOf returns pid's windows with their ids already resolved, so
// no AX reference outlives the call.
func (a *AccessibilityClientImpl) WindowsOf(pid int) ([]domain.WindowElement, error) {
	var ids [maxWindows]C.uint
	var ok [maxWindows]C.int

	n := int(C.ka_copy_window_ids(C.int(pid), &ids[0], &ok[0], maxWindows))
	if n < 0 {
		return nil, fmt.Errorf("failed to read windows of pid %d", pid)
	}

	windows := make([]domain.WindowElement, 0, n)
	for i := 0; i < n; i++ {
		w := axWindow{id: domain.WindowID(ids[i])}
		if ok[i] == 0 {
			w.err = domain.ErrWindowUnresolved
		}
		windows = append(windows, w)
	}
	return windows, nil
}

type axWindow struct {
	id  domain.WindowID
	err error
}

func (w axWindow) ResolveID() (domain.WindowID, error) {
	return w.id, w.err
}

// WindowServerImpl implements domain.WindowServer with the private
// CGS window level call.
type WindowServerImpl struct{}

// NewWindowServer creates a new window server client.
func NewWindowServer() *WindowServerImpl {
	return &WindowServerImpl{}
}

// FloatingLevel returns the system floating window level.
func (s *WindowServerImpl) FloatingLevel() domain.WindowLevel {
	return domain.WindowLevel(C.ka_floating_level())
}

// SetWindowLevel moves one window to level.
func (s *WindowServerImpl) SetWindowLevel(id domain.WindowID, level domain.WindowLevel) error {
	if rc := C.ka_set_window_level(C.uint(id), C.int(level)); rc != 0 {
		return fmt.Errorf("CGSSetWindowLevel(%d) returned %d", id, int(rc))
	}
	return nil
}

var (
	_ domain.AccessibilityClient = (*AccessibilityClientImpl)(nil)
	_ domain.WindowServer        = (*WindowServerImpl)(nil)
)
