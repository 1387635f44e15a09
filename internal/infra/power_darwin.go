//go:build darwin

package infra

/*
#cgo LDFLAGS: -framework IOKit -framework CoreFoundation
#include <stdlib.h>
#include <IOKit/pwr_mgt/IOPMLib.h>
#include <CoreFoundation/CoreFoundation.h>

static IOReturn ka_create_assertion(const char *reason, IOPMAssertionID *id) {
	CFStringRef name = CFStringCreateWithCString(kCFAllocatorDefault, reason, kCFStringEncodingUTF8);
	if (name == NULL) {
		return kIOReturnBadArgument;
	}
	IOReturn ret = IOPMAssertionCreateWithName(kIOPMAssertionTypeNoDisplaySleep,
		kIOPMAssertionLevelOn, name, id);
	CFRelease(name);
	return ret;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

// PowerManagerImpl implements domain.PowerManager with IOKit
// no-display-sleep assertions.
type PowerManagerImpl struct{}

// NewPowerManager creates a new power manager.
func NewPowerManager() *PowerManagerImpl {
	return &PowerManagerImpl{}
}

// CreateAssertion prevents display sleep until the assertion is released.
func (p *PowerManagerImpl) CreateAssertion(reason string) (domain.AssertionID, error) {
	cReason := C.CString(reason)
	defer C.free(unsafe.Pointer(cReason))

	var id C.IOPMAssertionID
	if ret := C.ka_create_assertion(cReason, &id); ret != 0 {
		return 0, fmt.Errorf("%w: IOPMAssertionCreateWithName returned 0x%x", domain.ErrAssertionFailed, uint32(ret))
	}
	return domain.AssertionID(id), nil
}

// ReleaseAssertion drops a previously created assertion.
func (p *PowerManagerImpl) ReleaseAssertion(id domain.AssertionID) error {
	if ret := C.IOPMAssertionRelease(C.IOPMAssertionID(id)); ret != 0 {
		return fmt.Errorf("IOPMAssertionRelease(%d) returned 0x%x", id, uint32(ret))
	}
	return nil
}

// Ensure PowerManagerImpl implements domain.PowerManager.
var _ domain.PowerManager = (*PowerManagerImpl)(nil)
