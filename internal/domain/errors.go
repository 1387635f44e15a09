package domain

import "errors"

var (
	// ErrPermissionDenied means accessibility trust has not been granted.
	ErrPermissionDenied = errors.New("accessibility permission not granted")

	// ErrAssertionFailed means the OS declined the power assertion.
	ErrAssertionFailed = errors.New("power assertion creation failed")

	// ErrWindowUnresolved means a window could not be read or leveled.
	ErrWindowUnresolved = errors.New("window could not be resolved")

	// ErrLoginItem means the login item could not be registered or removed.
	ErrLoginItem = errors.New("login item registration failed")

	// ErrNotRunning means the target process is not running.
	ErrNotRunning = errors.New("target process not running")

	// ErrUnsupported means the OS facility is unavailable on this platform.
	ErrUnsupported = errors.New("not supported on this platform")
)
