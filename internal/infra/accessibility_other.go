//go:build !darwin

package infra

import "github.com/eliteGoblin/focusd/keep_awake/internal/domain"

// AccessibilityClientImpl is unavailable off macOS.
type AccessibilityClientImpl struct{}

// NewAccessibilityClient creates a client that is never trusted.
func NewAccessibilityClient() *AccessibilityClientImpl {
	return &AccessibilityClientImpl{}
}

func (a *AccessibilityClientImpl) IsProcessTrusted(prompt bool) bool {
	return false
}

func (a *AccessibilityClientImpl) WindowsOf(pid int) ([]domain.WindowElement, error) {
	return nil, domain.ErrUnsupported
}

// WindowServerImpl is unavailable off macOS.
type WindowServerImpl struct{}

// NewWindowServer creates a window server client whose calls fail.
func NewWindowServer() *WindowServerImpl {
	return &WindowServerImpl{}
}

// FloatingLevel returns the macOS floating level constant.
func (s *WindowServerImpl) FloatingLevel() domain.WindowLevel {
	return 3
}

func (s *WindowServerImpl) SetWindowLevel(id domain.WindowID, level domain.WindowLevel) error {
	return domain.ErrUnsupported
}

var (
	_ domain.AccessibilityClient = (*AccessibilityClientImpl)(nil)
	_ domain.WindowServer        = (*WindowServerImpl)(nil)
)
