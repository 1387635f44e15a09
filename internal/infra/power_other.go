//go:build !darwin

package infra

import "github.com/eliteGoblin/focusd/keep_awake/internal/domain"

// PowerManagerImpl is unavailable off macOS.
type PowerManagerImpl struct{}

// NewPowerManager creates a power manager whose calls fail.
func NewPowerManager() *PowerManagerImpl {
	return &PowerManagerImpl{}
}

func (p *PowerManagerImpl) CreateAssertion(reason string) (domain.AssertionID, error) {
	return 0, domain.ErrUnsupported
}

func (p *PowerManagerImpl) ReleaseAssertion(id domain.AssertionID) error {
	return domain.ErrUnsupported
}

var _ domain.PowerManager = (*PowerManagerImpl)(nil)
