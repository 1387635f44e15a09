package usecase

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

// SleepAssertionManager holds at most one "prevent display sleep" assertion.
type SleepAssertionManager struct {
	power  domain.PowerManager
	reason string
	logger *zap.Logger

	assertion domain.AssertionID
	active    bool
}

// NewSleepAssertionManager creates a manager that names its assertion reason.
func NewSleepAssertionManager(power domain.PowerManager, reason string, logger *zap.Logger) *SleepAssertionManager {
	return &SleepAssertionManager{
		power:  power,
		reason: reason,
		logger: logger,
	}
}

// Acquire creates the assertion unless one is already held.
// Returns true if an assertion is held afterwards.
func (s *SleepAssertionManager) Acquire() bool {
	if s.active {
		return true
	}

	id, err := s.power.CreateAssertion(s.reason)
	if err != nil {
		s.logger.Warn("failed to create sleep assertion",
			zap.String("reason", s.reason),
			zap.Error(err))
		return false
	}

	s.assertion = id
	s.active = true
	s.logger.Info("display sleep prevented", zap.Uint32("assertion_id", uint32(id)))
	return true
}

// Release drops the held assertion, if any.
func (s *SleepAssertionManager) Release() {
	if !s.active {
		return
	}

	if err := s.power.ReleaseAssertion(s.assertion); err != nil {
		// The handle is unusable either way; don't keep reporting it as held.
		s.logger.Warn("failed to release sleep assertion",
			zap.Uint32("assertion_id", uint32(s.assertion)),
			zap.Error(err))
	} else {
		s.logger.Info("display sleep allowed", zap.Uint32("assertion_id", uint32(s.assertion)))
	}

	s.assertion = 0
	s.active = false
}

// IsActive reports whether an assertion is held.
func (s *SleepAssertionManager) IsActive() bool {
	return s.active
}

// Shutdown releases any held assertion.
func (s *SleepAssertionManager) Shutdown() {
	s.Release()
}
