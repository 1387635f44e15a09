package usecase

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestKeepAwakeScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Keep Awake Scenario Suite")
}
