package usecase

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
)

var _ = Describe("Keep awake", func() {
	var f *coreFixture

	expectInvariant := func() {
		s := f.coordinator.Status()
		if s.AssertionActive {
			Expect(s.Enabled).To(BeTrue())
			Expect(s.TargetRunning).To(BeTrue())
		}
		Expect(f.power.liveCount()).To(BeNumerically("<=", 1))
	}

	BeforeEach(func() {
		f = newCoreFixture(true)
		f.start()
	})

	AfterEach(func() {
		expectInvariant()
	})

	Context("when the target launches while enabled", func() {
		It("acquires the assertion exactly once", func() {
			f.launch(100)

			Expect(f.power.created).To(Equal(1))
			Expect(f.coordinator.Status().AssertionActive).To(BeTrue())
		})
	})

	Context("when the target terminates with everything active", func() {
		It("tears down both resources in the same pass", func() {
			f.ax.setWindows(100, 1, 2)
			f.launch(100)
			Expect(f.coordinator.SetFloating(true)).To(Succeed())
			Expect(f.coordinator.Status().FloatingActive).To(BeTrue())

			f.terminate(100)

			s := f.coordinator.Status()
			Expect(s.AssertionActive).To(BeFalse())
			Expect(s.FloatingActive).To(BeFalse())
			Expect(f.scheduler.activeTasks()).To(BeZero())
		})
	})

	Context("when the user disables while the target runs", func() {
		It("releases and re-acquires on re-enable", func() {
			f.launch(100)

			f.coordinator.SetEnabled(false)
			Expect(f.coordinator.Status().AssertionActive).To(BeFalse())
			Expect(f.power.liveCount()).To(BeZero())

			f.coordinator.SetEnabled(true)
			Expect(f.coordinator.Status().AssertionActive).To(BeTrue())
			Expect(f.power.created).To(Equal(2))
		})
	})

	Context("when floating is enabled without permission", func() {
		BeforeEach(func() {
			f = newCoreFixture(false)
			f.start()
		})

		It("requests permission and touches no window", func() {
			f.ax.setWindows(100, 1)
			f.launch(100)

			err := f.coordinator.SetFloating(true)

			Expect(err).To(MatchError(domain.ErrPermissionDenied))
			Expect(f.ax.prompts).To(Equal(1))
			Expect(f.coordinator.Status().FloatingActive).To(BeFalse())
			Expect(f.ws.calls).To(BeEmpty())
		})
	})

	Context("when floating is enabled with two windows open", func() {
		It("levels both, then only the survivor after one closes", func() {
			f.ax.setWindows(100, 1, 2)
			f.launch(100)

			Expect(f.coordinator.SetFloating(true)).To(Succeed())
			Expect(f.ws.levels).To(HaveKeyWithValue(domain.WindowID(1), floatingLevel))
			Expect(f.ws.levels).To(HaveKeyWithValue(domain.WindowID(2), floatingLevel))

			f.ax.setWindows(100, 2)
			f.ws.reset()
			f.scheduler.fire()

			Expect(f.ws.calls).To(Equal([]domain.WindowID{2}))
			Expect(f.floating.LastReport()).To(Equal(domain.FloatReport{Windows: 1, Floated: 1}))
		})
	})

	Context("when the target launches while disabled", func() {
		It("acquires nothing", func() {
			f.coordinator.SetEnabled(false)

			f.launch(100)

			Expect(f.power.created).To(BeZero())
			Expect(f.coordinator.Status().AssertionActive).To(BeFalse())
		})
	})

	Context("after floating is disabled", func() {
		It("sets no level on later ticks", func() {
			f.ax.setWindows(100, 1)
			f.launch(100)
			Expect(f.coordinator.SetFloating(true)).To(Succeed())

			Expect(f.coordinator.SetFloating(false)).To(Succeed())
			f.ws.reset()
			for _, t := range f.scheduler.tasks {
				t.fn()
			}

			Expect(f.ws.calls).To(BeEmpty())
		})
	})

	Context("when acquire is called twice", func() {
		It("holds a single assertion", func() {
			f.launch(100)
			f.sleep.Acquire()
			f.sleep.Acquire()

			Expect(f.power.liveCount()).To(Equal(1))
		})
	})
})
