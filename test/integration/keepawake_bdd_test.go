//go:build integration && darwin

package integration

import (
	"context"
	"os"
	"os/exec"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/keep_awake/internal/daemon"
	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
	"github.com/eliteGoblin/focusd/keep_awake/internal/infra"
	"github.com/eliteGoblin/focusd/keep_awake/internal/target"
	"github.com/eliteGoblin/focusd/keep_awake/test/fixtures"
)

const fixtureBundleID = "com.focusd.keepawake.fixture"

var _ = Describe("Keep awake on a real process table", func() {
	var (
		tmpDir  string
		fakeApp *fixtures.FakeAppBundle
		running *exec.Cmd
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "keepawake-integration-*")
		Expect(err).NotTo(HaveOccurred())

		fakeApp = fixtures.NewFakeAppBundle(tmpDir, "Fixture", fixtureBundleID)
		Expect(fakeApp.Create()).To(Succeed())
	})

	AfterEach(func() {
		fixtures.Kill(running)
		running = nil
		os.RemoveAll(tmpDir)
	})

	launch := func() int {
		var err error
		running, err = fakeApp.Launch()
		Expect(err).NotTo(HaveOccurred())
		return running.Process.Pid
	}

	Describe("ProcessManager", func() {
		It("finds the app by bundle id while it runs", func() {
			pm := infra.NewProcessManager()
			pid := launch()

			Eventually(func() []domain.ProcessHandle {
				procs, _ := pm.FindByBundleID(fixtureBundleID)
				return procs
			}, 5*time.Second, 100*time.Millisecond).Should(ContainElement(domain.ProcessHandle{
				PID:        pid,
				BundleID:   fixtureBundleID,
				BundlePath: fakeApp.BundlePath(),
			}))
			Expect(pm.IsRunning(pid)).To(BeTrue())

			fixtures.Kill(running)
			running = nil

			Eventually(func() []domain.ProcessHandle {
				procs, _ := pm.FindByBundleID(fixtureBundleID)
				return procs
			}, 5*time.Second, 100*time.Millisecond).Should(BeEmpty())
			Expect(pm.IsRunning(pid)).To(BeFalse())
		})
	})

	Describe("WorkspaceWatcher", func() {
		It("reports launch and termination", func() {
			watcher := infra.NewWorkspaceWatcher(infra.NewProcessManager(), 100*time.Millisecond, zap.NewNop())
			sub, err := watcher.Subscribe()
			Expect(err).NotTo(HaveOccurred())
			defer sub.Unsubscribe()

			pid := launch()
			Eventually(sub.Events(), 5*time.Second).Should(Receive(And(
				HaveField("Kind", domain.ProcessLaunched),
				HaveField("Process.PID", pid),
			)))

			fixtures.Kill(running)
			running = nil
			Eventually(sub.Events(), 5*time.Second).Should(Receive(And(
				HaveField("Kind", domain.ProcessTerminated),
				HaveField("Process.PID", pid),
			)))
		})
	})

	Describe("LaunchAgentManager", func() {
		It("round-trips the login item plist", func() {
			items := infra.NewLoginItemManagerWithDir(tmpDir)

			Expect(items.SetEnabled(true, "/usr/local/bin/keepawake")).To(Succeed())
			Expect(items.IsEnabled()).To(BeTrue())
			Expect(exec.Command("plutil", "-lint", items.GetPlistPath()).Run()).To(Succeed())

			Expect(items.SetEnabled(false, "")).To(Succeed())
			Expect(items.IsEnabled()).To(BeFalse())
		})
	})

	Describe("Agent", func() {
		It("holds a real assertion only while the app runs", func() {
			pm := infra.NewProcessManager()
			agent := daemon.NewAgent(daemon.DefaultAgentConfig(),
				target.App{BundleID: fixtureBundleID, Name: "Fixture"},
				daemon.Deps{
					ProcessManager: pm,
					Notifier:       infra.NewWorkspaceWatcher(pm, 100*time.Millisecond, zap.NewNop()),
					Power:          infra.NewPowerManager(),
					Accessibility:  infra.NewAccessibilityClient(),
					WindowServer:   infra.NewWindowServer(),
				}, zap.NewNop())

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- agent.Run(ctx) }()

			status := func() domain.Status {
				s, _ := agent.Status(context.Background())
				return s
			}

			Eventually(status, 2*time.Second).Should(HaveField("TargetRunning", false))

			launch()
			Eventually(status, 5*time.Second, 100*time.Millisecond).Should(And(
				HaveField("TargetRunning", true),
				HaveField("AssertionActive", true),
			))

			fixtures.Kill(running)
			running = nil
			Eventually(status, 5*time.Second, 100*time.Millisecond).Should(HaveField("AssertionActive", false))

			cancel()
			Eventually(done, 2*time.Second).Should(Receive(MatchError(context.Canceled)))
		})
	})
})
