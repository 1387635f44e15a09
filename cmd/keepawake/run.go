package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/keep_awake/internal/config"
	"github.com/eliteGoblin/focusd/keep_awake/internal/daemon"
	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
	"github.com/eliteGoblin/focusd/keep_awake/internal/infra"
	"github.com/eliteGoblin/focusd/keep_awake/internal/menu"
	"github.com/eliteGoblin/focusd/keep_awake/internal/target"
)

// flagKeys maps run flags to config keys.
var flagKeys = map[string]string{
	"enabled":        "enabled",
	"float":          "float_windows",
	"float-interval": "float_interval",
	"poll-interval":  "poll_interval",
	"debug":          "debug",
}

// loadConfig resolves settings from defaults, file, env and the flags
// that were set on the command line.
func loadConfig(paths *infra.Paths, flags *pflag.FlagSet) (*config.Config, error) {
	v := config.New(paths.ConfigDir)
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}
	if err := config.ReadFile(v); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func agentConfigFrom(cfg *config.Config, execPath string) daemon.AgentConfig {
	ac := daemon.DefaultAgentConfig()
	ac.Enabled = cfg.Enabled
	ac.FloatWindows = cfg.FloatWindows
	ac.FloatInterval = cfg.FloatInterval
	ac.ExecPath = execPath
	return ac
}

// executablePath returns the running binary with symlinks resolved, so
// the login item survives package manager shims.
func executablePath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}

// refreshLoginItem rewrites an installed login item that points at a
// stale binary.
func refreshLoginItem(items domain.LoginItemManager, execPath string, logger *zap.Logger) {
	if execPath == "" || !items.NeedsUpdate(execPath) {
		return
	}
	if err := items.SetEnabled(true, execPath); err != nil {
		logger.Warn("failed to refresh login item", zap.Error(err))
		return
	}
	logger.Info("login item refreshed", zap.String("exec_path", execPath))
}

func runRun(cmd *cobra.Command, args []string) error {
	paths := infra.DetectPaths()
	cfg, err := loadConfig(paths, cmd.Flags())
	if err != nil {
		return err
	}

	logger := createLogger(resolveLogPath(cfg, paths), cfg.Debug)
	defer func() { _ = logger.Sync() }()

	execPath := executablePath()
	pm := infra.NewProcessManager()
	loginItems := infra.NewLoginItemManager(paths)
	refreshLoginItem(loginItems, execPath, logger)

	app := target.Claude()
	agent := daemon.NewAgent(agentConfigFrom(cfg, execPath), app, daemon.Deps{
		ProcessManager: pm,
		Notifier:       infra.NewWorkspaceWatcher(pm, cfg.PollInterval, logger.Named("workspace")),
		Power:          infra.NewPowerManager(),
		Accessibility:  infra.NewAccessibilityClient(),
		WindowServer:   infra.NewWindowServer(),
		LoginItems:     loginItems,
	}, logger)

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	if headless {
		return ignoreCanceled(agent.Run(ctx))
	}
	return runInteractive(ctx, cancel, agent, app, logger)
}

func runInteractive(ctx context.Context, cancel context.CancelFunc, agent *daemon.Agent, app target.App, logger *zap.Logger) error {
	p := tea.NewProgram(menu.New(app, newAgentController(agent), Version))
	agent.OnStatus(func(s domain.Status) { p.Send(menu.StatusMsg(s)) })

	errCh := make(chan error, 1)
	go func() { errCh <- agent.Run(ctx) }()

	go func() {
		select {
		case <-ctx.Done():
		case <-agent.Done():
		}
		p.Quit()
	}()

	_, uiErr := p.Run()
	cancel()
	runErr := ignoreCanceled(<-errCh)

	if uiErr != nil {
		logger.Error("menu failed", zap.Error(uiErr))
		return uiErr
	}
	return runErr
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
