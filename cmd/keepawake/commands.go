package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
	"github.com/eliteGoblin/focusd/keep_awake/internal/infra"
	"github.com/eliteGoblin/focusd/keep_awake/internal/target"
)

// probeReport is a point-in-time view from outside the agent.
type probeReport struct {
	Target          string `json:"target"`
	TargetRunning   bool   `json:"target_running"`
	PIDs            []int  `json:"pids"`
	AccessibilityOK bool   `json:"accessibility_trusted"`
	LaunchAtLogin   bool   `json:"launch_at_login"`
	LoginItemStale  bool   `json:"login_item_stale"`
	LoginItemPlist  string `json:"login_item_plist"`
	ExecutablePath  string `json:"executable_path"`
}

func probe(app target.App, pm domain.ProcessManager, ax domain.AccessibilityClient, items *infra.LaunchAgentManager, execPath string) (probeReport, error) {
	report := probeReport{
		Target:          app.BundleID,
		PIDs:            []int{},
		AccessibilityOK: ax.IsProcessTrusted(false),
		LaunchAtLogin:   items.IsEnabled(),
		LoginItemStale:  items.NeedsUpdate(execPath),
		LoginItemPlist:  items.GetPlistPath(),
		ExecutablePath:  execPath,
	}

	procs, err := pm.FindByBundleID(app.BundleID)
	if err != nil {
		return report, fmt.Errorf("failed to list processes: %w", err)
	}
	for _, p := range procs {
		report.PIDs = append(report.PIDs, p.PID)
	}
	report.TargetRunning = len(procs) > 0
	return report, nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	app := target.Claude()
	report, err := probe(app, infra.NewProcessManager(), infra.NewAccessibilityClient(),
		infra.NewLoginItemManager(infra.DetectPaths()), executablePath())
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println("\n=== keepawake Status ===")
	if report.TargetRunning {
		fmt.Printf("%s: running (pids %v)\n", app.Name, report.PIDs)
	} else {
		fmt.Printf("%s: not running\n", app.Name)
	}
	if report.AccessibilityOK {
		fmt.Println("Accessibility: granted (window floating available)")
	} else {
		fmt.Println("Accessibility: not granted (run 'keepawake permission')")
	}
	if report.LaunchAtLogin {
		fmt.Printf("Launch at login: enabled (%s)\n", report.LoginItemPlist)
		if report.LoginItemStale {
			fmt.Println("        Login item points at another binary; it is refreshed on next 'keepawake run'")
		}
	} else {
		fmt.Println("Launch at login: disabled")
	}
	fmt.Println("========================")
	return nil
}

func runPermission(cmd *cobra.Command, args []string) error {
	ax := infra.NewAccessibilityClient()
	if ax.IsProcessTrusted(false) {
		fmt.Println("Accessibility permission already granted.")
		return nil
	}

	// Shows the system dialog; the grant itself happens in System Settings.
	ax.IsProcessTrusted(true)
	fmt.Println("Accessibility permission requested.")
	fmt.Println("Enable keepawake in System Settings > Privacy & Security > Accessibility,")
	fmt.Println("then toggle window floating again.")
	return nil
}

func runLoginItem(cmd *cobra.Command, args []string) error {
	items := infra.NewLoginItemManager(infra.DetectPaths())

	if len(args) == 0 {
		if items.IsEnabled() {
			fmt.Printf("Launch at login: enabled (%s)\n", items.GetPlistPath())
		} else {
			fmt.Println("Launch at login: disabled")
		}
		return nil
	}

	enabled := args[0] == "on"
	if err := items.SetEnabled(enabled, executablePath()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLoginItem, err)
	}
	if enabled {
		fmt.Printf("Launch at login enabled (%s)\n", items.GetPlistPath())
	} else {
		fmt.Println("Launch at login disabled")
	}
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("keepawake %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
