// Package main is the CLI entry point for keepawake.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "keepawake",
	Short: "Keep the Mac awake while Claude is running",
	Long: `keepawake watches for the Claude desktop app. While Claude runs it
holds a no-display-sleep power assertion, and it can optionally keep
Claude's windows floating above other windows.

Run it interactively for a status menu, or headless as a login item.`,
	Version:      Version,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent",
	Long: `Runs the keep-awake agent until quit. Without --headless a status menu
is shown with toggles for enabled (e), floating windows (f) and launch
at login (l). Press q to quit; the power assertion is released on exit.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether Claude is running and what keepawake would do",
	Long: `Probes the current state: whether Claude is running, whether the
accessibility permission is granted and whether the login item is
installed. Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Request the accessibility permission needed for floating windows",
	Args:  cobra.NoArgs,
	RunE:  runPermission,
}

var loginItemCmd = &cobra.Command{
	Use:       "login-item [on|off]",
	Short:     "Show or change launch at login",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runLoginItem,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	headless   bool
	jsonOutput bool
)

func init() {
	flags := runCmd.Flags()
	flags.BoolVar(&headless, "headless", false, "Run without the status menu (used by the login item)")
	flags.Bool("enabled", true, "Keep the system awake while Claude runs")
	flags.Bool("float", false, "Keep Claude windows floating")
	flags.Duration("float-interval", 0, "How often window levels are re-applied")
	flags.Duration("poll-interval", 0, "How often the process table is checked")
	flags.Bool("debug", false, "Enable debug logging")

	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(permissionCmd)
	rootCmd.AddCommand(loginItemCmd)
	rootCmd.AddCommand(versionCmd)
}
