package swapctl

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"swapd/internal/manager"
)

// Main runs the CLI with os.Args and exits non-zero on error.
func Main() {
	cfg := defaultConfig()
	root := buildRootCmdWith(cfg)
	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("swapctl failed")
		os.Exit(1)
	}
}

func defaultConfig() *Config {
	return &Config{
		ParentDir:       envStr("SWAPD_PARENT_DIR", ""),
		Prefix:          envStr("SWAPD_PREFIX", manager.DefaultPrefix),
		Marker:          envStr("SWAPD_MARKER", manager.DefaultMarker),
		SecondaryMarker: envStr("SWAPD_SECONDARY_MARKER", ""),
		LogLvl:          envStr("SWAPCTL_LOG_LEVEL", "info"),
	}
}

// buildRootCmdWith constructs the Cobra command tree bound to cfg.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "swapctl",
		Short:         "Publish, inspect and prune versions of a hot-swapped artifact",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	pf := root.PersistentFlags()
	pf.StringVar(&cfg.ParentDir, "parent-dir", cfg.ParentDir, "Artifact parent directory (defaults SWAPD_PARENT_DIR)")
	pf.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "Version directory name prefix (defaults SWAPD_PREFIX)")
	pf.StringVar(&cfg.Marker, "marker", cfg.Marker, "Marker file that makes a version valid (defaults SWAPD_MARKER)")
	pf.StringVar(&cfg.SecondaryMarker, "secondary-marker", cfg.SecondaryMarker, "Optional second marker file (defaults SWAPD_SECONDARY_MARKER)")
	pf.StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults SWAPCTL_LOG_LEVEL or info)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		SetLogLevel(cfg.LogLvl)
		if cmd.Name() == "completion" || cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}
		if cfg.ParentDir == "" {
			return fmt.Errorf("--parent-dir (or SWAPD_PARENT_DIR) is required")
		}
		return nil
	}

	var versionID string
	publishCmd := &cobra.Command{
		Use:     "publish <file|dir>",
		Short:   "Copy artifacts into a new version directory, marker last",
		Example: "  swapctl publish --parent-dir /data/models/ctr ./build/model.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := fnPublish(cfg, args[0], versionID, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.ID)
			return nil
		},
	}
	publishCmd.Flags().StringVar(&versionID, "version", "", "Explicit version directory name (default: prefix + UTC timestamp)")

	var asJSON bool
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List valid and invalid versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnList(cfg, cmd.OutOrStdout(), asJSON)
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	var keep int
	var dryRun bool
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all invalid versions and all but the newest --keep valid ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fnPrune(cfg, keep, dryRun, cmd.OutOrStdout())
			return err
		},
	}
	pruneCmd.Flags().IntVar(&keep, "keep", envInt("SWAPD_RETENTION", manager.DefaultRetention), "Valid versions to keep; negative keeps all (defaults SWAPD_RETENTION)")
	pruneCmd.Flags().BoolVar(&dryRun, "dry-run", envBool("SWAPCTL_DRY_RUN", false), "Only print what would be removed")

	root.AddCommand(publishCmd, listCmd, pruneCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout()) }})
	root.AddCommand(completionCmd)

	return root
}
