package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"swapd/internal/config"
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	logOut     io.Writer
}

// load reads the config file (if any) and returns it along with the logger
// built from the effective log settings.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	var cfg config.Config
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, zerolog.Nop(), err
		}
	}
	flags := cmd.Flags()
	cfg.LogLevel = pick(flags.Changed("log-level"), o.logLevel, cfg.LogLevel)
	cfg.LogFormat = pick(flags.Changed("log-format"), o.logFormat, cfg.LogFormat)
	log, err := newLogger(o.logOut, cfg.LogLevel, cfg.LogFormat)
	return cfg, log, err
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	opts := &rootOptions{logOut: logOut}
	root := &cobra.Command{
		Use:           "swapd",
		Short:         "Serve a periodically reloaded model with zero-downtime swaps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", envStr("SWAPD_CONFIG", ""), "Config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&opts.logLevel, "log-level", envStr("SWAPD_LOG", config.DefaultLogLevel), "Log level: debug|info|warn|error")
	pf.StringVar(&opts.logFormat, "log-format", envStr("SWAPD_LOG_FORMAT", config.DefaultLogFormat), "Log format: json|console")

	root.AddCommand(newServeCmd(opts), newVersionsCmd(opts), newScheduleCmd(opts))

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout()) }})
	root.AddCommand(completionCmd)
	return root
}
