package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"swapd/internal/manager"
	"swapd/internal/schedule"
)

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var (
		interval time.Duration
		index    int
		size     int
		at       string
		count    int
	)
	cmd := &cobra.Command{
		Use:     "schedule",
		Short:   "Print the staggered reload instants for a fleet position",
		Example: "  swapd schedule --fleet-index 3 --fleet-size 8 --reload-interval 30m",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			interval = pick(flags.Changed("reload-interval"), interval, cfg.ReloadInterval())
			index = pick(flags.Changed("fleet-index"), index, cfg.FleetIndex)
			size = pick(flags.Changed("fleet-size"), size, cfg.FleetSize)
			s := schedule.Stagger{Interval: interval, Index: index, Size: size, Tolerance: schedule.DefaultTolerance}
			if err := s.Validate(); err != nil {
				return err
			}
			now := time.Now()
			if at != "" {
				if now, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "interval %s, position %d/%d, offset %s\n", s.Interval, s.Index, s.Size, s.Offset())
			for i := 0; i < count; i++ {
				next := s.Next(now)
				fmt.Fprintf(out, "%s  (in %s)\n", next.UTC().Format(time.RFC3339), next.Sub(now).Round(time.Second))
				now = next
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.DurationVar(&interval, "reload-interval", envDuration("SWAPD_RELOAD_INTERVAL", manager.DefaultReloadInterval), "Reload grid period")
	fs.IntVar(&index, "fleet-index", envInt("SWAPD_FLEET_INDEX", 0), "Fleet position")
	fs.IntVar(&size, "fleet-size", envInt("SWAPD_FLEET_SIZE", 1), "Fleet size")
	fs.StringVar(&at, "at", "", "Compute from this RFC3339 instant instead of now")
	fs.IntVarP(&count, "count", "n", 3, "Number of upcoming instants to print")
	return cmd
}
