package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"swapd/internal/registry"
)

func newVersionsCmd(opts *rootOptions) *cobra.Command {
	f := &serveFlags{}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List the valid and invalid versions the server would see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg = f.merge(cfg, cmd.Flags())
			if cfg.ParentDir == "" {
				return fmt.Errorf("--parent-dir is required")
			}
			l, err := registry.Scanner{
				ParentDir:       cfg.ParentDir,
				Prefix:          cfg.Prefix,
				Marker:          cfg.Marker,
				SecondaryMarker: cfg.SecondaryMarker,
			}.Scan()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(l)
			}
			newest, ok := l.Newest()
			for _, v := range l.Valid {
				mark := ""
				if ok && v.ID == newest.ID {
					mark = " *"
				}
				fmt.Fprintf(out, "valid    %s%s\n", v.ID, mark)
			}
			for _, v := range l.Invalid {
				fmt.Fprintf(out, "invalid  %s\n", v.ID)
			}
			return nil
		},
	}
	f.registerArtifact(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
