package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"eipw/internal/config"
	"eipw/internal/lints"
)

var listLintsCmd = &cobra.Command{
	Use:   "list-lints",
	Short: "List the lints that check would run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := commandSettings(cmd)
		if err != nil {
			return err
		}
		cfg, err := loadLintConfig(s.LintConfig)
		if err != nil {
			return err
		}
		showKinds, err := cmd.Flags().GetBool("kinds")
		if err != nil {
			return fmt.Errorf("failed to get kinds flag: %w", err)
		}
		return listLints(cmd.OutOrStdout(), cfg, !s.NoDefaultLints, showKinds)
	},
}

func init() {
	listLintsCmd.Flags().StringP("lint-config", "c", "", "lint configuration file (default: eipw.toml found upwards)")
	listLintsCmd.Flags().Bool("no-default-lints", false, "leave out the built-in lints")
	listLintsCmd.Flags().Bool("kinds", false, "print the kind of each lint")
}

func listLints(out io.Writer, cfg *config.Config, withDefaults, showKinds bool) error {
	entries := cfg.Entries(withDefaults)
	if !showKinds {
		for _, e := range entries {
			fmt.Fprintln(out, e.Slug)
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		kind := lints.KindOf(e.Lint)
		if kind == "" {
			kind = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Slug, kind, e.Severity)
	}
	return tw.Flush()
}
