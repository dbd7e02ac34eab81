package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyushmatania/version-8-circle-sub002/internal/poster"
)

func newPostersCmd(flags *globalFlags) *cobra.Command {
	var cfg poster.Config
	var failOnPlaceholder bool

	cmd := &cobra.Command{
		Use:   "posters",
		Short: "Check every poster URL in the catalog",
		Long: `Probes each project's poster URL one at a time, falling back to the
known alternate for its title and then to the placeholder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := loadCatalog(cmd.Context(), flags)
			if err != nil {
				return err
			}

			results := poster.NewValidator(cfg, nil).ResolveAll(cmd.Context(), projects)

			out := cmd.OutOrStdout()
			if flags.jsonOut {
				if err := printJSON(out, results); err != nil {
					return err
				}
			} else {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tSOURCE\tURL")
				for _, r := range results {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ProjectID, r.Source, r.URL)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			if failOnPlaceholder {
				for _, r := range results {
					if r.Source == poster.SourcePlaceholder {
						return fmt.Errorf("project %s has no working poster", r.ProjectID)
					}
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "per-request timeout")
	f.IntVar(&cfg.Retries, "retries", 3, "attempts per URL")
	f.DurationVar(&cfg.Delay, "delay", 250*time.Millisecond, "pause between requests")
	f.StringVar(&cfg.Placeholder, "placeholder", "https://placehold.co/600x900?text=Circles", "placeholder poster URL")
	f.BoolVar(&failOnPlaceholder, "strict", false, "exit non-zero when any project falls back to the placeholder")
	return cmd
}
