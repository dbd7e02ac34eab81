// Command catalogctl queries and maintains a project catalog from the
// command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pyushmatania/version-8-circle-sub002/internal/catalog"
	"github.com/pyushmatania/version-8-circle-sub002/internal/logging"
	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	catalogDir string
	logLevel   string
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Query and maintain the project catalog",
		Long: `catalogctl runs catalog searches offline against a YAML catalog
directory, checks poster URLs, and seeds or migrates the Postgres catalog.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logging.ParseLevel(flags.logLevel),
			})))
		},
	}

	root.PersistentFlags().StringVar(&flags.catalogDir, "catalog-dir", envOr("CATALOG_DIR", "./catalog"), "YAML catalog directory")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newSearchCmd(flags),
		newFacetsCmd(flags),
		newTrendingCmd(flags),
		newPostersCmd(flags),
		newSeedCmd(flags),
		newMigrateCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// loadCatalog reads the YAML catalog named by the global flags
func loadCatalog(ctx context.Context, flags *globalFlags) ([]*models.Project, error) {
	projects, err := catalog.NewLoader(flags.catalogDir).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return projects, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProjects(w io.Writer, projects []*models.Project) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tCATEGORY\tLANGUAGE\tFUNDED\tRAISED\tRATING\tTIME LEFT")
	for _, p := range projects {
		rating := "-"
		if p.Rating != nil {
			rating = fmt.Sprintf("%.1f", *p.Rating)
		}
		timeLeft := p.TimeLeft
		if timeLeft == "" {
			timeLeft = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.0f%%\t%.0f\t%s\t%s\n",
			p.ID, p.Title, p.Kind, p.Category, p.Language,
			p.FundedPercentage, p.RaisedAmount, rating, timeLeft)
	}
	return tw.Flush()
}

func joinFacet(values []string) string {
	return strings.Join(values, ", ")
}
