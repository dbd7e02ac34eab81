package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
	"github.com/pyushmatania/version-8-circle-sub002/internal/query"
)

func newSearchCmd(flags *globalFlags) *cobra.Command {
	q := models.NewQuery()
	var sortField, sortOrder string

	cmd := &cobra.Command{
		Use:   "search [term...]",
		Short: "Search the catalog",
		Long: `Runs a search against the YAML catalog. With no term and no filters
the search is inactive and nothing is listed.

Example:
  catalogctl search nolan --type film --sort rating --order desc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Term = strings.Join(args, " ")
			q.SortField = models.SortField(sortField)
			q.SortOrder = models.SortOrder(sortOrder)

			normalized, err := q.Normalize()
			if err != nil {
				return fmt.Errorf("invalid query: %w", err)
			}

			projects, err := loadCatalog(cmd.Context(), flags)
			if err != nil {
				return err
			}

			result := query.Evaluate(projects, normalized)
			out := cmd.OutOrStdout()
			if flags.jsonOut {
				return printJSON(out, result)
			}
			if !result.Active {
				fmt.Fprintln(out, "No active search")
				return nil
			}
			fmt.Fprintf(out, "Found %d projects\n", result.Total)
			return printProjects(out, result.Projects)
		},
	}

	f := cmd.Flags()
	f.StringVar(&q.Category, "category", models.Wildcard, "category filter")
	f.StringVar(&q.Kind, "type", models.Wildcard, "project type filter (film, music, webseries)")
	f.StringVar(&q.Language, "language", models.Wildcard, "language filter")
	f.StringVar(&q.Genre, "genre", models.Wildcard, "genre filter (substring)")
	f.Float64Var(&q.Funding.Min, "min-funding", 0, "minimum funded percentage")
	f.Float64Var(&q.Funding.Max, "max-funding", 100, "maximum funded percentage")
	f.StringVar(&sortField, "sort", string(models.SortRelevance), "sort field (relevance, title, fundedPercentage, targetAmount, rating, timeLeft)")
	f.StringVar(&sortOrder, "order", string(models.SortAsc), "sort order (asc, desc)")
	return cmd
}

func newFacetsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List the filter values present in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := loadCatalog(cmd.Context(), flags)
			if err != nil {
				return err
			}

			facets := query.ExtractFacets(projects)
			out := cmd.OutOrStdout()
			if flags.jsonOut {
				return printJSON(out, facets)
			}
			fmt.Fprintf(out, "categories: %s\n", joinFacet(facets.Categories))
			fmt.Fprintf(out, "types:      %s\n", joinFacet(facets.Kinds))
			fmt.Fprintf(out, "languages:  %s\n", joinFacet(facets.Languages))
			fmt.Fprintf(out, "genres:     %s\n", joinFacet(facets.Genres))
			return nil
		},
	}
}

func newTrendingCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "List the most-funded projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := loadCatalog(cmd.Context(), flags)
			if err != nil {
				return err
			}

			trending := query.Trending(projects)
			if flags.jsonOut {
				return printJSON(cmd.OutOrStdout(), trending)
			}
			return printProjects(cmd.OutOrStdout(), trending)
		},
	}
}
