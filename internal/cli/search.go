package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/libscout/libscout/pkg/discovery"
	"github.com/libscout/libscout/pkg/errors"
	"github.com/libscout/libscout/pkg/export"
)

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		category    string
		minStars    int
		sortBy      string
		order       string
		limit       int
		interactive bool
		output      string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search GitHub for script libraries",
		Long: `Search GitHub for AutoHotkey script libraries matching a query.

Without a query, popular libraries from curated topics are listed.
Results combine repository and code search, ranked by relevance.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if limit == 0 {
				limit = cfg.Limit
			}
			if sortBy == "" {
				sortBy = cfg.Sort
			}
			if order == "" {
				order = cfg.Order
			}

			svc, err := c.newService()
			if err != nil {
				return err
			}

			filters := discovery.Filters{
				Category:  category,
				MinStars:  minStars,
				SortBy:    sortBy,
				SortOrder: order,
			}

			prog := newProgress(c.Logger)
			spinner := newSpinner(ctx, "Searching...")
			spinner.Start()

			results, err := svc.SearchPackages(ctx, query, filters, limit)
			if err != nil {
				spinner.StopWithError("Search failed")
				if errors.IsRateLimited(err) {
					printDetail("%s", errors.UserMessage(err))
				}
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Found %d libraries", len(results)))

			if len(results) == 0 {
				printInfo("No libraries found")
				if query != "" {
					printDetail("Try a broader query or remove filters")
				}
				return nil
			}

			if output != "" {
				return writeOutput(query, results, output, format)
			}

			if interactive {
				return c.pickAndShow(ctx, svc, results)
			}

			printResults(results)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category (see 'libscout categories')")
	cmd.Flags().IntVar(&minStars, "min-stars", 0, "minimum star count")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort key: stars, updated, or name")
	cmd.Flags().StringVar(&order, "order", "", "sort order: asc or desc")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a result interactively")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write results to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "", "output format: json or csv (default from file extension)")

	return cmd
}

// writeOutput exports results to a file, inferring the format from the
// extension when --format is not given.
func writeOutput(query string, results []discovery.PackageResult, path, format string) error {
	if format == "" {
		if strings.HasSuffix(strings.ToLower(path), ".csv") {
			format = "csv"
		} else {
			format = "json"
		}
	}

	switch format {
	case "json":
		if err := export.ExportJSON(query, results, path); err != nil {
			return err
		}
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		if err := export.WriteCSV(results, f); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want json or csv)", format)
	}

	printSuccess("Wrote %d results", len(results))
	printDetail("File: %s", path)
	return nil
}

// printResults renders a result list to stdout.
func printResults(results []discovery.PackageResult) {
	fmt.Println()
	for i, r := range results {
		fmt.Printf("%s %s %s\n",
			StyleDim.Render(fmt.Sprintf("%2d.", i+1)),
			StyleTitle.Render(r.Name),
			StyleDim.Render("v"+r.Version),
		)
		if r.Description != "" {
			printDetail("%s", truncate(r.Description, 100))
		}
		fmt.Printf("    %s  %s  %s  %s\n",
			formatStars(r.Stars),
			styleCategory.Render(r.Category),
			StyleDim.Render(formatRelativeTime(r.UpdatedAt)),
			StyleLink.Render(r.RepositoryURL),
		)
	}
	fmt.Println()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
