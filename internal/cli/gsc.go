package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi/gsc"
)

// gscCommand groups the Search Console subcommands.
func (c *CLI) gscCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gsc",
		Short: "Query Google Search Console",
	}

	cmd.AddCommand(c.gscSitesCommand())
	cmd.AddCommand(c.gscSitemapsCommand())
	cmd.AddCommand(c.gscSearchCommand())

	return cmd
}

// resolveSite accepts a site URL or a free-form query and returns the
// site URL.
func (c *CLI) resolveSite(cmd *cobra.Command, cl *clients, arg string) (string, error) {
	if errors.ValidateSiteURL(arg) == nil {
		return arg, nil
	}
	match, _, err := cl.resolver.FindSite(cmd.Context(), arg)
	if err != nil {
		return "", err
	}
	printDetail("resolved %q to %s via %s", arg, match.SiteURL, match.Method)
	return match.SiteURL, nil
}

func (c *CLI) gscSitesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List verified sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}

			sites, err := cl.search.Sites(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range sites {
				printRow([]string{s.SiteURL, s.PermissionLevel})
			}
			if len(sites) == 0 {
				printInfo("No sites")
			}
			return nil
		},
	}
}

func (c *CLI) gscSitemapsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sitemaps <site>",
		Short: "List submitted sitemaps for a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}
			site, err := c.resolveSite(cmd, cl, args[0])
			if err != nil {
				return err
			}

			sitemaps, err := cl.search.Sitemaps(cmd.Context(), site)
			if err != nil {
				return err
			}
			for _, sm := range sitemaps {
				status := "ok"
				switch {
				case sm.IsPending:
					status = "pending"
				case sm.Errors != "" && sm.Errors != "0":
					status = "errors: " + sm.Errors
				}
				printRow([]string{sm.Path, status, sm.LastSubmitted})
			}
			if len(sitemaps) == 0 {
				printInfo("No sitemaps")
			}
			return nil
		},
	}
}

func (c *CLI) gscSearchCommand() *cobra.Command {
	var (
		startDate  string
		endDate    string
		dimensions string
		rowLimit   int
	)

	cmd := &cobra.Command{
		Use:   "search <site>",
		Short: "Run a search analytics query",
		Long: `Query search analytics for a site and print the rows as a table.

The site argument accepts a full site URL ("https://example.com/" or
"sc-domain:example.com") or a free-form query that is resolved first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}
			site, err := c.resolveSite(cmd, cl, args[0])
			if err != nil {
				return err
			}
			for _, d := range []string{startDate, endDate} {
				if err := errors.ValidateDate(d); err != nil {
					return err
				}
			}

			spinner := newSpinnerWithContext(cmd.Context(), "Querying search analytics...")
			spinner.Start()
			rows, err := cl.search.Query(cmd.Context(), gsc.QueryRequest{
				SiteURL:    site,
				StartDate:  startDate,
				EndDate:    endDate,
				Dimensions: splitList(dimensions),
				RowLimit:   rowLimit,
			})
			if err != nil {
				spinner.StopWithError("Query failed")
				return err
			}
			spinner.Stop()

			printSearchRows(splitList(dimensions), rows)
			printDetail("%d rows", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "28daysAgo", "start date (YYYY-MM-DD or relative)")
	cmd.Flags().StringVar(&endDate, "end", "today", "end date (YYYY-MM-DD or relative)")
	cmd.Flags().StringVarP(&dimensions, "dimensions", "d", "query", "comma-separated dimensions")
	cmd.Flags().IntVar(&rowLimit, "limit", 25, "maximum rows")

	return cmd
}

// printSearchRows renders query rows as an aligned table.
func printSearchRows(dimensions []string, rows []gsc.QueryRow) {
	headers := append(append([]string{}, dimensions...), "clicks", "impressions", "ctr", "position")

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		cols := append([]string{}, row.Keys...)
		cols = append(cols,
			fmt.Sprintf("%.0f", row.Clicks),
			fmt.Sprintf("%.0f", row.Impressions),
			fmt.Sprintf("%.2f%%", row.CTR*100),
			fmt.Sprintf("%.1f", row.Position),
		)
		tableRows = append(tableRows, cols)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(tableRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			return StyleValue
		})
	fmt.Println(t.Render())
}
