package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi/ga4"
)

// ga4Command groups the Google Analytics subcommands.
func (c *CLI) ga4Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ga4",
		Short: "Query Google Analytics 4",
	}

	cmd.AddCommand(c.ga4SummariesCommand())
	cmd.AddCommand(c.ga4ReportCommand())
	cmd.AddCommand(c.ga4StreamsCommand())
	cmd.AddCommand(c.ga4EventsCommand())
	cmd.AddCommand(c.ga4DefinitionsCommand())
	cmd.AddCommand(c.ga4AdsLinksCommand())

	return cmd
}

// resolveProperty accepts either a property ID or a free-form query and
// returns the property ID.
func (c *CLI) resolveProperty(cmd *cobra.Command, cl *clients, arg string) (string, error) {
	if errors.ValidatePropertyID(arg) == nil {
		return arg, nil
	}
	match, _, err := cl.resolver.FindProperty(cmd.Context(), arg)
	if err != nil {
		return "", err
	}
	printDetail("resolved %q to %s via %s", arg, match.PropertyID, match.Method)
	return match.PropertyID, nil
}

func (c *CLI) ga4SummariesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List account summaries and their properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}

			p := newProgress(c.Logger)
			summaries, err := cl.analytics.AccountSummaries(cmd.Context())
			if err != nil {
				return err
			}

			total := 0
			for _, acct := range summaries {
				fmt.Println(StyleTitle.Render(acct.DisplayName) + " " + StyleDim.Render(acct.Account))
				for _, prop := range acct.PropertySummaries {
					printRow([]string{prop.Property, prop.DisplayName, prop.WebsiteURL})
					total++
				}
			}
			p.done(fmt.Sprintf("Listed %d properties", total))
			return nil
		},
	}
}

func (c *CLI) ga4ReportCommand() *cobra.Command {
	var (
		property   string
		metrics    string
		dimensions string
		startDate  string
		endDate    string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a Data API report against a property",
		Long: `Run a report and print the rows as a table.

The --property flag accepts a numeric property ID, a properties/N
resource name, or a free-form query (domain or name) that is resolved
first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}

			id, err := c.resolveProperty(cmd, cl, property)
			if err != nil {
				return err
			}
			for _, d := range []string{startDate, endDate} {
				if err := errors.ValidateDate(d); err != nil {
					return err
				}
			}

			spinner := newSpinnerWithContext(cmd.Context(), "Running report...")
			spinner.Start()
			report, err := cl.analytics.RunReport(cmd.Context(), ga4.ReportRequest{
				PropertyID: id,
				Dimensions: splitList(dimensions),
				Metrics:    splitList(metrics),
				StartDate:  startDate,
				EndDate:    endDate,
				Limit:      limit,
			})
			if err != nil {
				spinner.StopWithError("Report failed")
				return err
			}
			spinner.Stop()

			printReport(report)
			printDetail("%d rows", report.RowCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&property, "property", "p", "", "property ID or query to resolve (required)")
	cmd.Flags().StringVarP(&metrics, "metrics", "m", "sessions", "comma-separated metric names")
	cmd.Flags().StringVarP(&dimensions, "dimensions", "d", "", "comma-separated dimension names")
	cmd.Flags().StringVar(&startDate, "start", "28daysAgo", "start date (YYYY-MM-DD or relative)")
	cmd.Flags().StringVar(&endDate, "end", "today", "end date (YYYY-MM-DD or relative)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	_ = cmd.MarkFlagRequired("property")

	return cmd
}

// printReport renders report rows as an aligned table.
func printReport(report *ga4.Report) {
	headers := append(append([]string{}, report.DimensionHeaders...), report.MetricHeaders...)

	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, append(append([]string{}, row.DimensionValues...), row.MetricValues...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			return StyleValue
		})
	fmt.Println(t.Render())
}

func (c *CLI) ga4StreamsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "streams <property>",
		Short: "List a property's data streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}
			id, err := c.resolveProperty(cmd, cl, args[0])
			if err != nil {
				return err
			}

			streams, err := cl.analytics.DataStreams(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, s := range streams {
				detail := s.Type
				if s.WebStreamData != nil {
					detail = fmt.Sprintf("%s %s", s.WebStreamData.MeasurementID, s.WebStreamData.DefaultURI)
				}
				printRow([]string{s.Name, s.DisplayName, detail})
			}
			if len(streams) == 0 {
				printInfo("No data streams")
			}
			return nil
		},
	}
}

func (c *CLI) ga4EventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "events <property>",
		Short: "List conversion and key events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}
			id, err := c.resolveProperty(cmd, cl, args[0])
			if err != nil {
				return err
			}

			events, err := cl.analytics.ConversionEvents(cmd.Context(), id)
			if err != nil {
				return err
			}
			keyEvents, _ := cl.analytics.KeyEvents(cmd.Context(), id)

			seen := map[string]bool{}
			for _, e := range append(events, keyEvents...) {
				if seen[e.EventName] {
					continue
				}
				seen[e.EventName] = true
				kind := "standard"
				if e.Custom {
					kind = "custom"
				}
				printRow([]string{e.EventName, kind})
			}
			if len(seen) == 0 {
				printInfo("No conversion events")
			}
			return nil
		},
	}
}

func (c *CLI) ga4DefinitionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "definitions <property>",
		Short: "List custom dimensions and metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}
			id, err := c.resolveProperty(cmd, cl, args[0])
			if err != nil {
				return err
			}

			dims, err := cl.analytics.CustomDimensions(cmd.Context(), id)
			if err != nil {
				return err
			}
			mets, err := cl.analytics.CustomMetrics(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render("Custom dimensions"))
			for _, d := range dims {
				printRow([]string{d.ParameterName, d.DisplayName, d.Scope})
			}
			if len(dims) == 0 {
				printDetail("none")
			}
			printNewline()
			fmt.Println(StyleTitle.Render("Custom metrics"))
			for _, m := range mets {
				printRow([]string{m.ParameterName, m.DisplayName, m.MeasurementUnit})
			}
			if len(mets) == 0 {
				printDetail("none")
			}
			return nil
		},
	}
}

func (c *CLI) ga4AdsLinksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ads-links <property>",
		Short: "List Google Ads accounts linked to a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}
			id, err := c.resolveProperty(cmd, cl, args[0])
			if err != nil {
				return err
			}

			links, err := cl.analytics.GoogleAdsLinks(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, l := range links {
				personalization := "personalization off"
				if l.AdsPersonalizationEnabled {
					personalization = "personalization on"
				}
				printRow([]string{l.CustomerID, personalization, l.CreatorEmailAddress})
			}
			if len(links) == 0 {
				printInfo("No Google Ads links")
			}
			return nil
		},
	}
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
