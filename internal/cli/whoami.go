package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCommand summarizes everything the configured token can access.
func (c *CLI) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the accounts visible to the configured token",
		Long: `List every GA4 property, Search Console site, and Merchant Center
account the configured access token can see. A service the token has no
access to is reported as unavailable without failing the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cl, err := c.newClients()
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Listing accounts...")
			spinner.Start()

			type section struct {
				title string
				rows  [][]string
				err   error
			}
			var sections []section

			summaries, err := cl.analytics.AccountSummaries(ctx)
			ga4Section := section{title: "GA4 properties", err: err}
			for _, acct := range summaries {
				for _, p := range acct.PropertySummaries {
					ga4Section.rows = append(ga4Section.rows, []string{
						p.Property, p.DisplayName, p.WebsiteURL, acct.DisplayName,
					})
				}
			}
			sections = append(sections, ga4Section)

			sites, err := cl.search.Sites(ctx)
			gscSection := section{title: "Search Console sites", err: err}
			for _, s := range sites {
				gscSection.rows = append(gscSection.rows, []string{s.SiteURL, s.PermissionLevel, "", ""})
			}
			sections = append(sections, gscSection)

			accounts, err := cl.merchant.Accounts(ctx)
			gmcSection := section{title: "Merchant Center accounts", err: err}
			for _, a := range accounts {
				gmcSection.rows = append(gmcSection.rows, []string{a.ID, a.Name, a.WebsiteURL, ""})
			}
			sections = append(sections, gmcSection)

			spinner.Stop()

			for _, sec := range sections {
				fmt.Println(StyleTitle.Render(sec.title))
				switch {
				case sec.err != nil:
					printWarning("unavailable: %v", sec.err)
				case len(sec.rows) == 0:
					printDetail("none")
				default:
					for _, row := range sec.rows {
						printRow(row)
					}
				}
				printNewline()
			}
			return nil
		},
	}
}

// printRow prints an aligned identifier / name / detail line.
func printRow(cols []string) {
	id, name := cols[0], cols[1]
	line := "  " + StyleHighlight.Render(id)
	if name != "" {
		line += " " + StyleValue.Render(name)
	}
	for _, extra := range cols[2:] {
		if extra != "" {
			line += " " + StyleDim.Render(extra)
		}
	}
	fmt.Println(line)
}
