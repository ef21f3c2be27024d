package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi/gmc"
)

// gmcCommand groups the Merchant Center subcommands.
func (c *CLI) gmcCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gmc",
		Short: "Query Google Merchant Center",
	}

	cmd.AddCommand(c.gmcAccountsCommand())
	cmd.AddCommand(c.gmcProductsCommand())
	cmd.AddCommand(c.gmcStatusCommand())

	return cmd
}

// merchantID picks the merchant account: an explicit flag value wins,
// then the configured default, then a resolver query.
func (c *CLI) merchantID(cmd *cobra.Command, cl *clients, arg string) (string, error) {
	if arg == "" {
		arg = cl.cfg.MerchantID
	}
	if arg == "" {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"no merchant account given, pass --merchant or set merchant_id in the config file")
	}
	if isNumeric(arg) {
		return arg, nil
	}
	match, _, err := cl.resolver.FindMerchant(cmd.Context(), arg)
	if err != nil {
		return "", err
	}
	printDetail("resolved %q to %s via %s", arg, match.MerchantID, match.Method)
	return match.MerchantID, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *CLI) gmcAccountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accessible merchant accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}

			accounts, err := cl.merchant.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			for _, a := range accounts {
				printRow([]string{a.ID, a.Name, a.WebsiteURL})
			}
			if len(accounts) == 0 {
				printInfo("No merchant accounts")
			}
			return nil
		},
	}
}

func (c *CLI) gmcProductsCommand() *cobra.Command {
	var (
		merchant string
		query    string
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}
			id, err := c.merchantID(cmd, cl, merchant)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(cmd.Context(), "Fetching products...")
			spinner.Start()
			products, err := cl.merchant.Products(cmd.Context(), id)
			if err != nil {
				spinner.StopWithError("Fetch failed")
				return err
			}
			spinner.Stop()

			if query != "" {
				products = gmc.FindProducts(products, query)
			}
			for _, p := range products {
				price := ""
				if p.Price != nil {
					price = p.Price.Value + " " + p.Price.Currency
				}
				printRow([]string{p.OfferID, p.Title, price, p.Availability})
			}
			printDetail("%d products", len(products))
			return nil
		},
	}

	cmd.Flags().StringVar(&merchant, "merchant", "", "merchant ID or query to resolve")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by title, offer ID, or brand")

	return cmd
}

func (c *CLI) gmcStatusCommand() *cobra.Command {
	var merchant string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show account-level issues and product statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}
			id, err := c.merchantID(cmd, cl, merchant)
			if err != nil {
				return err
			}

			status, err := cl.merchant.AccountStatus(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render("Account " + status.AccountID))
			if len(status.AccountLevelIssues) == 0 {
				printSuccess("No account-level issues")
			}
			for _, issue := range status.AccountLevelIssues {
				if issue.Severity == "critical" || issue.Severity == "error" {
					printError("%s (%s)", issue.Title, issue.Severity)
				} else {
					printWarning("%s (%s)", issue.Title, issue.Severity)
				}
			}

			for _, p := range status.Products {
				printNewline()
				fmt.Println(StyleTitle.Render("Products: " + p.Channel))
				printKeyValue("active", p.Statistics.Active)
				printKeyValue("pending", p.Statistics.Pending)
				printKeyValue("disapproved", p.Statistics.Disapproved)
				printKeyValue("expiring", p.Statistics.Expiring)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&merchant, "merchant", "", "merchant ID or query to resolve")

	return cmd
}
