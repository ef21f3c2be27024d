package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// resolveCommand maps domains, URLs, and names to service identifiers.
func (c *CLI) resolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a domain, URL, or name to a service identifier",
	}

	cmd.AddCommand(c.resolvePropertyCommand())
	cmd.AddCommand(c.resolveSiteCommand())
	cmd.AddCommand(c.resolveMerchantCommand())

	return cmd
}

func (c *CLI) resolvePropertyCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "property <query>",
		Short: "Find the GA4 property for a domain, URL, or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cl, err := c.newClients()
			if err != nil {
				return err
			}

			if interactive {
				return c.pickProperty(cmd, cl, args[0])
			}

			match, cached, err := cl.resolver.FindProperty(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess("%s", match.DisplayName)
			printKeyValue("property", match.PropertyID)
			if match.WebsiteURL != "" {
				printKeyValue("website", match.WebsiteURL)
			}
			printKeyValue("account", match.AccountDisplayName)
			printResolution(match.Method, cached)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick from all candidate properties")
	return cmd
}

// pickProperty lists every property and lets the user choose one.
func (c *CLI) pickProperty(cmd *cobra.Command, cl *clients, query string) error {
	summaries, err := cl.analytics.AccountSummaries(cmd.Context())
	if err != nil {
		return err
	}

	var items []pickItem
	for _, acct := range summaries {
		for _, p := range acct.PropertySummaries {
			items = append(items, pickItem{
				ID:     p.Property,
				Name:   p.DisplayName,
				Detail: p.WebsiteURL,
			})
		}
	}
	if len(items) == 0 {
		printInfo("No properties available")
		return nil
	}

	model := newPickModel("Select Property", query, items)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}
	if picked := final.(pickModel).Picked; picked != nil {
		printSuccess("%s", picked.Name)
		printKeyValue("property", picked.ID)
		if picked.Detail != "" {
			printKeyValue("website", picked.Detail)
		}
	}
	return nil
}

func (c *CLI) resolveSiteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "site <query>",
		Short: "Find the Search Console site for a domain or URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}

			match, cached, err := cl.resolver.FindSite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("%s", match.SiteURL)
			if match.PermissionLevel != "" {
				printKeyValue("permission", match.PermissionLevel)
			}
			printResolution(match.Method, cached)
			return nil
		},
	}
}

func (c *CLI) resolveMerchantCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "merchant <query>",
		Short: "Find the Merchant Center account for a domain, brand, or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}

			match, cached, err := cl.resolver.FindMerchant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("%s", match.Name)
			printKeyValue("merchant", match.MerchantID)
			if match.WebsiteURL != "" {
				printKeyValue("website", match.WebsiteURL)
			}
			printResolution(match.Method, cached)
			return nil
		},
	}
}
