package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/propscope/propscope/internal/config"
)

// configCommand shows configuration information.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration information",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			token := "(not set)"
			if cfg.Token != "" {
				token = "(set)"
			}
			printKeyValue("token", token)
			printKeyValue("listen_addr", cfg.ListenAddr)
			if cfg.MerchantID != "" {
				printKeyValue("merchant_id", cfg.MerchantID)
			}
			printKeyValue("cache", fmt.Sprintf("%d entries, ttl %s", cfg.Cache.MaxEntries, cfg.CacheTTL()))
			rc := cfg.RetryConfig()
			printKeyValue("retry", fmt.Sprintf("%d retries, base %s, cap %s", rc.Retries, rc.Base, rc.Cap))
			return nil
		},
	})

	return cmd
}
