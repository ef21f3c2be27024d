package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for propscope.

To load completions:

Bash:
  $ source <(propscope completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ propscope completion bash > /etc/bash_completion.d/propscope
  # macOS:
  $ propscope completion bash > $(brew --prefix)/etc/bash_completion.d/propscope

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ propscope completion zsh > "${fpath[1]}/_propscope"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ propscope completion fish | source

  # To load completions for each session, execute once:
  $ propscope completion fish > ~/.config/fish/completions/propscope.fish

PowerShell:
  PS> propscope completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> propscope completion powershell > propscope.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
