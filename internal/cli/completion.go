package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tgrunnagle/playing-card-gen/pkg/deck"
	"github.com/tgrunnagle/playing-card-gen/pkg/fonts"
	"github.com/tgrunnagle/playing-card-gen/pkg/textfit"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for cardgen. Besides subcommands and flags it
completes config files (.json, .toml) and decklists (.csv) as arguments, and
the values of --layout, --valign and --font.

  bash:        source <(cardgen completion bash)
  zsh:         cardgen completion zsh > "${fpath[1]}/_cardgen"
  fish:        cardgen completion fish > ~/.config/fish/completions/cardgen.fish
  powershell:  cardgen completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// completeDeckArgs completes "<config> <decklist>": configuration files
// first, then CSV decklists.
func completeDeckArgs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return []string{"json", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	case 1:
		return []string{"csv"}, cobra.ShellCompDirectiveFilterFileExt
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func completeLayouts(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(deck.LayoutSheet) + "\tall cards on one grid sheet",
		string(deck.LayoutSingleton) + "\tone image per card",
	}, cobra.ShellCompDirectiveNoFileComp
}

func completeVAlign(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(textfit.VAlignTop), string(textfit.VAlignMiddle), string(textfit.VAlignBottom),
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeFonts offers the builtin fonts and falls back to font files.
func completeFonts(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return fonts.Builtins(), cobra.ShellCompDirectiveDefault
}
