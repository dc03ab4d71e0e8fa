package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for pcparts.

Part ids are completed from the service, so completion needs it reachable.

Bash:
  $ source <(pcparts completion bash)
  # To load completions for each session, execute once:
  $ pcparts completion bash > /etc/bash_completion.d/pcparts

Zsh:
  $ pcparts completion zsh > "${fpath[1]}/_pcparts"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pcparts completion fish | source
  $ pcparts completion fish > ~/.config/fish/completions/pcparts.fish
`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletionV2(os.Stdout, true)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// completePartIDs completes part ids from the service, with the part name
// as the description. Ids already given on the command line are skipped.
func completePartIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	s, err := openSession()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx, cancel := s.context()
	defer cancel()

	if err := s.catalog.LoadAll(ctx); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	seen := make(map[string]bool, len(args))
	for _, a := range args {
		seen[strings.ToLower(a)] = true
	}

	var completions []string
	prefix := strings.ToLower(toComplete)
	for _, p := range s.catalog.Filter("") {
		id := strings.ToLower(p.ID)
		if seen[id] || !strings.HasPrefix(id, prefix) {
			continue
		}
		completions = append(completions, p.ID+"\t"+p.Name)
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
