package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/graph"
	"github.com/franzenjb/fourcolor/pkg/render"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for fourcolor.

Graph arguments complete to JSON files and built-in samples
("sample:australia"), and --algorithm and --format complete to their
accepted values.

  Bash:        source <(fourcolor completion bash)
  Zsh:         fourcolor completion zsh > "${fpath[1]}/_fourcolor"
  Fish:        fourcolor completion fish | source
  PowerShell:  fourcolor completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
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
}

// completeGraphArg completes graph arguments: sample names once "sample:"
// is typed in the first position, JSON files otherwise.
func completeGraphArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 && strings.HasPrefix(toComplete, samplePrefix) {
		names := graph.SampleNames()
		out := make([]string, len(names))
		for i, n := range names {
			out[i] = samplePrefix + n
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// registerCoreCompletions adds value completion to the flags shared by the
// coloring commands.
func registerCoreCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeGraphArg
	if cmd.Flags().Lookup("algorithm") != nil {
		cmd.RegisterFlagCompletionFunc("algorithm", cobra.FixedCompletions(coloring.Names(), cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("format") != nil {
		cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(render.Formats, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("constraints") != nil {
		cmd.MarkFlagFilename("constraints", "json")
	}
}
