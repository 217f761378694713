package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlesize/pkg/deps/javascript"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell.

Manifest arguments complete to .json files. "size" completes the dependencies
of ./package.json as name@version queries, with catalog specifiers resolved.

  $ source <(bundlesize completion bash)
  $ bundlesize completion zsh > "${fpath[1]}/_bundlesize"
  $ bundlesize completion fish > ~/.config/fish/completions/bundlesize.fish
  PS> bundlesize completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeManifest offers .json files for the single manifest argument.
func completeManifest(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeQueries offers the dependencies of ./package.json as lookup
// queries.
func completeQueries(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return manifestQueries(filepath.Join(wd, "package.json"), args, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// manifestQueries lists the resolvable queries of the manifest at path that
// start with prefix and are not already in taken. Unreadable manifests
// yield nothing.
func manifestQueries(path string, taken []string, prefix string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	catalog := javascript.NewCatalogLoader(nil, nil).Load(javascript.FindWorkspaceRoot(filepath.Dir(path)))

	var out []string
	for _, e := range javascript.Scan(string(data)) {
		q, ok := javascript.ResolveEntry(e, catalog)
		if !ok || !strings.HasPrefix(q.Package, prefix) {
			continue
		}
		if slices.Contains(taken, q.Package) || slices.Contains(out, q.Package) {
			continue
		}
		out = append(out, q.Package)
	}
	return out
}
