package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bundlesize/pkg/annotate"
	"github.com/matzehuels/bundlesize/pkg/deps"
	bserrors "github.com/matzehuels/bundlesize/pkg/errors"
	"github.com/matzehuels/bundlesize/pkg/sizes"
)

// sizeResult is one row of the size command's output.
type sizeResult struct {
	Query string       `json:"query"`
	Size  sizes.Info   `json:"size"`
	Links *sizes.Links `json:"links,omitempty"`
}

// sizeCommand creates the size command for direct lookups.
func (c *CLI) sizeCommand() *cobra.Command {
	var (
		jsonOut bool
		links   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "size <name@version>...",
		Short: "Look up bundle sizes for package queries",
		Example: `  bundlesize size react@18.2.0
  bundlesize size @types/node@20.11.0 lodash@4.17.21 --links`,
		ValidArgsFunction: completeQueries,
		Args:              cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, q := range args {
				if err := bserrors.ValidateQuery(q); err != nil {
					return err
				}
			}

			cfg, _, err := c.loadConfig()
			if err != nil {
				return err
			}
			rt, err := c.newRuntime(cmd.Context(), cfg, runtimeOptions{noCache: noCache})
			if err != nil {
				return err
			}
			defer rt.Close()

			results, err := lookupSizes(cmd.Context(), rt.coordinator, args, links)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeSizeJSON(os.Stdout, results)
			}
			printSizeResults(os.Stdout, results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&links, "links", false, "also look up npm and repository links")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the second-tier size cache")

	return cmd
}

// lookupSizes resolves every query concurrently; the coordinator's limiter
// bounds the outbound requests. Results keep the order of queries.
func lookupSizes(ctx context.Context, lookup annotate.Lookup, queries []string, withLinks bool) ([]sizeResult, error) {
	results := make([]sizeResult, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			info := lookup.Size(ctx, q)
			res := sizeResult{Query: q, Size: info}
			if withLinks && !info.Failed() && info.PinnedVersion != "" {
				name, _, _ := deps.SplitQuery(q)
				l := lookup.Links(ctx, name, info.PinnedVersion)
				res.Links = &l
			}
			results[i] = res
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeSizeJSON(w io.Writer, results []sizeResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func printSizeResults(w io.Writer, results []sizeResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		repo := ""
		if r.Links != nil {
			repo = r.Links.GithubURL
		}
		rows = append(rows, []string{r.Query, r.Size.PinnedVersion, r.Size.Display, repo})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Query", "Version", "Size", "Repository").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			switch {
			case col == 2 && results[row].Size.Failed():
				return StyleError
			case col == 2:
				return StyleNumber
			case col == 3:
				return StyleLink
			}
			return StyleValue
		})
	fmt.Fprintln(w, t.Render())

	for _, r := range results {
		if r.Size.Failed() {
			printWarning("%s: %s", r.Query, r.Size.Failure)
		}
	}
}
