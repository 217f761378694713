package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlesize/pkg/annotate"
	bserrors "github.com/matzehuels/bundlesize/pkg/errors"
)

// annotateOpts holds the flags of the annotate command.
type annotateOpts struct {
	root    string
	json    bool
	noLinks bool
	noCache bool
}

// annotateCommand creates the annotate command.
func (c *CLI) annotateCommand() *cobra.Command {
	var opts annotateOpts

	cmd := &cobra.Command{
		Use:   "annotate <package.json>",
		Short: "Show the bundle size of every declared dependency",
		Long: `Scan a package.json, resolve each dependency specifier to a concrete version
and look up its minified and gzipped bundle size.

Specifiers using the pnpm "catalog:" protocol are resolved against the default
catalog of the enclosing workspace (pnpm-workspace.yaml and the root
package.json). "workspace:" dependencies are skipped.`,
		Example: `  bundlesize annotate package.json
  bundlesize annotate packages/web/package.json --root .
  bundlesize annotate package.json --json`,
		ValidArgsFunction: completeManifest,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnnotate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "workspace root for catalog lookups (default: nearest pnpm-workspace.yaml)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print annotations as JSON")
	cmd.Flags().BoolVar(&opts.noLinks, "no-links", false, "skip registry metadata lookups")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the second-tier size cache")

	return cmd
}

func (c *CLI) runAnnotate(ctx context.Context, path string, opts annotateOpts) error {
	logger := loggerFromContext(ctx)

	if _, err := os.Stat(path); err != nil {
		return bserrors.Wrap(bserrors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	root := opts.root
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return bserrors.Wrap(bserrors.ErrCodeInvalidInput, err, "workspace root %s", root)
		}
		root = abs
	}

	cfg, _, err := c.loadConfig()
	if err != nil {
		return err
	}
	rt, err := c.newRuntime(ctx, cfg, runtimeOptions{noCache: opts.noCache, skipLinks: opts.noLinks})
	if err != nil {
		return err
	}
	defer rt.Close()

	if opts.json {
		return rt.annotator.Run(ctx, path, root, annotate.JSONSink{W: os.Stdout})
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Looking up sizes for %s...", path))
	spinner.Start()
	prog := newProgress(logger)
	anns, err := rt.annotator.AnnotateFile(ctx, path, root)
	spinner.Stop()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Annotated %d dependencies", len(anns)))

	printAnnotations(os.Stdout, anns)
	if len(anns) > 0 {
		printNextStep("Keep it updated", "bundlesize watch "+path)
	}
	return nil
}
