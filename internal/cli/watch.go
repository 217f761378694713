package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlesize/pkg/annotate"
	"github.com/matzehuels/bundlesize/pkg/config"
	"github.com/matzehuels/bundlesize/pkg/deps/javascript"
	bserrors "github.com/matzehuels/bundlesize/pkg/errors"
	"github.com/matzehuels/bundlesize/pkg/sizes"
)

const (
	// pollInterval is how often watched files are checked for changes.
	pollInterval = 500 * time.Millisecond

	// statsInterval is how often the view refreshes coordinator stats.
	statsInterval = 500 * time.Millisecond
)

// =============================================================================
// Command
// =============================================================================

// watchCommand creates the interactive watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "watch <package.json>",
		Short: "Keep a live size table for a package.json",
		Long: `Show the annotation table for a package.json and refresh it whenever the
manifest or the workspace catalog changes. Bursts of edits are debounced.

Changes to max_concurrent_requests in the config file apply without a restart.`,
		ValidArgsFunction: completeManifest,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], root)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "workspace root for catalog lookups (default: nearest pnpm-workspace.yaml)")

	return cmd
}

func (c *CLI) runWatch(parent context.Context, path, root string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return bserrors.Wrap(bserrors.ErrCodeInvalidInput, err, "manifest %s", path)
	}
	if root == "" {
		root = javascript.FindWorkspaceRoot(filepath.Dir(path))
	} else if root, err = filepath.Abs(root); err != nil {
		return bserrors.Wrap(bserrors.ErrCodeInvalidInput, err, "workspace root %s", root)
	}

	cfg, cfgPath, err := c.loadConfig()
	if err != nil {
		return err
	}
	rt, err := c.newRuntime(parent, cfg, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	// The view owns the terminal while it runs.
	c.Logger.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		p    *tea.Program
		pass atomic.Uint64
	)
	scan := func() {
		n := pass.Add(1)
		p.Send(scanStartedMsg{})
		anns, err := rt.annotator.AnnotateFile(ctx, path, root)
		if pass.Load() != n {
			return
		}
		p.Send(annotationsMsg{anns: anns, err: err, at: time.Now()})
	}
	debouncer := annotate.NewDebouncer(cfg.Debounce, scan)
	defer debouncer.Stop()

	model := newWatchModel(path, rt.coordinator.Stats, debouncer.Trigger)
	p = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	catalogChanged := func() {
		rt.annotator.Catalogs().Invalidate(root)
		debouncer.Trigger()
	}
	rootManifest := filepath.Join(root, "package.json")
	go config.WatchFile(ctx, filepath.Join(root, "pnpm-workspace.yaml"), pollInterval, catalogChanged)
	go config.WatchFile(ctx, rootManifest, pollInterval, catalogChanged)
	if path != rootManifest {
		go config.WatchFile(ctx, path, pollInterval, debouncer.Trigger)
	}
	go config.Watch(ctx, cfgPath, pollInterval, func(next config.Config, err error) {
		if err != nil {
			p.Send(configMsg{err: err})
			return
		}
		rt.coordinator.SetConcurrency(next.MaxConcurrentRequests)
		p.Send(configMsg{limit: next.MaxConcurrentRequests})
	})

	debouncer.Trigger()
	_, err = p.Run()
	if perr := parent.Err(); perr != nil {
		return perr
	}
	return err
}

// =============================================================================
// Messages
// =============================================================================

type (
	scanStartedMsg struct{}

	annotationsMsg struct {
		anns []annotate.Annotation
		err  error
		at   time.Time
	}

	configMsg struct {
		limit int
		err   error
	}

	statsTickMsg time.Time
)

func statsTick() tea.Cmd {
	return tea.Tick(statsInterval, func(t time.Time) tea.Msg { return statsTickMsg(t) })
}

// =============================================================================
// WatchModel - live annotation table
// =============================================================================

// WatchModel is the bubbletea model of the watch command.
type WatchModel struct {
	Path        string
	Annotations []annotate.Annotation
	Stats       sizes.Stats
	Passes      int
	Scanning    bool
	Updated     time.Time
	Err         error
	Notice      string

	stats   func() sizes.Stats
	refresh func()
}

// newWatchModel creates a watch model. stats is polled for the status
// line; refresh schedules a new annotation pass.
func newWatchModel(path string, stats func() sizes.Stats, refresh func()) WatchModel {
	return WatchModel{Path: path, Scanning: true, stats: stats, refresh: refresh}
}

func (m WatchModel) Init() tea.Cmd {
	return statsTick()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.Notice = ""
			if m.refresh != nil {
				m.refresh()
			}
		}
	case scanStartedMsg:
		m.Scanning = true
	case annotationsMsg:
		m.Scanning = false
		m.Err = msg.err
		if msg.err == nil {
			m.Annotations = msg.anns
			m.Passes++
			m.Updated = msg.at
		}
	case configMsg:
		if msg.err != nil {
			m.Notice = StyleWarning.Render("config reload failed: " + bserrors.UserMessage(msg.err))
		} else {
			m.Notice = StyleSuccess.Render(fmt.Sprintf("concurrency set to %d", msg.limit))
		}
	case statsTickMsg:
		if m.stats != nil {
			m.Stats = m.stats()
		}
		return m, statsTick()
	}
	return m, nil
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("bundlesize watch"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.Path))
	b.WriteString("\n\n")

	switch {
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error())
		b.WriteString("\n")
	case m.Passes == 0:
		b.WriteString(StyleDim.Render("Scanning..."))
		b.WriteString("\n")
	case len(m.Annotations) == 0:
		b.WriteString(StyleDim.Render("No dependencies found"))
		b.WriteString("\n")
	default:
		b.WriteString(annotationTable(m.Annotations))
		b.WriteString("\n")
		b.WriteString(summaryLine(m.Annotations))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statsLine(m.Stats))
	b.WriteString("\n")
	if m.Notice != "" {
		b.WriteString(m.Notice)
		b.WriteString("\n")
	}

	status := "waiting for changes"
	if m.Scanning {
		status = "scanning"
	}
	if !m.Updated.IsZero() {
		status += " · updated " + m.Updated.Format("15:04:05")
	}
	b.WriteString(StyleDim.Render(status + "  r refresh  q quit"))

	return b.String()
}
