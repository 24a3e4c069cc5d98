package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/fibre"
	"github.com/vango-dev/fibre/internal/config"
	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/host"
	"github.com/vango-dev/fibre/pkg/markup"
	"github.com/vango-dev/fibre/pkg/scheduler"
	"github.com/vango-dev/fibre/pkg/snapshot"
)

// demoMarkup is rendered when no input file is given.
const demoMarkup = `<div id="foo"><a>bar</a><b></b></div>`

// maxStalledSlices is how many consecutive slices may pass without a unit of
// work before a render is abandoned.
const maxStalledSlices = 100

type renderOptions struct {
	configDir string
	budget    int
	fibers    bool
	snapshot  string
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a document and print its HTML",
		Long: `Render an element document incrementally and print the resulting HTML.

The input may be HTML markup (.html, .htm) or a YAML/JSON element
document (.yaml, .yml, .json). Without a file the built-in demo is
rendered.

By default each idle slice lasts scheduler.sliceBudget from fibre.json.
With --budget every slice performs exactly that many units of work.

Examples:
  fibre render
  fibre render page.html --budget=2
  fibre render page.yaml --fibers
  fibre render page.html --snapshot=home`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), "", opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configDir, "config", "c", ".", "Directory containing fibre.json")
	cmd.Flags().IntVarP(&opts.budget, "budget", "b", 0, "Units of work per slice (0 uses the configured slice budget)")
	cmd.Flags().BoolVar(&opts.fibers, "fibers", false, "Print the fiber tree as JSON")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Store the HTML and fiber tree under this name")

	return cmd
}

func runRender(ctx context.Context, out io.Writer, file string, opts renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.budget < 0 {
		return errors.New(errors.CodeCLIInput).WithDetailf("--budget must not be negative, got %d", opts.budget)
	}

	cfg, err := config.LoadOrDefault(opts.configDir)
	if err != nil {
		return err
	}

	el, err := loadElement(file)
	if err != nil {
		return err
	}

	engine := fibre.New(
		scheduler.WithThreshold(cfg.Scheduler.ThresholdDuration()),
		scheduler.WithProperties(host.DefaultProperties(cfg.Scheduler.Strict())),
		scheduler.WithLogger(slog.Default().With("component", "scheduler")),
	)
	task, err := engine.Render(el)
	if err != nil {
		return err
	}

	next := fibre.Clock(cfg.Scheduler.SliceDuration())
	if opts.budget > 0 {
		next = fibre.Budget(opts.budget)
	}

	slices, stalled := 0, 0
	for !engine.Idle() {
		before := task.Units()
		if !engine.Step(next()) {
			break
		}
		slices++
		if task.Units() > before {
			stalled = 0
			continue
		}
		if stalled++; stalled >= maxStalledSlices {
			return errors.New(errors.CodeConfigScheduler).
				WithDetailf("no work done in %d slices of %s with threshold %s",
					stalled, cfg.Scheduler.SliceDuration(), cfg.Scheduler.ThresholdDuration()).
				WithSuggestion("Raise scheduler.sliceBudget above scheduler.threshold, or pass --budget")
		}
	}
	if err := task.Err(); err != nil {
		return err
	}

	html := engine.HTML()
	fmt.Fprintln(out, html)

	records := task.Tree().Snapshot()
	if opts.fibers {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	}

	info(out, "%d units in %d slices", task.Units(), slices)

	if opts.snapshot == "" {
		return nil
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	keys, err := snapshot.Save(ctx, store, opts.snapshot, html, records)
	if err != nil {
		return err
	}
	success(out, "Saved %s and %s", keys.HTML, keys.Fibers)
	return nil
}

// loadElement reads file, or returns the demo tree when file is empty.
func loadElement(file string) (*element.Element, error) {
	if file == "" {
		return markup.ParseHTML(demoMarkup)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.New(errors.CodeCLIInput).
			WithDetailf("cannot read %s", file).
			Wrap(err)
	}
	return markup.Parse(filepath.Base(file), data)
}
