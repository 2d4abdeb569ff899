package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/filter"
	"github.com/bamsammich/offload/internal/roots"
	"github.com/bamsammich/offload/internal/scan"
	"github.com/bamsammich/offload/internal/stats"
	"github.com/bamsammich/offload/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultThreshold = "50M"

// excludeFlag is a repeatable pflag.Value collecting --exclude globs in
// command-line order. Each glob is compiled once on Set so a bad pattern is
// reported as a flag error.
type excludeFlag struct {
	patterns *[]string
}

var _ pflag.Value = (*excludeFlag)(nil)

func (*excludeFlag) Type() string { return "glob" }

func (f *excludeFlag) String() string {
	if f.patterns == nil {
		return ""
	}
	return strings.Join(*f.patterns, ",")
}

func (f *excludeFlag) Set(val string) error {
	if err := filter.NewChain().AddExclude(val); err != nil {
		return err
	}
	*f.patterns = append(*f.patterns, val)
	return nil
}

// newChain returns an empty filter chain that folds case where the
// filesystem usually does.
func newChain() *filter.Chain {
	chain := filter.NewChain()
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		chain.FoldCase()
	}
	return chain
}

func newScanCmd(a *app) *cobra.Command {
	var (
		threshold  string
		workers    int
		jsonOut    bool
		filterFile string
		excludes   []string
	)

	cmd := &cobra.Command{
		Use:   "scan [root...]",
		Short: "List folders under the roots that are at least --threshold in size",
		Long: `scan sizes every immediate child folder of each root and lists the ones at
or above the threshold, largest first. Without roots it scans the per-user
application data locations ([scan].roots in the config file overrides them).
Folders that cannot be read are skipped and reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") && a.cfg.Defaults.Threshold != nil {
				threshold = *a.cfg.Defaults.Threshold
			}
			if !cmd.Flags().Changed("workers") && a.cfg.Defaults.Workers != nil {
				workers = *a.cfg.Defaults.Workers
			}
			thresholdBytes, err := filter.ParseSize(threshold)
			if err != nil {
				return fmt.Errorf("invalid --threshold: %w", err)
			}

			scanRoots := args
			if len(scanRoots) == 0 {
				scanRoots = a.defaultRoots()
			}
			if len(scanRoots) == 0 {
				return errors.New("no scan roots found; pass one or more folders")
			}

			rules, err := a.scanRules(excludes, filterFile)
			if err != nil {
				return err
			}

			slog.Debug("starting scan",
				"roots", scanRoots,
				"threshold", thresholdBytes,
				"workers", workers,
				"rules", rules.Len(),
			)

			collector := stats.NewCollector()
			var res scan.Result
			a.withProgress(a.presenterFor(collector), func(events chan<- event.Event) {
				res = <-scan.Start(cmd.Context(), scan.Config{
					Roots:     scanRoots,
					Threshold: thresholdBytes,
					Workers:   workers,
					Filter:    rules,
					Stats:     collector,
					Events:    events,
				})
			})
			if res.Err != nil {
				return fmt.Errorf("scan interrupted: %w", res.Err)
			}

			opts := ui.ListOptions{Mode: ui.ListPlain, Threshold: thresholdBytes}
			switch {
			case jsonOut:
				opts.Mode = ui.ListJSON
			case a.isTTY(os.Stdout.Fd()):
				opts.Mode = ui.ListTable
				opts.Width = ui.TermWidth(os.Stdout.Fd())
			}
			if err := ui.WriteCandidates(a.stdout, res, opts); err != nil {
				return fmt.Errorf("write candidates: %w", err)
			}
			if !jsonOut && !a.quiet {
				ui.WriteSkips(a.stderr, res.Skipped, a.verbose)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&threshold, "threshold", "t", defaultThreshold,
		"minimum folder size to list (e.g. 500M, 2G)")
	cmd.Flags().IntVarP(&workers, "workers", "n", 0, "parallel walkers per folder (default: min(NumCPU, 8))")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "write the result as JSON")
	cmd.Flags().Var(&excludeFlag{patterns: &excludes}, "exclude", "skip child folders matching GLOB (repeatable)")
	cmd.Flags().StringVar(&filterFile, "exclude-from", "", "read exclude (- GLOB) and include (+ GLOB) rules from FILE")
	return cmd
}

// scanRules builds the child filter. The first matching rule wins, so
// command-line excludes take precedence over the filter file, which takes
// precedence over [scan].exclude. A nil chain keeps every child.
func (a *app) scanRules(excludes []string, filterFile string) (*filter.Chain, error) {
	rules := newChain()
	for _, pattern := range excludes {
		if err := rules.AddExclude(pattern); err != nil {
			return nil, fmt.Errorf("invalid --exclude: %w", err)
		}
	}
	if filterFile != "" {
		if err := rules.LoadFile(filterFile); err != nil {
			return nil, fmt.Errorf("load filter file: %w", err)
		}
	}
	for _, pattern := range a.cfg.Scan.Exclude {
		if err := rules.AddExclude(pattern); err != nil {
			return nil, fmt.Errorf("config [scan].exclude: %w", err)
		}
	}
	if rules.Empty() {
		return nil, nil
	}
	return rules, nil
}

// defaultRoots returns the configured [scan].roots, or the per-user
// application data folders when the config names none.
func (a *app) defaultRoots() []string {
	if len(a.cfg.Scan.Roots) > 0 {
		return roots.Existing(a.cfg.Scan.Roots)
	}
	return roots.Defaults()
}
