package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bamsammich/offload/internal/config"
	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/filter"
	"github.com/bamsammich/offload/internal/relocate"
	"github.com/bamsammich/offload/internal/scan"
	"github.com/bamsammich/offload/internal/stats"
	"github.com/bamsammich/offload/internal/ui"
	"github.com/spf13/cobra"
)

// moveFlags holds the options of the move command.
type moveFlags struct {
	dryRun   bool
	verify   bool
	preserve bool
	yes      bool
	workers  int
	bwLimit  string
}

func newMoveCmd(a *app) *cobra.Command {
	var f moveFlags

	cmd := &cobra.Command{
		Use:   "move <source> <destination-parent>",
		Short: "Move a folder into destination-parent and leave a link at its old path",
		Long: `move copies <source> to <destination-parent>/<name of source>, swaps the
original for a directory link to the copy, verifies the link and then deletes
the original. If any step fails the original directory is put back.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd, a.cfg.Defaults, &f)

			var bwLimit int64
			if f.bwLimit != "" {
				n, err := filter.ParseSize(f.bwLimit)
				if err != nil {
					return fmt.Errorf("invalid --bwlimit: %w", err)
				}
				bwLimit = n
			}

			plan, err := relocate.NewPlan(args[0], args[1])
			if err != nil {
				return err
			}

			size, err := scan.DirSize(cmd.Context(), plan.Source, f.workers)
			if err != nil {
				slog.Debug("could not size source", "source", plan.Source, "error", err)
				size = -1
			}
			ui.WritePlan(a.stdout, plan, size)

			if f.dryRun {
				slog.Info("dry run, nothing moved")
				return nil
			}
			if !f.yes {
				ok, err := a.confirm(fmt.Sprintf("move %s to %s?", plan.Source, plan.Destination))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.stderr, "aborted")
					return &exitError{code: 1}
				}
			}

			slog.Debug("starting relocation",
				"source", plan.Source,
				"destination", plan.Destination,
				"backup", plan.Backup,
				"workers", f.workers,
				"verify", f.verify,
				"preserve", f.preserve,
				"bwlimit", bwLimit,
			)

			collector := stats.NewCollector()
			var res relocate.Result
			a.withProgress(a.presenterFor(collector), func(events chan<- event.Event) {
				eng := relocate.New(relocate.Config{
					Workers:          f.workers,
					Verify:           f.verify,
					PreserveMetadata: f.preserve,
					BWLimit:          bwLimit,
					Events:           events,
					Stats:            collector,
				})
				res = eng.Execute(cmd.Context(), plan)
			})

			ui.WriteResult(a.stdout, res)
			return outcomeError(res.Outcome)
		},
	}

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the plan without moving anything")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "verify checksums of the copy before switching (BLAKE3)")
	cmd.Flags().BoolVar(&f.preserve, "preserve", false, "preserve owner, times and extended attributes")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().IntVarP(&f.workers, "workers", "n", 0, "number of copy workers (default: min(NumCPU, 8))")
	cmd.Flags().StringVar(&f.bwLimit, "bwlimit", "", "bandwidth limit (e.g. 100M, 1G)")
	return cmd
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, f *moveFlags) {
	if !cmd.Flags().Changed("verify") && defaults.Verify != nil {
		f.verify = *defaults.Verify
	}
	if !cmd.Flags().Changed("preserve") && defaults.Preserve != nil {
		f.preserve = *defaults.Preserve
	}
	if !cmd.Flags().Changed("workers") && defaults.Workers != nil {
		f.workers = *defaults.Workers
	}
	if !cmd.Flags().Changed("bwlimit") && defaults.BWLimit != nil {
		f.bwLimit = *defaults.BWLimit
	}
}

// outcomeError maps a relocation outcome to the command's exit status.
func outcomeError(o relocate.Outcome) error {
	switch o {
	case relocate.Success:
		return nil
	case relocate.FailedUnrecoverable:
		return &exitError{code: 3}
	default:
		return &exitError{code: 1}
	}
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
func (a *app) confirm(question string) (bool, error) {
	if !a.interactive {
		return false, errors.New("stdin is not a terminal; pass --yes to move without confirmation")
	}
	fmt.Fprintf(a.stderr, "%s [y/N] ", question)
	answer, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
