package main

import (
	"fmt"

	"github.com/bamsammich/offload/internal/link"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path> <expected-target>",
		Short: "Check that path is a link resolving to expected-target",
		Long: `check reports whether <path> is a directory link that resolves to
<expected-target>. It exits 0 when it does and 1 otherwise, including when
<path> is a real directory or cannot be read.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			path, expected := args[0], args[1]
			if err := link.Check(path, expected); err != nil {
				fmt.Fprintf(a.stdout, "✗ %v\n", err)
				return &exitError{code: 1}
			}
			target, err := link.Target(path)
			if err != nil {
				target = expected
			}
			fmt.Fprintf(a.stdout, "✓ %s -> %s\n", path, target)
			return nil
		},
	}
}
