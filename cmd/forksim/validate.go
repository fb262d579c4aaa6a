package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forklab/forksim/pkg/script"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <program.yaml>...",
		Short: "Check program files without executing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if _, err := script.Parse(data); err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s:\n%s", path, script.FormatProgramError(err))
					continue
				}
				fmt.Printf("%s: ok\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d programs failed validation", failed, len(args))
			}
			return nil
		},
	}
}
