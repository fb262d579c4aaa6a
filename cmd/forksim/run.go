package main

import (
	"fmt"
	"os"

	yaml "github.com/itchyny/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/forklab/forksim/pkg/reportfmt"
	"github.com/forklab/forksim/pkg/script"
	"github.com/forklab/forksim/simexec"
)

func newRunCmd() *cobra.Command {
	var (
		output   string
		logLevel string
		live     bool
		tree     bool
	)

	cmd := &cobra.Command{
		Use:   "run <program.yaml>",
		Short: "Execute a duplication program and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			prog, err := script.Parse(data)
			if err != nil {
				fmt.Fprint(os.Stderr, script.FormatProgramError(err))
				return fmt.Errorf("invalid program %s", args[0])
			}

			opts := simexec.DefaultOptions()
			opts.LogLevel = logLevel
			result, err := simexec.Run(cmd.Context(), prog, opts)
			if err != nil {
				return err
			}

			if live {
				counts, err := simexec.RunLive(cmd.Context(), prog)
				if err != nil {
					return err
				}
				if counts.Contexts != result.Report.TotalContexts || counts.Threads != result.Report.TotalThreads {
					return fmt.Errorf("live run diverged from model: %d contexts / %d threads vs %d / %d",
						counts.Contexts, counts.Threads,
						result.Report.TotalContexts, result.Report.TotalThreads)
				}
				fmt.Fprintf(os.Stderr, "live run matched: %d processes, %d threads\n",
					counts.Contexts, counts.Threads)
			}

			switch output {
			case "yaml":
				out, err := yaml.Marshal(result.Report)
				if err != nil {
					return err
				}
				os.Stdout.Write(out)
			case "text":
				cfg := reportfmt.Cfg{
					Color: isatty.IsTerminal(os.Stdout.Fd()),
					Tree:  tree,
				}
				fmt.Print(reportfmt.Format(result.Report, cfg))
			default:
				return fmt.Errorf("unknown output format %q (want text or yaml)", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or yaml")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level: error, warn, info, debug")
	cmd.Flags().BoolVar(&live, "live", false, "also replay with real goroutines and check the counts match")
	cmd.Flags().BoolVar(&tree, "tree", false, "include the derivation tree in text output")
	return cmd
}
