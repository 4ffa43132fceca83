package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-pipeline/internal/pipeline"
)

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the operations recipes can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "OP\tOPERANDS\tSUMMARY")
			for _, op := range pipeline.NewRegistry().Ops() {
				operands := fmt.Sprint(op.Operands)
				if op.Optional > 0 {
					operands = fmt.Sprintf("%d-%d", op.Operands, op.Operands+op.Optional)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", op.Name, operands, op.Summary)
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "image-pipeline %s\n", Version)
			fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
			return nil
		},
	}
}
