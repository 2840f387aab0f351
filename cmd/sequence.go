package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Manage identity sequences",
}

var sequenceResetCmd = &cobra.Command{
	Use:   "reset <table> [column]",
	Short: "Restart an identity column after its current maximum",
	Long: `Restarts the identity column of a table at MAX(column)+1. Without a
column the table's single-column primary key is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 2 {
			err = s.adapter.ResetSequence(cmd.Context(), args[0], args[1])
		} else {
			err = s.adapter.ResetPKSequence(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		fmt.Printf("✓ Sequence of %s reset\n", args[0])
		return nil
	},
}

func init() {
	RootCmd.AddCommand(sequenceCmd)
	sequenceCmd.AddCommand(sequenceResetCmd)
}
