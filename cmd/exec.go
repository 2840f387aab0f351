package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <sql>",
	Short: "Run a statement through the adapter's NULL comparison rewrite",
	Long: `Runs one statement against the active database. Comparisons such as
"col = NULL" are rewritten to "col IS NULL" first, since Derby rejects them.
With --dry-run the rewritten statement is printed instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := s.adapter.Execute(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if s.script != nil {
			return nil
		}

		if n, err := res.RowsAffected(); err == nil {
			fmt.Printf("✓ %d rows affected\n", n)
		} else {
			fmt.Println("✓ Done")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(execCmd)
}
