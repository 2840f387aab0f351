package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recreateForce bool

var recreateCmd = &cobra.Command{
	Use:   "recreate",
	Short: "Drop every table of the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !recreateForce {
			return fmt.Errorf("recreate drops all tables; pass --force to confirm")
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("🧹 Dropping all tables in schema %s...\n", s.adapter.Schema())
		if err := s.adapter.RecreateDatabase(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✨ Schema is empty.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(recreateCmd)

	recreateCmd.Flags().BoolVar(&recreateForce, "force", false, "Confirm dropping every table")
}
