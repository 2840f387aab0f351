package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var dumpOutput string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print CREATE TABLE statements for every table of the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		ddl, err := s.adapter.StructureDump(cmd.Context())
		if err != nil {
			return err
		}

		if dumpOutput == "" {
			fmt.Print(ddl)
			return nil
		}
		if err := os.WriteFile(dumpOutput, []byte(ddl), 0o644); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
		fmt.Printf("✓ Structure written to %s\n", dumpOutput)
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <table>",
	Short: "Show the columns and primary key of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		cols, err := s.adapter.Columns(ctx, args[0])
		if err != nil {
			return err
		}
		pk, err := s.adapter.PrimaryKeys(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("📋 %s\n", args[0])
		for _, c := range cols {
			null := "NOT NULL"
			if c.Null {
				null = "NULL"
			}
			def := ""
			if c.Default != nil {
				def = " DEFAULT " + *c.Default
			}
			fmt.Printf("  %-24s %-10s %-20s %s%s\n", c.Name, c.Type, c.SQLType, null, def)
		}
		if len(pk) > 0 {
			fmt.Printf("  PRIMARY KEY (%s)\n", strings.Join(pk, ", "))
		}
		return nil
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		names, err := s.adapter.Tables(cmd.Context())
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dumpCmd, describeCmd, tablesCmd)

	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "Write the dump to a file instead of stdout")
}
