package cmd

import (
	"fmt"

	"derby-shim/internal/derby"

	"github.com/spf13/cobra"
)

var (
	indexName    string
	indexColumns []string
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Rename or drop a table",
}

var tableRenameCmd = &cobra.Command{
	Use:   "rename <table> <new-name>",
	Short: "Rename a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		return s.adapter.RenameTable(cmd.Context(), args[0], args[1])
	},
}

var tableDropCmd = &cobra.Command{
	Use:   "drop <table>...",
	Short: "Drop tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		for _, t := range args {
			if err := s.adapter.DropTable(cmd.Context(), t); err != nil {
				return err
			}
		}
		return nil
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage indexes",
}

var indexRemoveCmd = &cobra.Command{
	Use:   "remove <table>",
	Short: "Drop an index by --name or by the --columns it covers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if indexName == "" && len(indexColumns) == 0 {
			return fmt.Errorf("either --name or --columns is required")
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		opts := derby.IndexOptions{Name: indexName, Columns: indexColumns}
		if err := s.adapter.RemoveIndex(cmd.Context(), args[0], opts); err != nil {
			return err
		}
		logger.Info("index dropped", "name", s.adapter.IndexName(args[0], opts))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(tableCmd, indexCmd)
	tableCmd.AddCommand(tableRenameCmd, tableDropCmd)
	indexCmd.AddCommand(indexRemoveCmd)

	indexRemoveCmd.Flags().StringVar(&indexName, "name", "", "Index name")
	indexRemoveCmd.Flags().StringSliceVar(&indexColumns, "columns", nil, "Indexed columns (comma-separated)")
}
