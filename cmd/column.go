package cmd

import (
	"fmt"

	"derby-shim/internal/derby"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	colLimit     int
	colPrecision int
	colScale     int
	colNotNull   bool
	colNullable  bool
	colDefault   string
)

// columnOptions builds the option bag from the flags the user actually set.
func columnOptions(flags *pflag.FlagSet) (derby.ColumnOptions, error) {
	var opts derby.ColumnOptions
	if flags.Changed("limit") {
		opts.Limit = derby.Int(colLimit)
	}
	if flags.Changed("precision") {
		opts.Precision = derby.Int(colPrecision)
	}
	if flags.Changed("scale") {
		opts.Scale = derby.Int(colScale)
	}
	if flags.Changed("not-null") && flags.Changed("nullable") {
		return opts, fmt.Errorf("--not-null and --nullable are mutually exclusive")
	}
	if flags.Changed("not-null") {
		opts.Null = derby.Bool(!colNotNull)
	}
	if flags.Changed("nullable") {
		opts.Null = derby.Bool(colNullable)
	}
	if flags.Changed("default") {
		opts = opts.WithDefault(colDefault)
	}
	return opts, nil
}

func addColumnFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&colLimit, "limit", 0, "Column length")
	cmd.Flags().IntVar(&colPrecision, "precision", 0, "Decimal precision")
	cmd.Flags().IntVar(&colScale, "scale", 0, "Decimal scale")
	cmd.Flags().BoolVar(&colNotNull, "not-null", false, "Disallow NULL")
	cmd.Flags().BoolVar(&colNullable, "nullable", false, "Allow NULL")
	cmd.Flags().StringVar(&colDefault, "default", "", "Default value")
}

var columnCmd = &cobra.Command{
	Use:   "column",
	Short: "Add, change, remove or rename a column",
}

var columnAddCmd = &cobra.Command{
	Use:   "add <table> <column> <type>",
	Short: "Add a column",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := columnOptions(cmd.Flags())
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.adapter.AddColumn(cmd.Context(), args[0], args[1], args[2], opts); err != nil {
			return err
		}
		logger.Info("column added", "table", args[0], "column", args[1])
		return nil
	},
}

var columnChangeCmd = &cobra.Command{
	Use:   "change <table> <column> <type>",
	Short: "Change the type, nullability or default of a column",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := columnOptions(cmd.Flags())
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.adapter.ChangeColumn(cmd.Context(), args[0], args[1], args[2], opts); err != nil {
			return err
		}
		logger.Info("column changed", "table", args[0], "column", args[1])
		return nil
	},
}

var columnRemoveCmd = &cobra.Command{
	Use:   "remove <table> <column>",
	Short: "Drop a column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		return s.adapter.RemoveColumn(cmd.Context(), args[0], args[1])
	},
}

var columnRenameCmd = &cobra.Command{
	Use:   "rename <table> <column> <new-name>",
	Short: "Rename a column",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		return s.adapter.RenameColumn(cmd.Context(), args[0], args[1], args[2])
	},
}

func init() {
	RootCmd.AddCommand(columnCmd)
	columnCmd.AddCommand(columnAddCmd, columnChangeCmd, columnRemoveCmd, columnRenameCmd)

	addColumnFlags(columnAddCmd)
	addColumnFlags(columnChangeCmd)
}
