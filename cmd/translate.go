package cmd

import (
	"fmt"
	"strings"

	"derby-shim/internal/derby"

	"github.com/spf13/cobra"
)

var (
	pageLimit  int
	pageOffset int
)

// offlineAdapter renders SQL without a connection, honouring configured
// type overrides.
func offlineAdapter() (*derby.Adapter, error) {
	types, err := NativeTypeOverrides()
	if err != nil {
		return nil, err
	}
	return derby.New(&derby.Script{}, derby.Config{NativeTypes: types}, derby.WithLogger(logger)), nil
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Render Derby SQL fragments without a database",
}

var translateTypeCmd = &cobra.Command{
	Use:   "type <logical-type>",
	Short: "Print the Derby column type of a logical type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := offlineAdapter()
		if err != nil {
			return err
		}
		opts, err := columnOptions(cmd.Flags())
		if err != nil {
			return err
		}
		sqlType, err := a.TypeToSQL(args[0], opts.Limit, opts.Precision, opts.Scale)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.AddColumnOptions(sqlType, opts))
		return nil
	},
}

var translateQuoteCmd = &cobra.Command{
	Use:   "quote <name>...",
	Short: "Quote column names the way the adapter does",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := offlineAdapter()
		if err != nil {
			return err
		}
		for _, n := range args {
			if strings.Contains(n, ".") {
				fmt.Fprintln(cmd.OutOrStdout(), a.QuoteTableName(n))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), a.QuoteColumnName(n))
			}
		}
		return nil
	},
}

var translateDistinctCmd = &cobra.Command{
	Use:   "distinct <columns> [order-by]",
	Short: "Print the DISTINCT clause for a select list and ORDER BY",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := offlineAdapter()
		if err != nil {
			return err
		}
		orderBy := ""
		if len(args) == 2 {
			orderBy = args[1]
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Distinct(args[0], orderBy))
		return nil
	},
}

var translatePaginateCmd = &cobra.Command{
	Use:   "paginate <sql>",
	Short: "Append OFFSET / FETCH FIRST to a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := offlineAdapter()
		if err != nil {
			return err
		}
		var opts derby.LimitOffset
		if cmd.Flags().Changed("limit") {
			opts.Limit = derby.Int(pageLimit)
		}
		if cmd.Flags().Changed("offset") {
			opts.Offset = derby.Int(pageOffset)
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.AddLimitOffset(args[0], opts))
		return nil
	},
}

var translateRewriteCmd = &cobra.Command{
	Use:   "rewrite <sql>",
	Short: "Rewrite = NULL comparisons to IS NULL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), derby.RewriteNullComparisons(args[0]))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(translateCmd)
	translateCmd.AddCommand(translateTypeCmd, translateQuoteCmd, translateDistinctCmd,
		translatePaginateCmd, translateRewriteCmd)

	addColumnFlags(translateTypeCmd)
	translatePaginateCmd.Flags().IntVar(&pageLimit, "limit", 0, "FETCH FIRST n ROWS")
	translatePaginateCmd.Flags().IntVar(&pageOffset, "offset", 0, "OFFSET n ROWS")
}
