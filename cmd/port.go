package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"derby-shim/internal/dialect"
	"derby-shim/internal/engine"
	"derby-shim/internal/schema"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	portData   bool
	portLimit  int
	portTables []string
)

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Recreate the tables of a source database in Derby",
	Long: `Reads the schema of the active entry under "sources", maps every column
onto a Derby type and creates the tables in dependency order. With --data the
rows are copied as well and identity columns are restarted past the copied ids.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		srcCfg, err := GetActiveSourceConfig()
		if err != nil {
			return err
		}

		d, err := dialect.GetDialect(srcCfg.Driver)
		if err != nil {
			return err
		}

		src, err := sql.Open(srcCfg.Driver, srcCfg.DSN)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		if err := src.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to connect to source: %w", err)
		}
		fmt.Printf("🦅 Source connected via %s (%s)\n", srcCfg.Driver, srcCfg.Name)

		schemaName := srcCfg.Schema
		if schemaName == "" && d.Name() == "mysql" {
			if err := src.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&schemaName); err != nil {
				return fmt.Errorf("failed to resolve mysql database: %w", err)
			}
		}

		log.Printf("Using Dialect: %s\n", d.Name())
		log.Println("Analyzing schema...")
		allTables, err := schema.Analyze(ctx, src, d, schemaName, logger)
		if err != nil {
			return err
		}

		targetTables, err := filterTables(allTables, tableNames())
		if err != nil {
			return err
		}

		target, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer target.Close()

		copyData := portData
		if target.script != nil && copyData {
			log.Println("[SIMULATION] Dry-Run Mode Active: rows are not copied.")
			copyData = false
		}

		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(len(targetTables)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Porting: "
		})

		p := engine.NewPorter(src, d, target.adapter, engine.PortOptions{
			CopyData:   copyData,
			BatchSize:  viper.GetInt("settings.batch_size"),
			Limit:      portLimit,
			OnProgress: func(string) { bar.Incr() },
		}, logger)
		results, err := p.Port(ctx, targetTables)

		uiprogress.Stop()

		if err != nil {
			return err
		}

		fmt.Println("\n📊 Summary Report (Dependency Order):")
		total := 0
		failed := 0
		for i, r := range results {
			icon := "✓"
			if r.Status == engine.StatusFailed {
				icon = "!"
				failed++
			}
			fmt.Printf("[%s] [%02d/%02d] %-20s : %d rows - %s\n",
				icon, i+1, len(results), r.TableName, r.Rows, r.Status)
			if r.ErrorMsg != "" {
				fmt.Printf("    └ Error: %s\n", r.ErrorMsg)
			}
			total += r.Rows
		}
		fmt.Println("--------------------------------------------------")
		fmt.Printf("Total Rows: %d\n", total)
		log.Printf("Port Done! Time Elapsed: %s", time.Since(start))

		if failed > 0 {
			return fmt.Errorf("%d of %d tables failed", failed, len(results))
		}
		return nil
	},
}

// tableNames resolves the requested tables: --tables first, then
// settings.tables. Empty means all tables.
func tableNames() []string {
	if len(portTables) > 0 {
		return portTables
	}
	return viper.GetStringSlice("settings.tables")
}

// filterTables keeps the requested tables, preserving dependency order.
func filterTables(all []*schema.Table, names []string) ([]*schema.Table, error) {
	if len(names) == 0 {
		return all, nil
	}

	req := make(map[string]bool, len(names))
	for _, n := range names {
		req[strings.ToLower(n)] = true
	}

	var out []*schema.Table
	for _, t := range all {
		if req[strings.ToLower(t.Name)] {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", names)
	}
	return out, nil
}

func init() {
	RootCmd.AddCommand(portCmd)

	portCmd.Flags().BoolVar(&portData, "data", false, "Copy rows after creating each table")
	portCmd.Flags().IntVar(&portLimit, "limit", 0, "Maximum rows copied per table (0 = all)")
	portCmd.Flags().Int("batch-size", 500, "Rows inserted per transaction")
	portCmd.Flags().StringSliceVarP(&portTables, "tables", "t", []string{}, "Specific tables to port (comma-separated)")

	viper.BindPFlag("settings.batch_size", portCmd.Flags().Lookup("batch-size"))
	viper.SetDefault("settings.batch_size", 500)
}
