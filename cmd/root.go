package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"derby-shim/internal/derby"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	dryRun  bool
	verbose bool
	logger  = slog.New(slog.DiscardHandler)
)

var RootCmd = &cobra.Command{
	Use:   "derby-shim",
	Short: "Apache Derby dialect tooling",
	Long: `
  ___  ___ ___ ___ __   __    ___ _  _ ___ __  __
 |   \| __| _ \ _ )\ \ / /  / __| || |_ _|  \/  |
 | |) | _||   / _ \ \ V /   \__ \ __ || || |\/| |
 |___/|___|_|_\___/  |_|    |___/_||_|___|_|  |_|

DERBY SHIM - ORM dialect rules for Apache Derby
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./derby-shim.yaml)")
	RootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print the SQL instead of running it")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every statement to stderr")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("derby-shim")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// session is the Derby target of one command.
type session struct {
	adapter *derby.Adapter
	// script collects the statements in dry-run mode; nil otherwise.
	script *derby.Script
	db     *sql.DB
}

// openSession connects to the active database, or records into a Script
// when --dry-run is set. A dry run still reads the active entry for its
// username, schema and type overrides when one is configured.
func openSession(ctx context.Context) (*session, error) {
	types, err := NativeTypeOverrides()
	if err != nil {
		return nil, err
	}

	cfg, cfgErr := GetActiveDBConfig()
	if dryRun {
		s := &session{script: &derby.Script{}}
		var adapterCfg derby.Config
		if cfgErr == nil {
			adapterCfg = cfg.AdapterConfig(types)
		} else {
			adapterCfg = derby.Config{NativeTypes: types}
		}
		s.adapter = derby.New(s.script, adapterCfg, derby.WithLogger(logger))
		return s, nil
	}
	if cfgErr != nil {
		return nil, cfgErr
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	logger.Debug("connected", slog.String("name", cfg.Name), slog.String("driver", cfg.Driver))

	return &session{
		adapter: derby.New(derby.WrapDB(db), cfg.AdapterConfig(types), derby.WithLogger(logger)),
		db:      db,
	}, nil
}

// Close prints the collected script in dry-run mode and releases the connection.
func (s *session) Close() error {
	if s.script != nil {
		fmt.Print(s.script.String())
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
