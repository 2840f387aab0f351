package cmd

import (
	"fmt"
	"strings"

	"derby-shim/internal/derby"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Name     string `mapstructure:"name"`
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Active   bool   `mapstructure:"active"`
	Username string `mapstructure:"username"`
	Schema   string `mapstructure:"schema"`
}

// AdapterConfig derives the Derby adapter settings of this entry.
func (c *DBConfig) AdapterConfig(types derby.NativeTypes) derby.Config {
	return derby.Config{Username: c.Username, Schema: c.Schema, NativeTypes: types}
}

// GetActiveDBConfig returns the active Derby database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	return activeConfig("databases")
}

// GetActiveSourceConfig returns the active source database for port.
func GetActiveSourceConfig() (*DBConfig, error) {
	return activeConfig("sources")
}

func activeConfig(key string) (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey(key, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse %s config: %w", key, err)
	}

	var active *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			active = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active entry found in %s (set active: true)", key)
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active entries found in %s (only one can be active)", key)
	}
	if active.Driver == "" || active.DSN == "" {
		return nil, fmt.Errorf("%s entry %q needs both driver and dsn", key, active.Name)
	}

	return active, nil
}

type nativeTypeConfig struct {
	Name      string `mapstructure:"name"`
	Limit     *int   `mapstructure:"limit"`
	Precision *int   `mapstructure:"precision"`
	Scale     *int   `mapstructure:"scale"`
}

// NativeTypeOverrides reads the native_types section, keyed by logical type.
func NativeTypeOverrides() (derby.NativeTypes, error) {
	var raw map[string]nativeTypeConfig
	if err := viper.UnmarshalKey("native_types", &raw); err != nil {
		return nil, fmt.Errorf("failed to parse native_types config: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	types := make(derby.NativeTypes, len(raw))
	for logical, t := range raw {
		if t.Name == "" {
			return nil, fmt.Errorf("native_types.%s: name is required", logical)
		}
		types[strings.ToLower(logical)] = derby.NativeType{
			Name:      t.Name,
			Limit:     t.Limit,
			Precision: t.Precision,
			Scale:     t.Scale,
		}
	}
	return types, nil
}
