package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gosubgroup/adapters/db"
	"gosubgroup/adapters/excel"
	"gosubgroup/domain/core"
	"gosubgroup/domain/subgroup"
	"gosubgroup/domain/target"
	"gosubgroup/internal/config"
	"gosubgroup/internal/logging"
	"gosubgroup/ports"
)

var envFile string

// dataFlags are shared by every command that loads a table
type dataFlags struct {
	file     string
	dbURL    string
	dbDriver string
	query    string
	target   string
	weight   string
	logMode  string
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "data", "", "CSV or XLSX file (DATA_FILE)")
	cmd.Flags().StringVar(&f.dbURL, "db-url", "", "database URL (DATABASE_URL)")
	cmd.Flags().StringVar(&f.dbDriver, "db-driver", "", "database driver: postgres|sqlite3 (DATABASE_DRIVER)")
	cmd.Flags().StringVar(&f.query, "query", "", "query returning the table (DATA_QUERY)")
	cmd.Flags().StringVar(&f.target, "target", "", "binary target attribute=value (TARGET)")
	cmd.Flags().StringVar(&f.weight, "weight", "", "instance weight column (WEIGHT_ATTR)")
	cmd.Flags().StringVar(&f.logMode, "log-mode", "", "dev|prod|silent (LOG_MODE)")
}

// apply overlays explicitly set flags on the environment configuration
func (f *dataFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	overrides := []struct {
		flag string
		dst  *string
		val  string
	}{
		{"data", &cfg.Data.File, f.file},
		{"db-url", &cfg.Data.DatabaseURL, f.dbURL},
		{"db-driver", &cfg.Data.DatabaseDriver, f.dbDriver},
		{"query", &cfg.Data.Query, f.query},
		{"target", &cfg.Data.Target, f.target},
		{"weight", &cfg.Data.WeightAttribute, f.weight},
		{"log-mode", &cfg.Log.Mode, f.logMode},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = o.val
		}
	}
}

func loadConfig(cmd *cobra.Command, data *dataFlags) (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	data.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	mode, err := logging.ParseMode(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}
	return logging.New(mode)
}

func tableSource(ctx context.Context, cfg config.DataConfig, logger *zap.Logger) (ports.TableSource, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		conn, err := db.Connect(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db.NewTableSource(conn, cfg.Query).WithLogger(logger), func() { conn.Close() }, nil
	case cfg.File != "":
		return excel.NewDataReader(cfg.File).WithLogger(logger), func() {}, nil
	}
	return nil, nil, fmt.Errorf("no data source: set --data or --db-url")
}

func parseTarget(s string) (subgroup.Target, error) {
	if s == "" {
		return target.NewFITarget(), nil
	}
	attr, value, err := config.ParseTarget(s)
	if err != nil {
		return nil, err
	}
	return target.NewBinaryTarget(target.TargetOptions{Attribute: core.VariableKey(attr), Value: value})
}
