package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"gosubgroup/adapters/stats/chisq"
	"gosubgroup/app"
	"gosubgroup/domain/target"
	apperrors "gosubgroup/internal/errors"
)

func newReportCmd() *cobra.Command {
	var data dataFlags
	var description string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the statistics of one subgroup against a binary target",
		Long: `Print size, coverage, target share and lift of a subgroup given as
comma separated attribute=value pairs.

Example: gosubgroup report --data orders.csv --target returned=yes --subgroup channel=paid_search,device=mobile`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &data)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			source, closeSource, err := tableSource(ctx, cfg.Data, logger)
			if err != nil {
				return err
			}
			defer closeSource()
			loaded, err := source.Load(ctx)
			if err != nil {
				return apperrors.Wrapf(err, "failed to load %s", source.Describe())
			}

			tgt, err := parseTarget(cfg.Data.Target)
			if err != nil {
				return err
			}
			bt, ok := tgt.(*target.BinaryTarget)
			if !ok {
				return fmt.Errorf("report needs a binary target, set --target attribute=value")
			}
			pattern, err := app.ParseDescription(description)
			if err != nil {
				return err
			}

			report, err := app.NewScoringService(chisq.NewProvider(), logger).Report(loaded, bt, pattern)
			if err != nil {
				return err
			}
			printReport(fmt.Sprintf("%s | %s", pattern, bt), report)
			return nil
		},
	}

	data.register(cmd)
	cmd.Flags().StringVar(&description, "subgroup", "", "subgroup as attr=value[,attr=value...]; empty is the whole dataset")
	return cmd
}

func printReport(title string, report target.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Statistic", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Value", Align: text.AlignRight}})
	for _, key := range report.Keys() {
		t.AppendRow(table.Row{key, formatScore(report[key])})
	}
	t.Render()
}
