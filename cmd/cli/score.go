package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"gosubgroup/adapters/stats/chisq"
	"gosubgroup/app"
	"gosubgroup/domain/core"
	"gosubgroup/internal/config"
	apperrors "gosubgroup/internal/errors"
	"gosubgroup/internal/quality"
)

func newScoreCmd() *cobra.Command {
	var data dataFlags
	var measures []string
	var a float64
	var direction, stat string
	var minInstances, depth, top, maxValues int

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Enumerate shallow subgroups and rank them by quality",
		Long: fmt.Sprintf(`Enumerate all conjunctions of up to --depth selectors and score them
with one or more quality functions. Candidates are ranked by the first one.

Quality functions: %s

Example: gosubgroup score --data orders.csv --target returned=yes --qf wracc --qf chi2 --depth 2 --top 10`,
			strings.Join(quality.Names, ", ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &data)
			if err != nil {
				return err
			}
			base := cfg.Quality
			if cmd.Flags().Changed("a") {
				base.A = a
			}
			if cmd.Flags().Changed("direction") {
				base.Direction = direction
			}
			if cmd.Flags().Changed("min-instances") {
				base.MinInstances = minInstances
			}
			if cmd.Flags().Changed("stat") {
				base.Stat = stat
			}
			if len(measures) == 0 {
				measures = []string{base.Name}
			}

			qcs := make([]config.QualityConfig, len(measures))
			for i, name := range measures {
				qcs[i] = base
				qcs[i].Name = name
			}
			return runScore(cmd.Context(), cfg, qcs, depth, top, maxValues)
		},
	}

	data.register(cmd)
	cmd.Flags().StringSliceVar(&measures, "qf", nil, "quality function, repeatable (QF_NAME)")
	cmd.Flags().Float64Var(&a, "a", 1.0, "size exponent of standard and ga_standard (QF_A)")
	cmd.Flags().StringVar(&direction, "direction", config.DefaultDirection, "chi2 direction: both|positive|negative (QF_DIRECTION)")
	cmd.Flags().IntVar(&minInstances, "min-instances", config.DefaultMinInstances, "chi2 minimum subgroup and complement size (QF_MIN_INSTANCES)")
	cmd.Flags().StringVar(&stat, "stat", config.DefaultStat, "chi2 statistic: chi2|p (QF_STAT)")
	cmd.Flags().IntVar(&depth, "depth", 2, "maximum number of selectors per candidate")
	cmd.Flags().IntVar(&top, "top", 10, "number of candidates to print, 0 for all")
	cmd.Flags().IntVar(&maxValues, "max-values", app.DefaultMaxValues, "skip nominal attributes with more distinct values")

	return cmd
}

func runScore(ctx context.Context, cfg *config.Config, measures []config.QualityConfig, depth, top, maxValues int) error {
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

	data, err := source.Load(ctx)
	if err != nil {
		return apperrors.Wrapf(err, "failed to load %s", source.Describe())
	}
	tgt, err := parseTarget(cfg.Data.Target)
	if err != nil {
		return err
	}

	service := app.NewScoringService(chisq.NewProvider(), logger)
	result, err := service.Score(ctx, app.ScoreRequest{
		Data:            data,
		Target:          tgt,
		WeightAttribute: core.VariableKey(cfg.Data.WeightAttribute),
		Measures:        measures,
		Depth:           depth,
		Top:             top,
		MaxValues:       maxValues,
	})
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("%s (%d rows, %d candidates)", tgt, data.Rows(), result.Candidates))

	header := table.Row{"#", "Subgroup", "Size"}
	columns := []table.ColumnConfig{{Name: "Size", Align: text.AlignRight}}
	for _, name := range result.Measures {
		header = append(header, name)
		columns = append(columns, table.ColumnConfig{Name: name, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(columns)

	for i, row := range result.Subgroups {
		r := table.Row{i + 1, row.Subgroup.Description.String(), row.Size}
		for _, score := range row.Scores {
			r = append(r, formatScore(score))
		}
		t.AppendRow(r)
	}
	t.AppendFooter(table.Row{"", "run " + result.RunID.String(), "", fmt.Sprintf("%dms", result.RuntimeMs)})
	t.Render()
	return nil
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
