package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
	"gosubgroup/domain/subgroup"
	"gosubgroup/domain/target"
	"gosubgroup/internal/config"
	apperrors "gosubgroup/internal/errors"
	"gosubgroup/internal/logging"
	"gosubgroup/internal/quality"
	"gosubgroup/ports"
)

// ScoringService scores a fixed set of candidate subgroups with several
// quality functions
type ScoringService struct {
	provider ports.StatisticsProvider
	logger   *zap.Logger
}

// ScoreRequest defines the inputs of one scoring run
type ScoreRequest struct {
	Data            *dataset.Table
	Target          subgroup.Target
	WeightAttribute core.VariableKey
	Measures        []config.QualityConfig
	Depth           int
	Top             int
	MaxValues       int
	// Parallelism bounds concurrently scoring measures; 0 means one per CPU
	Parallelism int
}

// ScoredSubgroup is one candidate with a score per measure, in request order
type ScoredSubgroup struct {
	Subgroup *subgroup.Subgroup
	Size     int
	Scores   []float64
}

// ScoreResult contains the ranked candidates of a run
type ScoreResult struct {
	RunID      core.RunID
	Measures   []string
	Candidates int
	Subgroups  []ScoredSubgroup
	RuntimeMs  int64
}

// NewScoringService creates a scoring service
func NewScoringService(provider ports.StatisticsProvider, logger *zap.Logger) *ScoringService {
	return &ScoringService{provider: provider, logger: logging.OrNop(logger)}
}

// Score enumerates candidates up to the requested depth and scores them with
// every measure. Measures run in parallel, each on a private instance; the
// table, candidate masks and precomputed statistics are shared read-only.
// Candidates are ranked by the first measure, NaN last.
func (s *ScoringService) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	startTime := time.Now()
	runID := core.NewRunID()
	logger := s.logger.With(zap.Stringer("run_id", runID))

	if len(req.Measures) == 0 {
		return nil, errors.New("at least one quality function is required")
	}
	if req.Depth < 1 {
		req.Depth = 1
	}
	task := &subgroup.Task{Data: req.Data, Target: req.Target, WeightAttribute: req.WeightAttribute}

	exclude := append([]core.VariableKey{}, req.Target.Attributes()...)
	if req.WeightAttribute != "" {
		exclude = append(exclude, req.WeightAttribute)
	}
	selectors, err := BuildSelectors(req.Data, SelectorOptions{Exclude: exclude, MaxValues: req.MaxValues})
	if err != nil {
		return nil, fmt.Errorf("failed to build selectors: %w", err)
	}
	candidates, sizes, err := materialize(task, EnumerateConjunctions(selectors, req.Depth))
	if err != nil {
		return nil, err
	}
	shared, err := s.sharedStatistics(task, candidates)
	if err != nil {
		return nil, err
	}
	logger.Info("candidates enumerated",
		zap.Int("selectors", len(selectors)),
		zap.Int("candidates", len(candidates)),
		zap.Int("depth", req.Depth))

	effectiveSampleSize := 0.0
	if req.WeightAttribute != "" {
		weights, err := req.Data.NumericColumn(req.WeightAttribute)
		if err != nil {
			return nil, err
		}
		if effectiveSampleSize, err = s.provider.EffectiveSampleSize(weights); err != nil {
			return nil, err
		}
	}

	// each goroutine owns its measure; none is shared
	measures := make([]quality.Measure, len(req.Measures))
	names := make([]string, len(req.Measures))
	for i, cfg := range req.Measures {
		m, err := quality.New(cfg, s.provider, quality.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		measures[i] = m
		names[i] = m.Name()
	}

	scores := make([][]float64, len(measures))
	g, gctx := errgroup.WithContext(ctx)
	parallelism := req.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	g.SetLimit(parallelism)
	for i, m := range measures {
		i, m := i, m
		g.Go(func() error {
			out, err := s.scoreWith(gctx, m, task, candidates, shared, effectiveSampleSize)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Name(), err)
			}
			scores[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ScoreResult{RunID: runID, Measures: names, Candidates: len(candidates)}
	for c, sg := range candidates {
		row := ScoredSubgroup{Subgroup: sg, Size: sizes[c], Scores: make([]float64, len(names))}
		for m := range names {
			row.Scores[m] = scores[m][c]
		}
		result.Subgroups = append(result.Subgroups, row)
	}
	rank(result.Subgroups)
	if req.Top > 0 && len(result.Subgroups) > req.Top {
		result.Subgroups = result.Subgroups[:req.Top]
	}

	result.RuntimeMs = time.Since(startTime).Milliseconds()
	logger.Info("scoring completed", zap.Strings("measures", names), zap.Int64("runtime_ms", result.RuntimeMs))
	return result, nil
}

func (s *ScoringService) scoreWith(ctx context.Context, m quality.Measure, task *subgroup.Task, candidates []*subgroup.Subgroup, shared []quality.Statistics, effectiveSampleSize float64) ([]float64, error) {
	if err := m.CalculateConstantStatistics(task); err != nil {
		return nil, err
	}
	if task.WeightAttribute != "" && !m.SupportsWeights() {
		return nil, apperrors.WithCode(apperrors.CodeNotImplemented,
			core.NewNotImplementedError(fmt.Sprintf("instance weights with %s", m.Name())))
	}

	if sq, ok := m.(*quality.StandardQF); ok && task.WeightAttribute == "" {
		if batch, ok := positivesStats(shared); ok {
			out, err := sq.EvaluateAll(batch)
			if err != nil {
				return nil, err
			}
			for i, sg := range candidates {
				if !m.IsApplicable(sg) {
					out[i] = math.NaN()
				}
			}
			return out, nil
		}
	}

	out := make([]float64, len(candidates))
	for i, sg := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !m.IsApplicable(sg) {
			out[i] = math.NaN()
			continue
		}

		var score float64
		var err error
		switch wm := m.(type) {
		case *quality.ChiSquaredQF:
			if task.WeightAttribute != "" {
				score, err = wm.EvaluateWeighted(sg, task.WeightAttribute, effectiveSampleSize)
				break
			}
			score, err = wm.Evaluate(sg, shared[i])
		case *quality.StandardQF:
			if task.WeightAttribute != "" {
				score, err = wm.EvaluateWeighted(sg, task.WeightAttribute)
				break
			}
			score, err = wm.Evaluate(sg, shared[i])
		default:
			score, err = m.Evaluate(sg, shared[i])
		}
		if err != nil {
			return nil, err
		}
		out[i] = score
	}
	return out, nil
}

// positivesStats unwraps shared statistics when every entry is a binary count
func positivesStats(shared []quality.Statistics) ([]quality.PositivesStats, bool) {
	batch := make([]quality.PositivesStats, len(shared))
	for i, st := range shared {
		ps, ok := st.(quality.PositivesStats)
		if !ok {
			return nil, false
		}
		batch[i] = ps
	}
	return batch, true
}

// materialize computes every candidate's cover once so measures never re-run
// the selectors
func materialize(task *subgroup.Task, patterns []*subgroup.Conjunction) ([]*subgroup.Subgroup, []int, error) {
	candidates := make([]*subgroup.Subgroup, 0, len(patterns))
	sizes := make([]int, 0, len(patterns))
	for _, p := range patterns {
		mask, err := p.Covers(task.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to cover %s: %w", p, err)
		}
		candidates = append(candidates, subgroup.New(task.Target, p).WithCover(subgroup.FromMask(mask)))
		sizes = append(sizes, int(mask.Count()))
	}
	return candidates, sizes, nil
}

// sharedStatistics computes the per-candidate statistics every measure of the
// target's family can reuse
func (s *ScoringService) sharedStatistics(task *subgroup.Task, candidates []*subgroup.Subgroup) ([]quality.Statistics, error) {
	var base quality.Measure
	switch task.Target.(type) {
	case *target.BinaryTarget:
		base = quality.NewStandardQF(0)
	case *target.FITarget:
		base = quality.NewCountQF()
	default:
		return make([]quality.Statistics, len(candidates)), nil
	}
	if err := base.CalculateConstantStatistics(task); err != nil {
		return nil, err
	}

	shared := make([]quality.Statistics, len(candidates))
	for i, sg := range candidates {
		st, err := base.CalculateStatistics(sg, task.Data)
		if err != nil {
			return nil, err
		}
		shared[i] = st
	}
	return shared, nil
}

// rank orders by the first score descending; NaN sorts last, ties keep
// enumeration order
func rank(rows []ScoredSubgroup) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Scores[0], rows[j].Scores[0]
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		if math.IsNaN(a) {
			return false
		}
		return a > b
	})
}

// Report returns the named statistics of one candidate against a binary target
func (s *ScoringService) Report(data *dataset.Table, bt *target.BinaryTarget, description *subgroup.Conjunction) (target.Report, error) {
	return bt.CalculateStatistics(subgroup.FromPredicate(description), data)
}
