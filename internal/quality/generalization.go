package quality

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
	"gosubgroup/domain/subgroup"
)

// GeneralizationCache maps a pattern key to the statistics computed for it in
// the current run. Entries are only ever added; Reset starts a new run.
// It is not safe for concurrent writers.
type GeneralizationCache struct {
	entries map[string]GAStats
}

// NewGeneralizationCache creates an empty cache
func NewGeneralizationCache() *GeneralizationCache {
	return &GeneralizationCache{entries: make(map[string]GAStats)}
}

func (c *GeneralizationCache) Lookup(key string) (GAStats, bool) {
	s, ok := c.entries[key]
	return s, ok
}

// Store adds an entry; an existing entry for key is kept
func (c *GeneralizationCache) Store(key string, stats GAStats) {
	if _, exists := c.entries[key]; !exists {
		c.entries[key] = stats
	}
}

func (c *GeneralizationCache) Len() int {
	return len(c.entries)
}

func (c *GeneralizationCache) Reset() {
	c.entries = make(map[string]GAStats)
}

// BestGeneralisation returns the statistics with the highest positive ratio.
// Empty statistics are skipped, only a strictly higher ratio replaces the
// current best, and a ratio must exceed zero to be selected at all.
func BestGeneralisation(candidates ...PositivesStats) (PositivesStats, bool) {
	maxRatio := 0.0
	var best PositivesStats
	found := false
	for _, s := range candidates {
		if s.Size <= 0 {
			continue
		}
		if r := s.Ratio(); r > maxRatio {
			maxRatio = r
			best = s
			found = true
		}
	}
	return best, found
}

// GeneralizationAwareQF measures a candidate against the best of its
// generalizations instead of against the whole dataset: a subgroup is only
// interesting if its target share beats every simpler pattern it refines.
type GeneralizationAwareQF struct {
	base   *StandardQF
	a      float64
	cache  *GeneralizationCache
	stats0 PositivesStats
	runID  core.RunID
	logger *zap.Logger
}

// NewGeneralizationAwareQF creates the measure with size exponent a
func NewGeneralizationAwareQF(a float64, opts ...Option) *GeneralizationAwareQF {
	o := buildOptions(opts)
	return &GeneralizationAwareQF{
		base:   NewStandardQF(0, opts...),
		a:      a,
		cache:  NewGeneralizationCache(),
		logger: o.logger.With(zap.String("quality_function", "ga_standard")),
	}
}

func (q *GeneralizationAwareQF) Name() string {
	return fmt.Sprintf("ga_standard(a=%g)", q.a)
}

// CalculateConstantStatistics starts a new run for a new task: the cache is
// emptied and the dataset statistics seed every generalization search.
func (q *GeneralizationAwareQF) CalculateConstantStatistics(task *subgroup.Task) error {
	if q.base.HasConstantStatistics() && q.base.task == task {
		return nil
	}
	if err := q.base.CalculateConstantStatistics(task); err != nil {
		return err
	}
	stats0, err := q.base.positivesStats(subgroup.All(), task.Data)
	if err != nil {
		return err
	}

	q.stats0 = stats0
	q.cache.Reset()
	q.runID = core.NewRunID()
	q.logger.Debug("generalization cache reset",
		zap.Stringer("run_id", q.runID),
		zap.Int("size", stats0.Size),
		zap.Int("positives", stats0.PositivesCount))
	return nil
}

func (q *GeneralizationAwareQF) HasConstantStatistics() bool {
	return q.base.HasConstantStatistics()
}

// RunID identifies the current cache generation
func (q *GeneralizationAwareQF) RunID() core.RunID {
	return q.runID
}

// Cache exposes the per-run generalization cache
func (q *GeneralizationAwareQF) Cache() *GeneralizationCache {
	return q.cache
}

// CalculateStatistics returns the candidate's statistics and those of its best
// generalization, computing and caching every generalization on the way.
func (q *GeneralizationAwareQF) CalculateStatistics(sg *subgroup.Subgroup, data *dataset.Table) (Statistics, error) {
	if !q.HasConstantStatistics() {
		return nil, fmt.Errorf("%w: %s", core.ErrConstantsMissing, q.Name())
	}
	if data == nil {
		data = q.base.task.Data
	}
	return q.statsAndGeneralisation(sg.Description, sg.Representation(), data)
}

func (q *GeneralizationAwareQF) statsAndGeneralisation(pattern *subgroup.Conjunction, rep subgroup.Representation, data *dataset.Table) (GAStats, error) {
	if cached, ok := q.cache.Lookup(pattern.Key()); ok {
		return cached, nil
	}

	own, err := q.base.positivesStats(rep, data)
	if err != nil {
		return GAStats{}, err
	}

	best := q.stats0
	for _, g := range pattern.Generalizations() {
		gs, err := q.statsAndGeneralisation(g, subgroup.FromPredicate(g), data)
		if err != nil {
			return GAStats{}, err
		}
		if b, ok := BestGeneralisation(best, gs.Subgroup, gs.Generalisation); ok {
			best = b
		}
	}

	entry := GAStats{Subgroup: own, Generalisation: best}
	q.cache.Store(pattern.Key(), entry)
	return entry, nil
}

// Evaluate is (n/N)^a * (sg_ratio - general_ratio), NaN when either side is empty
func (q *GeneralizationAwareQF) Evaluate(sg *subgroup.Subgroup, stats Statistics) (float64, error) {
	s, err := ensureStatistics[GAStats](q, sg, stats)
	if err != nil {
		return 0, err
	}
	if s.Subgroup.Size == 0 || s.Generalisation.Size == 0 {
		return math.NaN(), nil
	}
	relativeSize := float64(s.Subgroup.Size) / float64(q.stats0.Size)
	return math.Pow(relativeSize, q.a) * (s.Subgroup.Ratio() - s.Generalisation.Ratio()), nil
}

func (q *GeneralizationAwareQF) IsApplicable(sg *subgroup.Subgroup) bool {
	return q.base.IsApplicable(sg)
}

func (q *GeneralizationAwareQF) SupportsWeights() bool {
	return false
}

func (q *GeneralizationAwareQF) RequiredStatAttrs() []string {
	return GAStats{}.StatAttrs()
}

// Reset drops the cache and run constants so the next task starts clean
func (q *GeneralizationAwareQF) Reset() {
	q.cache.Reset()
	q.base.hasConstant = false
	q.base.task = nil
	q.stats0 = PositivesStats{}
}
