package quality

import (
	"fmt"
	"strings"

	"gosubgroup/domain/core"
	"gosubgroup/internal/config"
	"gosubgroup/ports"
)

// Names accepted by New, in the order they are listed to users
var Names = []string{"chi2", "standard", "lift", "binomial", "wracc", "ga_standard", "count", "area"}

// New builds the measure named in cfg. Each call returns a fresh instance with
// no run constants, so concurrent scorers can each own one.
func New(cfg config.QualityConfig, provider ports.StatisticsProvider, opts ...Option) (Measure, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {

	// Significance tests
	case "chi2", "chi_squared", "chisquared":
		qf, err := NewChiSquaredQF(cfg.Direction, cfg.MinInstances, cfg.Stat, provider, opts...)
		if err != nil {
			return nil, err
		}
		return qf, nil

	// Size against target share
	case "standard":
		return NewStandardQF(cfg.A, opts...), nil
	case "lift":
		return NewLiftQF(opts...), nil
	case "binomial", "simple_binomial":
		return NewSimpleBinomialQF(opts...), nil
	case "wracc":
		return NewWRAccQF(opts...), nil

	// Against the best generalization
	case "ga_standard", "generalization_aware":
		return NewGeneralizationAwareQF(cfg.A, opts...), nil

	// Itemset targets
	case "count":
		return NewCountQF(opts...), nil
	case "area":
		return NewAreaQF(opts...), nil

	default:
		return nil, configError(fmt.Errorf("%w: %q (available: %s)", core.ErrUnknownMeasure, cfg.Name, strings.Join(Names, ", ")))
	}
}
