package quality

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosubgroup/adapters/stats/chisq"
	"gosubgroup/domain/core"
	"gosubgroup/internal/config"
	apperrors "gosubgroup/internal/errors"
)

func TestNew(t *testing.T) {
	base := config.QualityConfig{A: 0.5, Direction: "both", MinInstances: 5, Stat: "chi2"}
	tests := []struct {
		name     string
		wantName string
	}{
		{"chi2", "chi2"},
		{"standard", "standard(a=0.5)"},
		{"lift", "lift"},
		{"binomial", "simple_binomial"},
		{"WRAcc", "wracc"},
		{"ga_standard", "ga_standard(a=0.5)"},
		{"count", "count"},
		{"area", "area"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Name = tt.name
			m, err := New(cfg, chisq.NewProvider())
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, m.Name())
		})
	}
	assert.Len(t, Names, len(tests))
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(config.QualityConfig{Name: "entropy"}, chisq.NewProvider())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownMeasure))
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))

	_, err = New(config.QualityConfig{Name: "chi2", Direction: "up", Stat: "chi2"}, chisq.NewProvider())
	assert.True(t, errors.Is(err, core.ErrUnknownDirection))
}
