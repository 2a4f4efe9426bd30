package chisq

import (
	"errors"
	"math"
	"testing"

	"gosubgroup/domain/core"
	apperrors "gosubgroup/internal/errors"
	"gosubgroup/ports"
)

var _ ports.StatisticsProvider = (*Provider)(nil)

// chi2(1) survival has the closed form erfc(sqrt(x/2))
func sfDF1(x float64) float64 {
	return math.Erfc(math.Sqrt(x / 2))
}

func TestContingencyTest_Uncorrected(t *testing.T) {
	p := NewProvider()
	stat, pValue, err := p.ContingencyTest([2][2]float64{{15, 35}, {5, 45}}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(stat-6.25) > 1e-12 {
		t.Errorf("Expected statistic 6.25, got %f", stat)
	}
	if math.Abs(pValue-sfDF1(6.25)) > 1e-9 {
		t.Errorf("Expected p-value %f, got %f", sfDF1(6.25), pValue)
	}
}

func TestContingencyTest_YatesCorrection(t *testing.T) {
	p := NewProvider()
	stat, pValue, err := p.ContingencyTest([2][2]float64{{15, 35}, {5, 45}}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(stat-5.0625) > 1e-12 {
		t.Errorf("Expected corrected statistic 5.0625, got %f", stat)
	}
	if math.Abs(pValue-sfDF1(5.0625)) > 1e-9 {
		t.Errorf("Expected p-value %f, got %f", sfDF1(5.0625), pValue)
	}
}

func TestContingencyTest_CorrectionNeverOvershoots(t *testing.T) {
	p := NewProvider()
	// expected 10.2 vs observed 10: the cell moves only 0.2
	stat, _, err := p.ContingencyTest([2][2]float64{{10, 20}, {7, 13}}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat > 1e-20 {
		t.Errorf("Expected corrected statistic ~0, got %g", stat)
	}
}

func TestContingencyTest_Independent(t *testing.T) {
	p := NewProvider()
	stat, pValue, err := p.ContingencyTest([2][2]float64{{10, 40}, {10, 40}}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(stat) > 1e-12 {
		t.Errorf("Expected statistic 0 for independent table, got %g", stat)
	}
	if pValue != 1 {
		t.Errorf("Expected p-value 1, got %g", pValue)
	}
}

func TestContingencyTest_ZeroExpected(t *testing.T) {
	p := NewProvider()
	_, _, err := p.ContingencyTest([2][2]float64{{0, 0}, {20, 80}}, false)
	if !errors.Is(err, core.ErrZeroExpected) {
		t.Errorf("Expected ErrZeroExpected, got %v", err)
	}

	_, _, err = p.ContingencyTest([2][2]float64{{-1, 0}, {20, 80}}, false)
	if code := apperrors.GetCode(err); code != apperrors.CodeValidationError {
		t.Errorf("Expected %s for negative cell, got %s (%v)", apperrors.CodeValidationError, code, err)
	}
}

func TestChiSquaredSurvival(t *testing.T) {
	p := NewProvider()
	for _, x := range []float64{0.5, 1, 3.84, 10} {
		got := p.ChiSquaredSurvival(x, 1)
		if math.Abs(got-sfDF1(x)) > 1e-9 {
			t.Errorf("sf(%g, 1) = %g, want %g", x, got, sfDF1(x))
		}
	}
	if p.ChiSquaredSurvival(0, 1) != 1 {
		t.Error("sf(0) must be 1")
	}
	// chi2(2) survival is exp(-x/2)
	if got := p.ChiSquaredSurvival(4, 2); math.Abs(got-math.Exp(-2)) > 1e-9 {
		t.Errorf("sf(4, 2) = %g, want %g", got, math.Exp(-2))
	}
}

func TestEffectiveSampleSize(t *testing.T) {
	p := NewProvider()

	ess, err := p.EffectiveSampleSize([]float64{1, 1, 1, 1})
	if err != nil || ess != 4 {
		t.Errorf("uniform weights: got %g, %v", ess, err)
	}

	ess, err = p.EffectiveSampleSize([]float64{1, 2, 3})
	if err != nil || math.Abs(ess-36.0/14.0) > 1e-12 {
		t.Errorf("weights 1,2,3: got %g, %v", ess, err)
	}

	if _, err := p.EffectiveSampleSize(nil); !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData for empty weights, got %v", err)
	}
	if _, err := p.EffectiveSampleSize([]float64{0, 0}); !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData for zero weights, got %v", err)
	}
}
