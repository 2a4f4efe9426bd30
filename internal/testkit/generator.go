// Package testkit builds deterministic tables and coverage masks for tests.
package testkit

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/bits-and-blooms/bitset"

	"gosubgroup/domain/dataset"
)

// Column names of generated order tables
const (
	ColumnChannel  = "channel"
	ColumnDevice   = "device"
	ColumnCountry  = "country"
	ColumnBasket   = "basket_value"
	ColumnReturned = "returned"
	ColumnWeight   = "weight"
)

// OrderGeneratorConfig configures the order table generator
type OrderGeneratorConfig struct {
	Rows           int
	ReturnRateBase float64
	// ReturnRateLift is added to the return probability of paid_search orders
	// placed on mobile, planting a subgroup a search should find.
	ReturnRateLift float64
	UniformWeights bool
	Seed           int64
}

// DefaultOrderConfig returns sensible defaults for order table generation
func DefaultOrderConfig() OrderGeneratorConfig {
	return OrderGeneratorConfig{
		Rows:           500,
		ReturnRateBase: 0.08,
		ReturnRateLift: 0.5,
		UniformWeights: true,
		Seed:           42,
	}
}

// OrderTableGenerator generates e-commerce order rows with a binary
// "returned" target
type OrderTableGenerator struct {
	config OrderGeneratorConfig
	rng    *rand.Rand
}

// NewOrderTableGenerator creates a new generator
func NewOrderTableGenerator(config OrderGeneratorConfig) *OrderTableGenerator {
	return &OrderTableGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Records generates the header and raw rows
func (g *OrderTableGenerator) Records() ([]string, [][]string) {
	headers := []string{ColumnChannel, ColumnDevice, ColumnCountry, ColumnBasket, ColumnReturned, ColumnWeight}
	rows := make([][]string, 0, g.config.Rows)

	for i := 0; i < g.config.Rows; i++ {
		channel := g.randomChannel()
		device := g.randomDevice()

		returnRate := g.config.ReturnRateBase
		if channel == "paid_search" && device == "mobile" {
			returnRate += g.config.ReturnRateLift
		}
		returned := "no"
		if g.rng.Float64() < returnRate {
			returned = "yes"
		}

		weight := 1.0
		if !g.config.UniformWeights {
			weight = 0.5 + g.rng.Float64()*1.5
		}

		rows = append(rows, []string{
			channel,
			device,
			g.randomCountry(),
			strconv.FormatFloat(float64(10+g.rng.Intn(490)), 'f', 2, 64),
			returned,
			strconv.FormatFloat(weight, 'f', 4, 64),
		})
	}
	return headers, rows
}

// Generate builds the table
func (g *OrderTableGenerator) Generate() (*dataset.Table, error) {
	headers, rows := g.Records()
	table, err := dataset.FromRecords(headers, rows)
	if err != nil {
		return nil, fmt.Errorf("generate order table: %w", err)
	}
	return table, nil
}

// NestedMasks returns levels masks over n rows, each a random subset of the
// previous one. The first mask covers keep of the rows on average.
func NestedMasks(seed int64, n, levels int, keep float64) []*bitset.BitSet {
	rng := rand.New(rand.NewSource(seed))
	masks := make([]*bitset.BitSet, 0, levels)

	current := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		current.Set(uint(i))
	}
	for l := 0; l < levels; l++ {
		next := bitset.New(uint(n))
		for i, ok := current.NextSet(0); ok; i, ok = current.NextSet(i + 1) {
			if rng.Float64() < keep {
				next.Set(i)
			}
		}
		masks = append(masks, next)
		current = next
	}
	return masks
}

// GeneralizationTable is a 100 row table over two binary patterns g and h with
// target label==yes:
//
//	g      50 rows, 20 positives
//	h      30 rows, 27 positives
//	g & h  10 rows,  8 positives
//	all   100 rows, 39 positives
func GeneralizationTable() (*dataset.Table, error) {
	headers := []string{"g", "h", "label"}
	rows := make([][]string, 100)
	for i := range rows {
		g, h, label := "out", "out", "no"
		switch {
		case i < 10:
			g, h = "in", "in"
			if i < 8 {
				label = "yes"
			}
		case i < 30:
			h = "in"
			if i < 29 {
				label = "yes"
			}
		case i < 70:
			g = "in"
			if i < 42 {
				label = "yes"
			}
		}
		rows[i] = []string{g, h, label}
	}
	return dataset.FromRecords(headers, rows)
}

func (g *OrderTableGenerator) randomChannel() string {
	return g.weighted(
		[]string{"organic", "paid_search", "social", "email", "direct"},
		[]float64{0.4, 0.3, 0.15, 0.1, 0.05})
}

func (g *OrderTableGenerator) randomDevice() string {
	return g.weighted(
		[]string{"mobile", "desktop", "tablet"},
		[]float64{0.6, 0.35, 0.05})
}

func (g *OrderTableGenerator) randomCountry() string {
	countries := []string{"US", "CA", "GB", "DE", "FR", "AU", "JP"}
	return countries[g.rng.Intn(len(countries))]
}

func (g *OrderTableGenerator) weighted(values []string, weights []float64) string {
	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return values[i]
		}
	}
	return values[0]
}
