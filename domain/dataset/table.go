package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"

	"gosubgroup/domain/core"
)

// StatisticalType defines variable types for analysis
type StatisticalType string

const (
	TypeNumeric     StatisticalType = "numeric"
	TypeCategorical StatisticalType = "categorical"
)

// Column holds one variable. Raw is always populated; Numeric only for numeric
// columns, with NaN for missing cells.
type Column struct {
	Key     core.VariableKey
	Type    StatisticalType
	Raw     []string
	Numeric []float64
}

// Table is the read-only dataset every coverage mask is computed against.
type Table struct {
	columns []Column
	index   map[core.VariableKey]int
	rows    int
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{index: make(map[core.VariableKey]int)}
}

// FromRecords builds a table from a header row and string records. Columns whose
// non-empty cells all parse as floats become numeric.
func FromRecords(headers []string, records [][]string) (*Table, error) {
	t := NewTable()
	for col, header := range headers {
		key, err := core.ParseVariableKey(header)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", col, err)
		}
		values := make([]string, len(records))
		for row, record := range records {
			if col < len(record) {
				values[row] = strings.TrimSpace(record[col])
			}
		}
		if err := t.AddColumn(key, values); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn adds a column of raw values, inferring its statistical type
func (t *Table) AddColumn(key core.VariableKey, values []string) error {
	if err := t.checkNew(key, len(values)); err != nil {
		return err
	}

	column := Column{Key: key, Type: TypeCategorical, Raw: values}
	if numeric, ok := parseNumeric(values); ok {
		column.Type = TypeNumeric
		column.Numeric = numeric
	}
	t.append(column)
	return nil
}

// AddNumericColumn adds a numeric column; raw values are the shortest float formatting
func (t *Table) AddNumericColumn(key core.VariableKey, values []float64) error {
	if err := t.checkNew(key, len(values)); err != nil {
		return err
	}

	raw := make([]string, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			raw[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	t.append(Column{Key: key, Type: TypeNumeric, Raw: raw, Numeric: values})
	return nil
}

func (t *Table) checkNew(key core.VariableKey, length int) error {
	if _, exists := t.index[key]; exists {
		return core.NewValidationError(key.String(), "duplicate column")
	}
	if len(t.columns) > 0 && length != t.rows {
		return fmt.Errorf("%w: column %s has %d rows, expected %d", core.ErrLengthMismatch, key, length, t.rows)
	}
	return nil
}

func (t *Table) append(column Column) {
	if len(t.columns) == 0 {
		t.rows = len(column.Raw)
	}
	t.index[column.Key] = len(t.columns)
	t.columns = append(t.columns, column)
}

// Rows returns the number of instances
func (t *Table) Rows() int {
	return t.rows
}

// Keys returns the column keys in insertion order
func (t *Table) Keys() []core.VariableKey {
	keys := make([]core.VariableKey, len(t.columns))
	for i, c := range t.columns {
		keys[i] = c.Key
	}
	return keys
}

// Column returns the column for a variable key
func (t *Table) Column(key core.VariableKey) (*Column, error) {
	i, ok := t.index[key]
	if !ok {
		return nil, core.NewVariableNotFoundError(key)
	}
	return &t.columns[i], nil
}

// NumericColumn returns the parsed values of a numeric column
func (t *Table) NumericColumn(key core.VariableKey) ([]float64, error) {
	c, err := t.Column(key)
	if err != nil {
		return nil, err
	}
	if c.Type != TypeNumeric {
		return nil, fmt.Errorf("%w: %s", core.ErrNotNumeric, key)
	}
	return c.Numeric, nil
}

// DistinctValues returns the sorted distinct non-empty raw values of a column
func (t *Table) DistinctValues(key core.VariableKey) ([]string, error) {
	c, err := t.Column(key)
	if err != nil {
		return nil, err
	}

	seen := mapset.NewThreadUnsafeSet()
	for _, v := range c.Raw {
		if v != "" {
			seen.Add(v)
		}
	}
	values := make([]string, 0, seen.Cardinality())
	for v := range seen.Iter() {
		values = append(values, v.(string))
	}
	sort.Strings(values)
	return values, nil
}

// Validate ensures the table is internally consistent
func (t *Table) Validate() error {
	if len(t.columns) == 0 || t.rows == 0 {
		return core.ErrInsufficientData
	}
	for _, c := range t.columns {
		if len(c.Raw) != t.rows {
			return core.NewValidationError(c.Key.String(),
				fmt.Sprintf("has %d rows, expected %d", len(c.Raw), t.rows))
		}
		if c.Type == TypeNumeric && len(c.Numeric) != t.rows {
			return core.NewValidationError(c.Key.String(), "numeric view length mismatch")
		}
	}
	return nil
}

func parseNumeric(values []string) ([]float64, bool) {
	out := make([]float64, len(values))
	nonEmpty := 0
	for i, v := range values {
		if v == "" {
			out[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		out[i] = f
		nonEmpty++
	}
	return out, nonEmpty > 0
}
