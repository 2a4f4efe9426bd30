package excel

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gosubgroup/domain/dataset"
	apperrors "gosubgroup/internal/errors"
)

var sampleRows = [][]string{
	{"channel", "basket_value", "returned"},
	{"organic", "12.5", "no"},
	{"paid_search", "40", "yes"},
	{" email ", "", "no"},
}

func assertSampleTable(t *testing.T, table *dataset.Table) {
	t.Helper()
	assert.Equal(t, 3, table.Rows())

	channel, err := table.Column("channel")
	require.NoError(t, err)
	assert.Equal(t, dataset.TypeCategorical, channel.Type)
	assert.Equal(t, []string{"organic", "paid_search", "email"}, channel.Raw)

	basket, err := table.NumericColumn("basket_value")
	require.NoError(t, err)
	assert.Equal(t, 12.5, basket[0])
	assert.Equal(t, 40.0, basket[1])
	assert.True(t, math.IsNaN(basket[2]), "empty cell should be NaN")
}

func TestDataReader_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	content := "channel,basket_value,returned\norganic,12.5,no\npaid_search,40,yes\n email ,,no\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reader := NewDataReader(path)
	assert.Contains(t, reader.Describe(), "csv")

	table, err := reader.Load(context.Background())
	require.NoError(t, err)
	assertSampleTable(t, table)
}

func TestDataReader_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	f := excelize.NewFile()
	for i, row := range sampleRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow(DefaultSheet, cell, &values))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := NewDataReader(path).Load(context.Background())
	require.NoError(t, err)
	assertSampleTable(t, table)
}

func TestDataReader_Errors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "missing.csv")).ReadData()
	assert.Equal(t, apperrors.CodeDataSource, apperrors.GetCode(err))

	path := filepath.Join(t.TempDir(), "header_only.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o600))
	_, err = NewDataReader(path).Load(context.Background())
	assert.Equal(t, apperrors.CodeDataSource, apperrors.GetCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewDataReader(path).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDataReader_LogsThroughLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("channel,returned\norganic,no\nemail,yes\n"), 0o600))

	core, logs := observer.New(zapcore.DebugLevel)
	_, err := NewDataReader(path).WithLogger(zap.New(core)).Load(context.Background())
	require.NoError(t, err)

	built := logs.FilterMessage("table built").All()
	require.Len(t, built, 1)
	assert.Equal(t, path, built[0].ContextMap()["file"])
	assert.Equal(t, int64(2), built[0].ContextMap()["rows"])
	assert.NotEmpty(t, logs.FilterMessage("csv file read").All())
}
