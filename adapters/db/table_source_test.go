package db

import (
	"context"
	"math"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gosubgroup/domain/dataset"
	apperrors "gosubgroup/internal/errors"
)

func seededDB(t *testing.T) *TableSource {
	t.Helper()
	ctx := context.Background()
	db, err := Connect(ctx, "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// one connection, so every statement sees the same in-memory database
	db.SetMaxOpenConns(1)

	db.MustExecContext(ctx, `CREATE TABLE orders (channel TEXT, basket_value REAL, returned TEXT)`)
	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO orders VALUES (?, ?, ?)`, "organic", 12.5, "no")
	tx.MustExec(`INSERT INTO orders VALUES (?, ?, ?)`, "paid_search", 40, "yes")
	tx.MustExec(`INSERT INTO orders VALUES (?, NULL, ?)`, "email", "no")
	require.NoError(t, tx.Commit())

	return NewTableSource(db, `SELECT channel, basket_value, returned FROM orders WHERE channel <> ? ORDER BY rowid`, "direct")
}

func TestTableSource_Load(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	source := seededDB(t).WithLogger(zap.New(core))
	assert.Equal(t, "sqlite3 query", source.Describe())

	table, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, table.Rows())

	entries := logs.FilterMessage("query loaded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])

	channel, err := table.Column("channel")
	require.NoError(t, err)
	assert.Equal(t, dataset.TypeCategorical, channel.Type)
	assert.Equal(t, []string{"organic", "paid_search", "email"}, channel.Raw)

	basket, err := table.NumericColumn("basket_value")
	require.NoError(t, err)
	assert.Equal(t, 12.5, basket[0])
	assert.Equal(t, 40.0, basket[1])
	assert.True(t, math.IsNaN(basket[2]))
}

func TestTableSource_EmptyResult(t *testing.T) {
	source := seededDB(t)
	source.query = `SELECT channel FROM orders WHERE channel = ?`
	source.args = []interface{}{"nobody"}

	_, err := source.Load(context.Background())
	assert.EqualError(t, err, "sqlite3 query data source error: query returned no rows")
	assert.Equal(t, apperrors.CodeDataSource, apperrors.GetCode(err))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "abc", cellString([]byte("abc")))
	assert.Equal(t, "42", cellString(int64(42)))
	assert.Equal(t, "0.25", cellString(0.25))
	assert.Equal(t, "true", cellString(true))
}
