package ports

import (
	"context"

	"gosubgroup/domain/dataset"
)

// TableSource loads the dataset a task is evaluated on. Sources are read-only;
// the returned table is not modified afterwards.
type TableSource interface {
	Load(ctx context.Context) (*dataset.Table, error)
	Describe() string
}
