package ports

import (
	"context"

	"gofacets/domain/dataset"
)

// TableReader materializes an on-disk artifact as a table
type TableReader interface {
	ReadTable(ctx context.Context) (*dataset.Table, error)
}
