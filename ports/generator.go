package ports

import (
	"context"

	"gofacets/domain/dataset"
)

// StatisticsGenerator turns named tables into a serialized feature statistics proto.
// The payload is opaque to callers.
type StatisticsGenerator interface {
	Generate(ctx context.Context, datasets []dataset.Entry) ([]byte, error)
}
