package cards

import (
	"context"
)

// Report The result of a catalog import.
type Report struct {
	CardCount int
	Imported  int
}

// Dataset Imports all cards matching a search.
type Dataset[Q any] interface {
	Import(ctx context.Context, search Q) (*Report, error)
}
