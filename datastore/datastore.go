/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/tablestore/filter"
	"github.com/suparena/tablestore/storagemodels"
)

// Repository is the persistence contract for one entity kind in a single table.
// Implementations are immutable after construction and safe for concurrent use.
type Repository interface {
	// GetOne looks a record up by key. An empty sort key addresses the parent record.
	GetOne(ctx context.Context, key storagemodels.Key) (storagemodels.Record, error)

	// QueryOne returns the first record of this entity whose index partition
	// attribute equals value. The empty index id queries the base table.
	QueryOne(ctx context.Context, indexID string, value any) (storagemodels.Record, error)

	// QueryAll returns every matching record of this entity under one partition value.
	QueryAll(ctx context.Context, q Query) ([]storagemodels.Record, error)

	// FindAll queries when a partition value is given and scans otherwise.
	FindAll(ctx context.Context, q Query) ([]storagemodels.Record, error)

	// Save replaces the record wholesale.
	Save(ctx context.Context, rec storagemodels.Record) error
}

// Query selects records through an index.
type Query struct {
	// IndexID is a symbolic index id, never a physical name. Empty means the base table.
	IndexID string
	// PartitionValue is compared for equality with the index partition attribute.
	// nil and "" both mean absent.
	PartitionValue any
	// SortKey optionally narrows by the index sort attribute.
	SortKey filter.Constraint
	// Filters are applied after the key condition.
	Filters map[string]filter.Constraint
}

// HasPartition reports whether a partition value was supplied.
func (q Query) HasPartition() bool {
	switch v := q.PartitionValue.(type) {
	case nil:
		return false
	case string:
		return v != ""
	}
	return true
}
