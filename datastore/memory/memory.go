/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory implements datastore.Repository in process, for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/filter"
	"github.com/suparena/tablestore/storagemodels"
)

// Repository implements datastore.Repository over a Table. It evaluates the
// same prepared requests the DynamoDB repository sends, so both variants
// agree on names, index participation and entity filtering.
type Repository struct {
	table   *Table
	planner *datastore.Planner

	getError   error
	queryError error
	scanError  error
	putError   error
}

var _ datastore.Repository = (*Repository)(nil)

// New creates a repository for def over table.
func New(table *Table, def datastore.Definition) (*Repository, error) {
	planner, err := datastore.NewPlanner(def)
	if err != nil {
		return nil, err
	}
	return NewWithPlanner(table, planner), nil
}

// NewWithPlanner creates a repository around an existing planner.
func NewWithPlanner(table *Table, planner *datastore.Planner) *Repository {
	return &Repository{table: table, planner: planner}
}

// WithGetError makes GetOne fail with a store fault wrapping err
func (m *Repository) WithGetError(err error) *Repository {
	m.getError = err
	return m
}

// WithQueryError makes queries fail with a store fault wrapping err
func (m *Repository) WithQueryError(err error) *Repository {
	m.queryError = err
	return m
}

// WithScanError makes scans fail with a store fault wrapping err
func (m *Repository) WithScanError(err error) *Repository {
	m.scanError = err
	return m
}

// WithPutError makes Save fail with a store fault wrapping err
func (m *Repository) WithPutError(err error) *Repository {
	m.putError = err
	return m
}

// Table returns the backing table.
func (m *Repository) Table() *Table { return m.table }

// Planner exposes the resolved names.
func (m *Repository) Planner() *datastore.Planner { return m.planner }

// GetOne retrieves a record by key
func (m *Repository) GetOne(ctx context.Context, key storagemodels.Key) (storagemodels.Record, error) {
	params, err := m.planner.PrepareGetOne(key)
	if err != nil {
		return nil, err
	}
	if err := m.fault(ctx, params.Operation, m.getError); err != nil {
		return nil, err
	}
	item, ok := m.table.Get(params.Key)
	if !ok {
		return nil, errors.NewNotFoundError(m.planner.Entity(), fmt.Sprintf("%s/%s", params.Key.PartitionKey, params.Key.SortKey))
	}
	return datastore.Untag(item), nil
}

// QueryOne returns the first matching record of this entity
func (m *Repository) QueryOne(ctx context.Context, indexID string, value any) (storagemodels.Record, error) {
	params, err := m.planner.PrepareQueryOne(indexID, value)
	if err != nil {
		return nil, err
	}
	items, err := m.execute(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NewNotFoundError(m.planner.Entity(), fmt.Sprintf("%s=%v", indexID, value))
	}
	return datastore.Untag(items[0]), nil
}

// QueryAll returns every matching record under one partition value
func (m *Repository) QueryAll(ctx context.Context, q datastore.Query) ([]storagemodels.Record, error) {
	params, err := m.planner.PrepareQueryAll(q)
	if err != nil {
		return nil, err
	}
	items, err := m.execute(ctx, params)
	if err != nil {
		return nil, err
	}
	return datastore.UntagAll(items), nil
}

// FindAll queries with a partition value and scans without one
func (m *Repository) FindAll(ctx context.Context, q datastore.Query) ([]storagemodels.Record, error) {
	params, err := m.planner.PrepareFindAll(q)
	if err != nil {
		return nil, err
	}
	items, err := m.execute(ctx, params)
	if err != nil {
		return nil, err
	}
	return datastore.UntagAll(items), nil
}

// Save tags and stores rec, replacing any record at the same key
func (m *Repository) Save(ctx context.Context, rec storagemodels.Record) error {
	tagged, err := m.planner.PrepareSave(rec)
	if err != nil {
		return err
	}
	if err := m.fault(ctx, storagemodels.OpPut, m.putError); err != nil {
		return err
	}
	m.table.Put(tagged)
	return nil
}

// fault reports a cancelled context or an injected error as a store fault.
func (m *Repository) fault(ctx context.Context, op storagemodels.Operation, injected error) error {
	if err := ctx.Err(); err != nil {
		return errors.NewStoreFault(op.String(), err)
	}
	return errors.NewStoreFault(op.String(), injected)
}

func (m *Repository) execute(ctx context.Context, params *storagemodels.QueryParams) ([]storagemodels.Record, error) {
	injected := m.queryError
	if params.Operation == storagemodels.OpScan {
		injected = m.scanError
	}
	if err := m.fault(ctx, params.Operation, injected); err != nil {
		return nil, err
	}

	var out []storagemodels.Record
	for _, item := range m.table.Items() {
		ok, err := matches(params, item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}

	if params.Operation == storagemodels.OpQuery && params.SortAttribute != "" {
		// query results come back in sort-key order
		slices.SortStableFunc(out, func(a, b storagemodels.Record) int {
			return compareValues(a[params.SortAttribute], b[params.SortAttribute])
		})
	}
	if params.FirstOnly && len(out) > 1 {
		out = out[:1]
	}
	return out, nil
}

func matches(params *storagemodels.QueryParams, item storagemodels.Record) (bool, error) {
	// an item only appears in an index when it carries the index key attributes
	if params.IndexName != "" {
		if _, ok := item[params.PartitionAttribute]; !ok {
			return false, nil
		}
		if params.SortAttribute != "" {
			if _, ok := item[params.SortAttribute]; !ok {
				return false, nil
			}
		}
	}

	if params.Operation == storagemodels.OpQuery {
		ok, err := filter.Matches(item, params.PartitionAttribute, filter.Equality{Value: params.PartitionValue})
		if err != nil || !ok {
			return false, err
		}
		if params.SortConstraint != nil {
			ok, err := filter.Matches(item, params.SortAttribute, params.SortConstraint)
			if err != nil || !ok {
				return false, err
			}
		}
	}

	if item[storagemodels.AttrEntityType] != params.EntityType {
		return false, nil
	}
	return filter.MatchesAll(item, params.Filters)
}
