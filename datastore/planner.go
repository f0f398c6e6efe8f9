/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/filter"
	"github.com/suparena/tablestore/naming"
	"github.com/suparena/tablestore/registry"
	"github.com/suparena/tablestore/storagemodels"
)

// Definition names one entity's slice of a table and the indexes provisioned for it.
type Definition struct {
	// Prefix is the deployment name prefix, e.g. "cc". May be empty.
	Prefix        string
	TableID       string
	EntityID      string
	LocalIndexes  []registry.IndexDefinition
	GlobalIndexes []registry.IndexDefinition
	// Sources lists the external id sources records of this entity may carry.
	Sources []string
}

// Planner turns repository calls into prepared QueryParams. It is shared by
// every Repository implementation so they agree on names and expressions.
type Planner struct {
	indexes *registry.IndexRegistry
}

// NewPlanner resolves every name in def once.
func NewPlanner(def Definition) (*Planner, error) {
	resolver, err := naming.NewResolver(def.Prefix)
	if err != nil {
		return nil, fmt.Errorf("prefix %q: %w", def.Prefix, err)
	}
	indexes, err := registry.NewIndexRegistry(resolver, def.TableID, def.EntityID, def.LocalIndexes, def.GlobalIndexes)
	if err != nil {
		return nil, err
	}
	return &Planner{indexes: indexes}, nil
}

// Entity returns the discriminator value written on every record.
func (p *Planner) Entity() string { return p.indexes.Entity() }

// TableName returns the physical table name.
func (p *Planner) TableName() string { return p.indexes.TableName() }

// Indexes returns the index registry.
func (p *Planner) Indexes() *registry.IndexRegistry { return p.indexes }

// PrepareGetOne applies the parent-record convention to key.
func (p *Planner) PrepareGetOne(key storagemodels.Key) (*storagemodels.QueryParams, error) {
	if key.PartitionKey == "" {
		return nil, errors.NewValidationError(storagemodels.AttrPartitionKey, "must not be empty")
	}
	return &storagemodels.QueryParams{
		Operation:  storagemodels.OpGet,
		TableName:  p.TableName(),
		Key:        key.Normalize(),
		EntityType: p.Entity(),
	}, nil
}

// PrepareQueryOne builds a partition-only query whose first match is the result.
func (p *Planner) PrepareQueryOne(indexID string, value any) (*storagemodels.QueryParams, error) {
	q := Query{IndexID: indexID, PartitionValue: value}
	if !q.HasPartition() {
		return nil, errors.NewConfigurationError("planner", "queryOne on %q needs a value", indexID)
	}
	params, err := p.prepareQuery(q)
	if err != nil {
		return nil, err
	}
	params.FirstOnly = true
	return params, nil
}

// PrepareQueryAll builds a query. A partition value is required.
func (p *Planner) PrepareQueryAll(q Query) (*storagemodels.QueryParams, error) {
	if !q.HasPartition() {
		return nil, errors.NewConfigurationError("planner", "queryAll on %q needs a partition value", q.IndexID)
	}
	return p.prepareQuery(q)
}

// PrepareFindAll builds a query when a partition value is given and a
// filtered scan otherwise. A sort constraint without a partition value is
// rejected rather than run as an unscoped scan.
func (p *Planner) PrepareFindAll(q Query) (*storagemodels.QueryParams, error) {
	if q.HasPartition() {
		return p.prepareQuery(q)
	}
	if q.SortKey != nil {
		return nil, errors.NewConfigurationError("planner", "sort constraint on %q without a partition value", q.IndexID)
	}

	spec, err := p.indexes.Lookup(q.IndexID)
	if err != nil {
		return nil, err
	}
	f, err := filter.Build(p.Entity(), q.Filters)
	if err != nil {
		return nil, err
	}
	return &storagemodels.QueryParams{
		Operation:                 storagemodels.OpScan,
		TableName:                 p.TableName(),
		IndexName:                 spec.PhysicalName,
		FilterExpression:          f.Expression,
		ExpressionAttributeValues: f.Bindings,
		EntityType:                p.Entity(),
		PartitionAttribute:        spec.PartitionKeyAttribute,
		SortAttribute:             spec.SortKeyAttribute,
		Filters:                   q.Filters,
	}, nil
}

func (p *Planner) prepareQuery(q Query) (*storagemodels.QueryParams, error) {
	spec, err := p.indexes.Lookup(q.IndexID)
	if err != nil {
		return nil, err
	}
	key, err := filter.KeyCondition(spec.PartitionKeyAttribute, q.PartitionValue, spec.SortKeyAttribute, q.SortKey)
	if err != nil {
		return nil, err
	}
	f, err := filter.Build(p.Entity(), q.Filters)
	if err != nil {
		return nil, err
	}
	return &storagemodels.QueryParams{
		Operation:                 storagemodels.OpQuery,
		TableName:                 p.TableName(),
		IndexName:                 spec.PhysicalName,
		KeyConditionExpression:    key.Expression,
		FilterExpression:          f.Expression,
		ExpressionAttributeValues: filter.Merge(key, f),
		EntityType:                p.Entity(),
		PartitionAttribute:        spec.PartitionKeyAttribute,
		PartitionValue:            q.PartitionValue,
		SortAttribute:             spec.SortKeyAttribute,
		SortConstraint:            q.SortKey,
		Filters:                   q.Filters,
	}, nil
}

// PrepareSave validates rec and returns the tagged item to put.
// Validation happens before any store call.
func (p *Planner) PrepareSave(rec storagemodels.Record) (storagemodels.Record, error) {
	if err := ValidateRecord(rec); err != nil {
		return nil, err
	}
	return Tag(rec, p.Entity()), nil
}

// ValidateRecord checks the mandatory key attributes.
func ValidateRecord(rec storagemodels.Record) error {
	for _, attr := range []string{storagemodels.AttrPartitionKey, storagemodels.AttrSortKey} {
		v, ok := rec[attr]
		if !ok {
			return errors.NewValidationError(attr, "is required")
		}
		if s, isString := v.(string); !isString || s == "" {
			return errors.NewValidationError(attr, "must be a non-empty string")
		}
	}
	return nil
}
