/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/naming"
	"github.com/suparena/tablestore/storagemodels"
)

const component = "registry"

// IndexDefinition declares an index. Only ID is required; empty key attributes
// are derived by convention from the entity and index names.
type IndexDefinition struct {
	ID           string `yaml:"id" validate:"required"`
	PartitionKey string `yaml:"partitionKey,omitempty"`
	SortKey      string `yaml:"sortKey,omitempty"`
}

// Shorthand declares an index by id only.
func Shorthand(id string) IndexDefinition {
	return IndexDefinition{ID: id}
}

// IndexSpec is a resolved index: its physical name and key attribute names.
type IndexSpec struct {
	ID                    string
	Kind                  storagemodels.IndexKind
	PartitionKeyAttribute string
	SortKeyAttribute      string
	PhysicalName          string
}

// IsBaseTable reports whether s addresses the table itself.
func (s IndexSpec) IsBaseTable() bool {
	return s.PhysicalName == ""
}

// BaseTable is used when no index id is given.
var BaseTable = IndexSpec{
	PartitionKeyAttribute: storagemodels.AttrPartitionKey,
	SortKeyAttribute:      storagemodels.AttrSortKey,
}

// IndexRegistry holds the indexes of one entity on one table. It is built once
// and never mutated, so it is safe for concurrent use.
type IndexRegistry struct {
	entity string
	table  string
	local  map[string]IndexSpec
	global map[string]IndexSpec
	order  []IndexSpec
}

// NewIndexRegistry resolves every definition up front.
func NewIndexRegistry(resolver naming.Resolver, tableID, entityID string, local, global []IndexDefinition) (*IndexRegistry, error) {
	entity, err := resolver.Entity(entityID)
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", entityID, err)
	}
	table, err := resolver.Table(tableID)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", tableID, err)
	}

	r := &IndexRegistry{
		entity: entity,
		table:  table,
		local:  make(map[string]IndexSpec, len(local)),
		global: make(map[string]IndexSpec, len(global)),
	}
	if err := r.register(resolver, tableID, entityID, storagemodels.Local, local, r.local); err != nil {
		return nil, err
	}
	if err := r.register(resolver, tableID, entityID, storagemodels.Global, global, r.global); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *IndexRegistry) register(resolver naming.Resolver, tableID, entityID string, kind storagemodels.IndexKind, defs []IndexDefinition, into map[string]IndexSpec) error {
	for _, def := range defs {
		if _, dup := into[def.ID]; dup {
			return errors.NewConfigurationError(component, "%s index %q registered twice for %s", kind, def.ID, r.entity)
		}
		name, err := resolver.Index(tableID, entityID, def.ID, kind)
		if err != nil {
			return fmt.Errorf("%s index %q: %w", kind, def.ID, err)
		}
		// def.ID is well-formed once the physical name resolved
		idName, _ := naming.ToName(def.ID)

		spec := IndexSpec{ID: def.ID, Kind: kind, PhysicalName: name}
		switch kind {
		case storagemodels.Global:
			spec.PartitionKeyAttribute = orDefault(def.PartitionKey, fmt.Sprintf("%s_%s", r.entity, idName))
			spec.SortKeyAttribute = orDefault(def.SortKey, fmt.Sprintf("Sk_%s_%s", r.entity, idName))
		case storagemodels.Local:
			if def.PartitionKey != "" && def.PartitionKey != storagemodels.AttrPartitionKey {
				return errors.NewConfigurationError(component,
					"local index %q must use the table partition key, got %q", def.ID, def.PartitionKey)
			}
			spec.PartitionKeyAttribute = storagemodels.AttrPartitionKey
			spec.SortKeyAttribute = orDefault(def.SortKey, fmt.Sprintf("%s_%s", r.entity, idName))
		}
		into[def.ID] = spec
		r.order = append(r.order, spec)
	}
	return nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// Entity returns the converted entity name.
func (r *IndexRegistry) Entity() string { return r.entity }

// TableName returns the physical table name.
func (r *IndexRegistry) TableName() string { return r.table }

// Resolve returns the index of the given kind. An unregistered id is a
// configuration error: it means code and provisioned infrastructure disagree.
func (r *IndexRegistry) Resolve(id string, kind storagemodels.IndexKind) (IndexSpec, error) {
	m := r.local
	if kind == storagemodels.Global {
		m = r.global
	}
	spec, ok := m[id]
	if !ok {
		return IndexSpec{}, errors.NewConfigurationError(component, "%s index %q is not registered for %s", kind, id, r.entity)
	}
	return spec, nil
}

// Lookup resolves an id of either kind, preferring global indexes.
// The empty id resolves to the base table.
func (r *IndexRegistry) Lookup(id string) (IndexSpec, error) {
	if id == "" {
		return BaseTable, nil
	}
	if spec, ok := r.global[id]; ok {
		return spec, nil
	}
	if spec, ok := r.local[id]; ok {
		return spec, nil
	}
	return IndexSpec{}, errors.NewConfigurationError(component, "index %q is not registered for %s", id, r.entity)
}

// Indexes returns every registered index, local first, in declaration order.
func (r *IndexRegistry) Indexes() []IndexSpec {
	out := make([]IndexSpec, len(r.order))
	copy(out, r.order)
	return out
}
