/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"maps"

	"github.com/suparena/tablestore/filter"
)

// Mandatory attributes of every persisted item.
const (
	AttrPartitionKey = "partitionKey"
	AttrSortKey      = "sortKey"
	AttrEntityType   = "entityType"
)

// Record is a flat attribute-name to scalar mapping. It always carries
// partitionKey and sortKey once persisted.
type Record map[string]any

// PartitionKey returns the partitionKey attribute when it is a string.
func (r Record) PartitionKey() string {
	s, _ := r[AttrPartitionKey].(string)
	return s
}

// SortKey returns the sortKey attribute when it is a string.
func (r Record) SortKey() string {
	s, _ := r[AttrSortKey].(string)
	return s
}

// Clone returns a shallow copy. A nil record clones to an empty one.
func (r Record) Clone() Record {
	out := make(Record, len(r)+1)
	maps.Copy(out, r)
	return out
}

// Key addresses a single record. An empty SortKey addresses the parent record.
type Key struct {
	PartitionKey string
	SortKey      string
}

// Normalize applies the parent-record convention: sort key defaults to the partition key.
func (k Key) Normalize() Key {
	if k.SortKey == "" {
		k.SortKey = k.PartitionKey
	}
	return k
}

// IndexKind distinguishes local from global secondary indexes.
type IndexKind int

const (
	// Local indexes share the base partition key and are fixed at table creation.
	Local IndexKind = iota
	// Global indexes carry their own partition and sort keys.
	Global
)

func (k IndexKind) String() string {
	if k == Global {
		return "global"
	}
	return "local"
}

// Operation is the store primitive a plan is executed with.
type Operation int

const (
	OpGet Operation = iota
	OpQuery
	OpScan
	OpPut
)

func (o Operation) String() string {
	switch o {
	case OpGet:
		return "GetItem"
	case OpQuery:
		return "Query"
	case OpScan:
		return "Scan"
	case OpPut:
		return "PutItem"
	}
	return "Unknown"
}

// QueryParams is a prepared store request. The compiled fields are sent as-is
// by the DynamoDB repository; the structured fields let the in-memory
// repository evaluate the same request without parsing expressions.
type QueryParams struct {
	Operation Operation

	// TableName is the physical table name.
	TableName string
	// IndexName is the physical index name, empty for the base table.
	IndexName string
	// Key is set for OpGet.
	Key Key
	// KeyConditionExpression is set for OpQuery.
	KeyConditionExpression string
	// FilterExpression always carries the entity-type clause for OpQuery and OpScan.
	FilterExpression string
	// ExpressionAttributeValues binds every placeholder referenced above.
	ExpressionAttributeValues map[string]any
	// FirstOnly marks a queryOne request.
	FirstOnly bool

	EntityType         string
	PartitionAttribute string
	PartitionValue     any
	SortAttribute      string
	SortConstraint     filter.Constraint
	Filters            map[string]filter.Constraint
}

// Clone copies the maps so callers can mutate the result freely.
func (p *QueryParams) Clone() *QueryParams {
	out := *p
	out.ExpressionAttributeValues = maps.Clone(p.ExpressionAttributeValues)
	out.Filters = maps.Clone(p.Filters)
	return &out
}
