/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/filter"
	"github.com/suparena/tablestore/registry"
	"github.com/suparena/tablestore/storagemodels"
)

func newGroupPlanner(t *testing.T) *Planner {
	t.Helper()
	p, err := NewPlanner(Definition{
		Prefix:   "cc",
		TableID:  "groups",
		EntityID: "group",
		LocalIndexes: []registry.IndexDefinition{
			registry.Shorthand("name"),
		},
		GlobalIndexes: []registry.IndexDefinition{
			{ID: "group-slug", PartitionKey: "Group_Slug"},
			registry.Shorthand("source-id-COURSE"),
		},
	})
	require.NoError(t, err)
	return p
}

func TestPlannerNames(t *testing.T) {
	p := newGroupPlanner(t)
	assert.Equal(t, "Group", p.Entity())
	assert.Equal(t, "CcGroupsDynamoDbTable", p.TableName())
	assert.Len(t, p.Indexes().Indexes(), 3)
}

func TestPrepareGetOne(t *testing.T) {
	p := newGroupPlanner(t)

	implicit, err := p.PrepareGetOne(storagemodels.Key{PartitionKey: "g-1"})
	require.NoError(t, err)
	explicit, err := p.PrepareGetOne(storagemodels.Key{PartitionKey: "g-1", SortKey: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, explicit, implicit)
	assert.Equal(t, storagemodels.OpGet, implicit.Operation)
	assert.Equal(t, "CcGroupsDynamoDbTable", implicit.TableName)

	child, err := p.PrepareGetOne(storagemodels.Key{PartitionKey: "g-1", SortKey: "m-1"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", child.Key.SortKey)

	_, err = p.PrepareGetOne(storagemodels.Key{})
	assert.True(t, errors.IsValidationError(err))
}

func TestPrepareQueryAllGroupSlug(t *testing.T) {
	p := newGroupPlanner(t)

	params, err := p.PrepareQueryAll(Query{IndexID: "group-slug", PartitionValue: "math-2024-01"})
	require.NoError(t, err)
	assert.Equal(t, storagemodels.OpQuery, params.Operation)
	assert.Equal(t, "CcGroupsGroupGroupSlugDynamoDbGSI", params.IndexName)
	assert.Equal(t, "Group_Slug = :pk", params.KeyConditionExpression)
	assert.Equal(t, "entityType = :ent", params.FilterExpression)
	assert.Equal(t, map[string]any{":pk": "math-2024-01", ":ent": "Group"}, params.ExpressionAttributeValues)
	assert.False(t, params.FirstOnly)
}

func TestPrepareQueryAllWithSortAndFilters(t *testing.T) {
	p := newGroupPlanner(t)

	params, err := p.PrepareQueryAll(Query{
		IndexID:        "source-id-COURSE",
		PartitionValue: "COURSE#1",
		SortKey:        filter.BeginsWith("COURSE#"),
		Filters: map[string]filter.Constraint{
			"Group_Status": filter.Equals("active"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Group_SourceIdCOURSE = :pk AND begins_with(Sk_Group_SourceIdCOURSE, :sk)", params.KeyConditionExpression)
	assert.Equal(t, "entityType = :ent AND Group_Status = :a", params.FilterExpression)
	assert.Equal(t, map[string]any{
		":pk":  "COURSE#1",
		":sk":  "COURSE#",
		":ent": "Group",
		":a":   "active",
	}, params.ExpressionAttributeValues)
	assert.Equal(t, "Group_SourceIdCOURSE", params.PartitionAttribute)
	assert.Equal(t, filter.BeginsWith("COURSE#"), params.SortConstraint)
}

func TestPrepareQueryAllBaseTableAndLocal(t *testing.T) {
	p := newGroupPlanner(t)

	params, err := p.PrepareQueryAll(Query{PartitionValue: "g-1", SortKey: filter.Compare(filter.Gt, "a")})
	require.NoError(t, err)
	assert.Empty(t, params.IndexName)
	assert.Equal(t, "partitionKey = :pk AND sortKey > :sk", params.KeyConditionExpression)

	params, err = p.PrepareQueryAll(Query{IndexID: "name", PartitionValue: "g-1", SortKey: filter.Between("A", "M")})
	require.NoError(t, err)
	assert.Equal(t, "CcGroupsGroupNameDynamoDbLSI", params.IndexName)
	assert.Equal(t, "partitionKey = :pk AND Group_Name BETWEEN :skStart AND :skEnd", params.KeyConditionExpression)
}

func TestPrepareQueryAllRejects(t *testing.T) {
	p := newGroupPlanner(t)

	for name, q := range map[string]Query{
		"no partition":       {IndexID: "group-slug"},
		"empty partition":    {IndexID: "group-slug", PartitionValue: ""},
		"unregistered index": {IndexID: "email", PartitionValue: "x"},
		"bad filter":         {IndexID: "group-slug", PartitionValue: "x", Filters: map[string]filter.Constraint{"a": nil}},
		"not-equal sort":     {IndexID: "group-slug", PartitionValue: "x", SortKey: filter.Compare(filter.Ne, "y")},
	} {
		t.Run(name, func(t *testing.T) {
			params, err := p.PrepareQueryAll(q)
			assert.Nil(t, params)
			assert.True(t, errors.IsConfiguration(err), "expected configuration error, got %v", err)
		})
	}
}

func TestPrepareQueryOne(t *testing.T) {
	p := newGroupPlanner(t)

	params, err := p.PrepareQueryOne("group-slug", "math-2024-01")
	require.NoError(t, err)
	assert.True(t, params.FirstOnly)
	assert.Equal(t, "Group_Slug = :pk", params.KeyConditionExpression)
	assert.Equal(t, "entityType = :ent", params.FilterExpression)

	_, err = p.PrepareQueryOne("group-slug", nil)
	assert.True(t, errors.IsConfiguration(err))

	_, err = p.PrepareQueryOne("missing", "x")
	assert.True(t, errors.IsConfiguration(err))
}

func TestPrepareFindAll(t *testing.T) {
	p := newGroupPlanner(t)

	t.Run("with partition dispatches to query", func(t *testing.T) {
		q := Query{IndexID: "group-slug", PartitionValue: "math-2024-01"}
		viaFind, err := p.PrepareFindAll(q)
		require.NoError(t, err)
		viaQuery, err := p.PrepareQueryAll(q)
		require.NoError(t, err)
		assert.Equal(t, viaQuery, viaFind)
	})

	t.Run("without partition scans", func(t *testing.T) {
		params, err := p.PrepareFindAll(Query{Filters: map[string]filter.Constraint{
			"Group_Name": filter.BeginsWith("Math"),
		}})
		require.NoError(t, err)
		assert.Equal(t, storagemodels.OpScan, params.Operation)
		assert.Empty(t, params.KeyConditionExpression)
		assert.Empty(t, params.IndexName)
		assert.Equal(t, "entityType = :ent AND begins_with(Group_Name, :a)", params.FilterExpression)
		assert.Equal(t, map[string]any{":ent": "Group", ":a": "Math"}, params.ExpressionAttributeValues)
	})

	t.Run("scan over an index", func(t *testing.T) {
		params, err := p.PrepareFindAll(Query{IndexID: "group-slug"})
		require.NoError(t, err)
		assert.Equal(t, storagemodels.OpScan, params.Operation)
		assert.Equal(t, "CcGroupsGroupGroupSlugDynamoDbGSI", params.IndexName)
	})

	t.Run("sort without partition is rejected", func(t *testing.T) {
		params, err := p.PrepareFindAll(Query{IndexID: "group-slug", SortKey: filter.Equals("x")})
		assert.Nil(t, params)
		assert.True(t, errors.IsConfiguration(err))
	})
}

func TestPrepareSave(t *testing.T) {
	p := newGroupPlanner(t)

	rec := storagemodels.Record{"partitionKey": "g-1", "sortKey": "g-1", "Group_Name": "Maths"}
	item, err := p.PrepareSave(rec)
	require.NoError(t, err)
	assert.Equal(t, "Group", item["entityType"])
	assert.NotContains(t, rec, "entityType", "input is not mutated")

	for name, bad := range map[string]storagemodels.Record{
		"missing partitionKey": {"sortKey": "g-1"},
		"missing sortKey":      {"partitionKey": "g-1"},
		"empty partitionKey":   {"partitionKey": "", "sortKey": "g-1"},
		"numeric sortKey":      {"partitionKey": "g-1", "sortKey": 1},
		"nil record":           nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := p.PrepareSave(bad)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestQueryHasPartition(t *testing.T) {
	assert.False(t, Query{}.HasPartition())
	assert.False(t, Query{PartitionValue: ""}.HasPartition())
	assert.True(t, Query{PartitionValue: "x"}.HasPartition())
	assert.True(t, Query{PartitionValue: 0}.HasPartition())
}
