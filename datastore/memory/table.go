/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import (
	"cmp"
	"reflect"
	"slices"
	"sync"

	"github.com/suparena/tablestore/filter"
	"github.com/suparena/tablestore/storagemodels"
)

// Table is an in-process stand-in for one physical table. Several entity
// repositories may share a Table, as they share a table in DynamoDB.
type Table struct {
	mu    sync.RWMutex
	items map[storagemodels.Key]storagemodels.Record
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{items: make(map[storagemodels.Key]storagemodels.Record)}
}

// Put replaces the item at its key. Last write wins.
func (t *Table) Put(item storagemodels.Record) {
	key := storagemodels.Key{PartitionKey: item.PartitionKey(), SortKey: item.SortKey()}
	stored := normalize(item)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[key] = stored
}

// Get returns a copy of the item at key.
func (t *Table) Get(key storagemodels.Key) (storagemodels.Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	item, ok := t.items[key]
	if !ok {
		return nil, false
	}
	return item.Clone(), true
}

// Items returns copies of every item ordered by partition then sort key.
func (t *Table) Items() []storagemodels.Record {
	t.mu.RLock()
	out := make([]storagemodels.Record, 0, len(t.items))
	for _, item := range t.items {
		out = append(out, item.Clone())
	}
	t.mu.RUnlock()

	slices.SortFunc(out, func(a, b storagemodels.Record) int {
		return cmp.Or(
			cmp.Compare(a.PartitionKey(), b.PartitionKey()),
			cmp.Compare(a.SortKey(), b.SortKey()),
		)
	})
	return out
}

// Len returns the number of stored items.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// Clear removes all items.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = make(map[storagemodels.Key]storagemodels.Record)
}

// normalize copies item the way a round trip through DynamoDB would:
// nil attributes disappear, timestamps become strings and numbers come
// back as float64.
func normalize(item storagemodels.Record) storagemodels.Record {
	out := make(storagemodels.Record, len(item))
	for k, v := range item {
		if v == nil {
			continue
		}
		if ts, ok := filter.Timestamp(v); ok {
			out[k] = ts
			continue
		}
		switch reflect.ValueOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			if n, err := filter.Scalar(v); err == nil {
				v = n
			}
		}
		out[k] = v
	}
	return out
}

// compareValues orders index key values: strings and numbers by value,
// anything else after them.
func compareValues(a, b any) int {
	na, errA := filter.Scalar(a)
	nb, errB := filter.Scalar(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	switch x := na.(type) {
	case string:
		if y, ok := nb.(string); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := nb.(float64); ok {
			return cmp.Compare(x, y)
		}
	}
	return 0
}
