/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import "github.com/suparena/tablestore/storagemodels"

// Tag returns a copy of item carrying the entity discriminator.
func Tag(item storagemodels.Record, entity string) storagemodels.Record {
	out := item.Clone()
	out[storagemodels.AttrEntityType] = entity
	return out
}

// Untag returns a copy of item without the entity discriminator.
func Untag(item storagemodels.Record) storagemodels.Record {
	out := item.Clone()
	delete(out, storagemodels.AttrEntityType)
	return out
}

// UntagAll untags every item.
func UntagAll(items []storagemodels.Record) []storagemodels.Record {
	out := make([]storagemodels.Record, len(items))
	for i, item := range items {
		out[i] = Untag(item)
	}
	return out
}
