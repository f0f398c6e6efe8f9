/*
Package datastore defines the repository contract for entities stored in a single table.

	type Repository interface {
	    GetOne(ctx context.Context, key storagemodels.Key) (storagemodels.Record, error)
	    QueryOne(ctx context.Context, indexID string, value any) (storagemodels.Record, error)
	    QueryAll(ctx context.Context, q Query) ([]storagemodels.Record, error)
	    FindAll(ctx context.Context, q Query) ([]storagemodels.Record, error)
	    Save(ctx context.Context, rec storagemodels.Record) error
	}

Implementations:
  - ddb: DynamoDB, one round trip per call
  - memory: in-process table for tests and local runs

Both share Planner, which resolves symbolic index ids through the registry and
compiles key conditions and filters, and the discriminator helpers Tag and
Untag. Every record written carries entityType; no record read exposes it.
*/
package datastore
