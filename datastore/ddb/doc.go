/*
Package ddb implements datastore.Repository over DynamoDB.

	repo, err := ddb.New(client, datastore.Definition{
	    Prefix:        "cc",
	    TableID:       "members",
	    EntityID:      "member",
	    GlobalIndexes: []registry.IndexDefinition{registry.Shorthand("email")},
	}, ddb.WithLogger(logger))

	rec, err := repo.QueryOne(ctx, "email", "jo@example.com")

Each operation is one GetItem, Query, Scan or PutItem call. Results are not
paginated and failures are not retried; client errors come back as
errors.StoreFault wrapping the SDK error. Every operation opens a span on the
configured tracer provider.

The client is borrowed. Owning and closing it is the caller's job, see
tablestore.Store.
*/
package ddb
