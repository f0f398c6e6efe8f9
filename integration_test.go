//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/config"
	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/filter"
	"github.com/suparena/tablestore/registry"
	"github.com/suparena/tablestore/storagemodels"
)

// setupStore opens a store against a provisioned CcTestsDynamoDbTable style
// table. The table must carry the LSI and GSI declared below.
func setupStore(t *testing.T) *tablestore.Store {
	prefix := os.Getenv("DDB_TEST_TABLE_PREFIX")
	if prefix == "" {
		t.Skip("DDB_TEST_TABLE_PREFIX not set, skipping integration test")
	}

	cfg := &config.Config{
		Backend: config.BackendDynamoDB,
		Prefix:  prefix,
		AWS: config.AWSConfig{
			Region:          os.Getenv("AWS_REGION"),
			Endpoint:        os.Getenv("AWS_ENDPOINT_URL"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		Logging: config.LoggingConfig{Level: "debug", Development: true},
		Entities: []config.EntityConfig{{
			ID:            "test-member",
			Table:         "tests",
			LocalIndexes:  []config.IndexConfig{{IndexDefinition: registry.Shorthand("last-name")}},
			GlobalIndexes: []config.IndexConfig{{IndexDefinition: registry.Shorthand("email")}},
		}},
	}

	store, err := tablestore.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIntegrationSaveAndRead(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store := setupStore(t)
	repo, err := store.Repository("test-member")
	if err != nil {
		t.Fatalf("Failed to get repository: %v", err)
	}

	groupID := fmt.Sprintf("group-%d", time.Now().UnixNano())
	email := fmt.Sprintf("%s@example.com", groupID)
	members := []storagemodels.Record{
		{"partitionKey": groupID, "sortKey": groupID, "TestMember_LastName": "Hopper", "TestMember_Age": 41},
		{"partitionKey": groupID, "sortKey": "m-2", "TestMember_LastName": "Lovelace", "TestMember_Age": 36,
			"TestMember_Email": email, "Sk_TestMember_Email": groupID},
		{"partitionKey": groupID, "sortKey": "m-3", "TestMember_LastName": "Liskov", "TestMember_Age": 84},
	}
	for _, m := range members {
		if err := repo.Save(ctx, m); err != nil {
			t.Fatalf("Failed to save member: %v", err)
		}
	}

	// parent record convention: sort key defaults to the partition key
	parent, err := repo.GetOne(ctx, storagemodels.Key{PartitionKey: groupID})
	if err != nil {
		t.Fatalf("Failed to get parent record: %v", err)
	}
	if parent["TestMember_LastName"] != "Hopper" {
		t.Errorf("Unexpected parent record: %v", parent)
	}
	if _, tagged := parent["entityType"]; tagged {
		t.Errorf("Discriminator leaked into result: %v", parent)
	}

	byEmail, err := repo.QueryOne(ctx, "email", email)
	if err != nil {
		t.Fatalf("Failed to query by email: %v", err)
	}
	if byEmail.SortKey() != "m-2" {
		t.Errorf("Expected m-2, got %v", byEmail.SortKey())
	}

	prefixed, err := repo.QueryAll(ctx, datastore.Query{
		IndexID:        "last-name",
		PartitionValue: groupID,
		SortKey:        filter.BeginsWith("L"),
		Filters:        map[string]filter.Constraint{"TestMember_Age": filter.Compare(filter.Gt, 40)},
	})
	if err != nil {
		t.Fatalf("Failed to query by last name: %v", err)
	}
	if len(prefixed) != 1 || prefixed[0].SortKey() != "m-3" {
		t.Errorf("Expected only m-3, got %v", prefixed)
	}

	scanned, err := repo.FindAll(ctx, datastore.Query{
		Filters: map[string]filter.Constraint{"partitionKey": filter.Equals(groupID)},
	})
	if err != nil {
		t.Fatalf("Failed to scan: %v", err)
	}
	if len(scanned) != 3 {
		t.Errorf("Expected 3 scanned records, got %d", len(scanned))
	}

	_, err = repo.GetOne(ctx, storagemodels.Key{PartitionKey: groupID, SortKey: "missing"})
	if !errors.IsNotFound(err) {
		t.Errorf("Expected not found error, got: %v", err)
	}
}
