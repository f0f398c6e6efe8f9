/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/tablestore"
)

const testConfig = `
backend: memory
prefix: cc
entities:
  - id: group-member
    table: groups
    localIndexes: [last-name]
    globalIndexes: [email]
`

func TestRunPrintsNames(t *testing.T) {
	t.Setenv("AWS_NAME_PREFIX", "")
	t.Setenv("AWS_ENDPOINT_URL", "")

	path := filepath.Join(t.TempDir(), "tablestore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", path}, &out))

	got := out.String()
	assert.Contains(t, got, "CcGroupsDynamoDbTable")
	assert.Contains(t, got, "CcGroupsGroupMemberLastNameDynamoDbLSI")
	assert.Contains(t, got, "CcGroupsGroupMemberEmailDynamoDbGSI")
	assert.Contains(t, got, "GroupMember_Email")
	assert.Contains(t, got, "Sk_GroupMember_Email")
}

func TestRunWithoutRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_NAME_PREFIX", "")

	path := filepath.Join(t.TempDir(), "tablestore.yaml")
	cfg := "backend: dynamodb\nprefix: cc\nentities:\n  - {id: group, table: groups, globalIndexes: [slug]}\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", path}, &out))
	assert.Contains(t, out.String(), "CcGroupsGroupSlugDynamoDbGSI")
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-v"}, &out))
	assert.Contains(t, out.String(), "tablenames tablestore "+tablestore.Version)
}

func TestRunMissingConfig(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-config", filepath.Join(t.TempDir(), "none.yaml")}, &out)
	assert.Error(t, err)
}
