/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

func TestToName(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"last-name", "LastName"},
		{"cc", "Cc"},
		{"tests", "Tests"},
		{"group-slug", "GroupSlug"},
		{"source-id-COURSE", "SourceIdCOURSE"},
		{"group-member", "GroupMember"},
		{"a1-b2", "A1B2"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ToName(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToNameRejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "-", "a--b", "-a", "a-", "last_name", "last name", "naïve"} {
		t.Run(id, func(t *testing.T) {
			_, err := ToName(id)
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err), "expected configuration error, got %v", err)
		})
	}
}

func TestResolver(t *testing.T) {
	r, err := NewResolver("cc")
	require.NoError(t, err)

	t.Run("table", func(t *testing.T) {
		name, err := r.Table("tests")
		require.NoError(t, err)
		assert.Equal(t, "CcTestsDynamoDbTable", name)
	})

	t.Run("global index", func(t *testing.T) {
		name, err := r.Index("tests", "test", "last-name", storagemodels.Global)
		require.NoError(t, err)
		assert.Equal(t, "CcTestsTestLastNameDynamoDbGSI", name)
	})

	t.Run("local index", func(t *testing.T) {
		name, err := r.Index("tests", "test", "last-name", storagemodels.Local)
		require.NoError(t, err)
		assert.Equal(t, "CcTestsTestLastNameDynamoDbLSI", name)
	})

	t.Run("deterministic", func(t *testing.T) {
		other, err := NewResolver("cc")
		require.NoError(t, err)
		a, _ := r.Index("members", "member", "email", storagemodels.Global)
		b, _ := other.Index("members", "member", "email", storagemodels.Global)
		assert.Equal(t, a, b)
	})

	t.Run("malformed index id", func(t *testing.T) {
		_, err := r.Index("tests", "test", "last--name", storagemodels.Global)
		assert.True(t, errors.IsConfiguration(err))
	})
}

func TestResolverWithoutPrefix(t *testing.T) {
	r, err := NewResolver("")
	require.NoError(t, err)
	assert.Equal(t, "", r.Prefix())

	name, err := r.Table("courses")
	require.NoError(t, err)
	assert.Equal(t, "CoursesDynamoDbTable", name)

	_, err = NewResolver("bad--prefix")
	assert.True(t, errors.IsConfiguration(err))
}

func TestTestResourceName(t *testing.T) {
	assert.Equal(t, "TestCcTestsDynamoDbTable", TestResourceName("CcTestsDynamoDbTable"))
}
