/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sourceid

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

func newMemberCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("Member", "CRM", "AUTH")
	require.NoError(t, err)
	return c
}

func TestEncode(t *testing.T) {
	c := newMemberCodec(t)

	rec, err := c.Encode([]ExternalID{{ID: "123", Source: "CRM"}})
	require.NoError(t, err)
	assert.Equal(t, storagemodels.Record{"Member_SourceIdCRM": "CRM#123"}, rec)

	rec, err = c.Encode([]ExternalID{
		{ID: "a1", Source: "AUTH"},
		{ID: "123", Source: "CRM"},
		{ID: "x", Source: "UNKNOWN"},
	})
	require.NoError(t, err)
	assert.Equal(t, storagemodels.Record{
		"Member_SourceIdCRM":  "CRM#123",
		"Member_SourceIdAUTH": "AUTH#a1",
	}, rec)

	rec, err = c.Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, rec)
}

// Encode never writes a value Decode would reject.
func TestEncodeRejectsUndecodableIDs(t *testing.T) {
	c := newMemberCodec(t)

	for name, ids := range map[string][]ExternalID{
		"empty id":            {{ID: "", Source: "CRM"}},
		"empty source":        {{ID: "123", Source: ""}},
		"separator in source": {{ID: "123", Source: "C#RM"}},
		"second entry":        {{ID: "1", Source: "AUTH"}, {ID: "", Source: "CRM"}},
	} {
		t.Run(name, func(t *testing.T) {
			rec, err := c.Encode(ids)
			require.Error(t, err)
			assert.Nil(t, rec)
			assert.True(t, errors.IsValidationError(err), "got %v", err)

			_, err = c.EncodeSortKeys(ids, "")
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}

	_, err := c.Encode([]ExternalID{{ID: "", Source: "CRM"}})
	var ve *errors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "externalIds[0].ID", ve.Field)
}

func TestEncodeSortKeys(t *testing.T) {
	c := newMemberCodec(t)
	ids := []ExternalID{{ID: "123", Source: "CRM"}}

	rec, err := c.EncodeSortKeys(ids, "")
	require.NoError(t, err)
	assert.Equal(t, storagemodels.Record{"Sk_Member_SourceIdCRM": "CRM#123"}, rec)

	rec, err = c.EncodeSortKeys(ids, "m-1")
	require.NoError(t, err)
	assert.Equal(t, storagemodels.Record{
		"Sk_Member_SourceIdCRM":  "m-1",
		"Sk_Member_SourceIdAUTH": "m-1",
	}, rec)
}

func TestDecode(t *testing.T) {
	c := newMemberCodec(t)

	ids, err := c.Decode(storagemodels.Record{
		"partitionKey":       "m-1",
		"Member_SourceIdCRM": "CRM#123",
	})
	require.NoError(t, err)
	assert.Equal(t, []ExternalID{{ID: "123", Source: "CRM"}}, ids)

	t.Run("configured order", func(t *testing.T) {
		ids, err := c.Decode(storagemodels.Record{
			"Member_SourceIdAUTH": "AUTH#a1",
			"Member_SourceIdCRM":  "CRM#123",
		})
		require.NoError(t, err)
		assert.Equal(t, []ExternalID{{ID: "123", Source: "CRM"}, {ID: "a1", Source: "AUTH"}}, ids)
	})

	t.Run("ids may contain the separator", func(t *testing.T) {
		ids, err := c.Decode(storagemodels.Record{"Member_SourceIdCRM": "CRM#a#b"})
		require.NoError(t, err)
		assert.Equal(t, []ExternalID{{ID: "a#b", Source: "CRM"}}, ids)
	})

	t.Run("non-string attributes are ignored", func(t *testing.T) {
		ids, err := c.Decode(storagemodels.Record{"Member_SourceIdCRM": 123})
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestDecodeMalformed(t *testing.T) {
	c := newMemberCodec(t)

	for name, value := range map[string]string{
		"missing separator": "CRM123",
		"unknown source":    "SALESFORCE#123",
		"other source":      "AUTH#123",
		"empty id":          "CRM#",
		"empty source":      "#123",
		"empty":             "",
	} {
		t.Run(name, func(t *testing.T) {
			ids, err := c.Decode(storagemodels.Record{
				"partitionKey":        "m-1",
				"Member_SourceIdAUTH": "AUTH#ok",
				"Member_SourceIdCRM":  value,
			})
			require.Error(t, err)
			assert.Nil(t, ids, "no partial list")
			assert.True(t, errors.IsDataIntegrity(err))

			var die *errors.DataIntegrityError
			require.ErrorAs(t, err, &die)
			assert.Equal(t, "Member_SourceIdCRM", die.Attribute)
			assert.Equal(t, "m-1", die.Key)
			assert.Equal(t, "Member.Member_SourceIdCRM with id m-1 contains invalid data", err.Error())
		})
	}
}

// decode(encode(S)) set-equals S for every subset of the configured sources.
func TestRoundTrip(t *testing.T) {
	sources := []string{"COURSE", "CRM", "AUTH", "TRIBE", "ED_APP"}
	c, err := NewCodec("Member", sources...)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for mask := 0; mask < 1<<len(sources); mask++ {
		var ids []ExternalID
		for i, s := range sources {
			if mask&(1<<i) != 0 {
				ids = append(ids, ExternalID{ID: fmt.Sprintf("id-%d#%d", rng.Intn(1000), i), Source: s})
			}
		}
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

		rec, err := c.Encode(ids)
		require.NoError(t, err)
		assert.Len(t, rec, len(ids), "no attribute for an absent source")

		rec[storagemodels.AttrPartitionKey] = "m-1"
		decoded, err := c.Decode(rec)
		require.NoError(t, err)
		assert.ElementsMatch(t, ids, decoded)
	}
}

func TestNewCodecRejects(t *testing.T) {
	for name, tt := range map[string]struct {
		entity  string
		sources []string
	}{
		"no entity":        {"", []string{"CRM"}},
		"no sources":       {"Member", nil},
		"empty source":     {"Member", []string{"CRM", ""}},
		"separator":        {"Member", []string{"C#RM"}},
		"duplicate source": {"Member", []string{"CRM", "CRM"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewCodec(tt.entity, tt.sources...)
			assert.True(t, errors.IsConfiguration(err))
		})
	}
}

func TestFindAndConfirm(t *testing.T) {
	ids := []ExternalID{{ID: "1", Source: "CRM"}}
	e, ok := Find(ids, "CRM")
	assert.True(t, ok)
	assert.Equal(t, "CRM#1", e.String())
	assert.True(t, Confirm(ids, "CRM"))
	assert.False(t, Confirm(ids, "AUTH"))
}
