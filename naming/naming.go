/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package naming

import (
	"strings"
	"unicode"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

// Resource suffixes. These must mirror the provisioning stack.
const (
	SuffixTable = "DynamoDbTable"
	SuffixLSI   = "DynamoDbLSI"
	SuffixGSI   = "DynamoDbGSI"
)

const component = "naming"

// ToName converts a dash-delimited symbolic id into concatenated capitalised
// segments, e.g. "last-name" -> "LastName". Only the first rune of each
// segment is changed.
func ToName(id string) (string, error) {
	if id == "" {
		return "", errors.NewConfigurationError(component, "empty id")
	}
	var b strings.Builder
	b.Grow(len(id))
	for _, segment := range strings.Split(id, "-") {
		if segment == "" {
			return "", errors.NewConfigurationError(component, "id %q has an empty segment", id)
		}
		for i, r := range segment {
			if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
				return "", errors.NewConfigurationError(component, "id %q contains invalid character %q", id, r)
			}
			if i == 0 {
				r = unicode.ToUpper(r)
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Resolver derives physical resource names. The zero value has no prefix.
type Resolver struct {
	prefix string
}

// NewResolver prepares the prefix once. An empty prefix is allowed.
func NewResolver(prefix string) (Resolver, error) {
	if prefix == "" {
		return Resolver{}, nil
	}
	p, err := ToName(prefix)
	if err != nil {
		return Resolver{}, err
	}
	return Resolver{prefix: p}, nil
}

// Prefix returns the prepared prefix.
func (r Resolver) Prefix() string { return r.prefix }

// PhysicalName joins the prefix, every converted segment and the suffix.
func (r Resolver) PhysicalName(suffix string, ids ...string) (string, error) {
	if len(ids) == 0 {
		return "", errors.NewConfigurationError(component, "no ids for %s", suffix)
	}
	var b strings.Builder
	b.WriteString(r.prefix)
	for _, id := range ids {
		n, err := ToName(id)
		if err != nil {
			return "", err
		}
		b.WriteString(n)
	}
	b.WriteString(suffix)
	return b.String(), nil
}

// Table returns {Prefix}{Table}DynamoDbTable.
func (r Resolver) Table(tableID string) (string, error) {
	return r.PhysicalName(SuffixTable, tableID)
}

// Entity returns the converted entity name used in attribute keys and the discriminator.
func (r Resolver) Entity(entityID string) (string, error) {
	return ToName(entityID)
}

// Index returns {Prefix}{Table}{Entity}{Index}{DynamoDbLSI|DynamoDbGSI}.
func (r Resolver) Index(tableID, entityID, indexID string, kind storagemodels.IndexKind) (string, error) {
	suffix := SuffixLSI
	if kind == storagemodels.Global {
		suffix = SuffixGSI
	}
	return r.PhysicalName(suffix, tableID, entityID, indexID)
}

// TestResourceName prefixes a resource name for the test stack.
func TestResourceName(name string) string {
	return "Test" + name
}
