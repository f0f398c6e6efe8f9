/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/suparena/tablestore/errors"
)

// Fixed placeholders shared with the key condition.
const (
	EntityTypeAttribute = "entityType"

	PlaceholderEntity    = ":ent"
	PlaceholderPartition = ":pk"
	PlaceholderSort      = ":sk"
)

// reserved letter sequences never handed out to filter fields
var reserved = map[string]bool{"ent": true, "pk": true, "sk": true}

// Expression is a compiled condition and the values it references.
type Expression struct {
	Expression string
	Bindings   map[string]any
}

// Merge returns the union of both binding maps. Placeholders never collide
// between a key condition and a filter built here.
func Merge(exprs ...Expression) map[string]any {
	out := make(map[string]any)
	for _, e := range exprs {
		maps.Copy(out, e.Bindings)
	}
	return out
}

// Build compiles filters into a filter expression seeded with the entity clause.
// Fields are processed in sorted order so the output is deterministic.
func Build(entityName string, filters map[string]Constraint) (Expression, error) {
	if entityName == "" {
		return Expression{}, errors.NewConfigurationError(component, "cannot build filter without an entity name")
	}

	clauses := []string{fmt.Sprintf("%s = %s", EntityTypeAttribute, PlaceholderEntity)}
	bindings := map[string]any{PlaceholderEntity: entityName}

	fields := slices.Sorted(maps.Keys(filters))
	letters := newLetterSeq()
	for _, field := range fields {
		if field == "" {
			return Expression{}, errors.NewConfigurationError(component, "cannot build filter for an empty field name")
		}
		if field == EntityTypeAttribute {
			return Expression{}, errors.NewConfigurationError(component, "cannot build filter: %s is reserved", field)
		}
		clause, err := compile(field, ":"+letters.next(), filters[field], bindings)
		if err != nil {
			return Expression{}, err
		}
		clauses = append(clauses, clause)
	}

	return Expression{
		Expression: strings.Join(clauses, " AND "),
		Bindings:   bindings,
	}, nil
}

// KeyCondition compiles a partition equality plus an optional sort constraint.
// The not-equal operator is not a valid key operator and is rejected.
func KeyCondition(partitionAttr string, partitionValue any, sortAttr string, sort Constraint) (Expression, error) {
	if partitionAttr == "" {
		return Expression{}, errors.NewConfigurationError(component, "key condition needs a partition attribute")
	}
	pv, err := Scalar(partitionValue)
	if err != nil {
		return Expression{}, err
	}

	expr := fmt.Sprintf("%s = %s", partitionAttr, PlaceholderPartition)
	bindings := map[string]any{PlaceholderPartition: pv}
	if sort == nil {
		return Expression{Expression: expr, Bindings: bindings}, nil
	}

	if sortAttr == "" {
		return Expression{}, errors.NewConfigurationError(component, "sort constraint given for an index without a sort key")
	}
	if c, ok := sort.(Comparison); ok && c.Op == Ne {
		return Expression{}, errors.NewConfigurationError(component, "operator %q is not allowed on sort key %s", c.Op, sortAttr)
	}
	clause, err := compile(sortAttr, PlaceholderSort, sort, bindings)
	if err != nil {
		return Expression{}, err
	}
	return Expression{Expression: expr + " AND " + clause, Bindings: bindings}, nil
}

// compile writes the bindings for one constraint and returns its clause.
func compile(field, placeholder string, c Constraint, bindings map[string]any) (string, error) {
	if err := check(field, c); err != nil {
		return "", err
	}

	switch x := c.(type) {
	case Equality:
		bindings[placeholder], _ = Scalar(x.Value)
		return fmt.Sprintf("%s = %s", field, placeholder), nil
	case Range:
		start, end := placeholder+"Start", placeholder+"End"
		bindings[start], _ = Scalar(x.Start)
		bindings[end], _ = Scalar(x.End)
		return fmt.Sprintf("%s BETWEEN %s AND %s", field, start, end), nil
	case Prefix:
		bindings[placeholder] = x.Value
		return fmt.Sprintf("begins_with(%s, %s)", field, placeholder), nil
	case Comparison:
		bindings[placeholder], _ = Scalar(x.Value)
		return fmt.Sprintf("%s %s %s", field, x.Op, placeholder), nil
	}
	// unreachable once check has passed
	return "", errors.NewConfigurationError(component, "cannot build filter for %s", field)
}

// letterSeq yields a, b, ... z, aa, ab, ... skipping reserved sequences.
type letterSeq struct {
	n int
}

func newLetterSeq() *letterSeq { return &letterSeq{} }

func (s *letterSeq) next() string {
	for {
		l := letters(s.n)
		s.n++
		if !reserved[l] {
			return l
		}
	}
}

func letters(n int) string {
	var b []byte
	for {
		b = append([]byte{byte('a' + n%26)}, b...)
		n = n/26 - 1
		if n < 0 {
			return string(b)
		}
	}
}
