/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filter

import (
	"cmp"
	"strings"
)

// Matches evaluates c against the attribute named field in values, following
// condition-expression semantics: a missing attribute never matches and
// values of different types are never equal or ordered.
func Matches(values map[string]any, field string, c Constraint) (bool, error) {
	if err := check(field, c); err != nil {
		return false, err
	}
	raw, ok := values[field]
	if !ok || raw == nil {
		return false, nil
	}
	actual, err := Scalar(raw)
	if err != nil {
		// maps, lists and sets are not comparable with a scalar constraint
		return false, nil
	}

	switch x := c.(type) {
	case Equality:
		want, _ := Scalar(x.Value)
		return satisfies(actual, Eq, want), nil
	case Range:
		lo, _ := Scalar(x.Start)
		hi, _ := Scalar(x.End)
		return satisfies(actual, Ge, lo) && satisfies(actual, Le, hi), nil
	case Prefix:
		s, ok := actual.(string)
		return ok && strings.HasPrefix(s, x.Value), nil
	case Comparison:
		want, _ := Scalar(x.Value)
		return satisfies(actual, x.Op, want), nil
	}
	return false, nil
}

// MatchesAll reports whether every constraint matches.
func MatchesAll(values map[string]any, filters map[string]Constraint) (bool, error) {
	for field, c := range filters {
		ok, err := Matches(values, field, c)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func satisfies(a any, op Operator, b any) bool {
	var c int
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return false
		}
		c = strings.Compare(av, bv)
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		c = cmp.Compare(av, bv)
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return false
		}
		switch op {
		case Eq:
			return av == bv
		case Ne:
			return av != bv
		}
		return false
	default:
		return false
	}

	switch op {
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}
