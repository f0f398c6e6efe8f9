/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filter

import (
	"math"
	"reflect"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/tablestore/errors"
)

const component = "filter"

// Constraint is one of Equality, Range, Prefix or Comparison.
type Constraint interface {
	isConstraint()
}

// Equality matches values equal to Value.
type Equality struct {
	Value any
}

// Range matches values between Start and End, inclusive.
type Range struct {
	Start any
	End   any
}

// Prefix matches string values beginning with Value.
type Prefix struct {
	Value string
}

// Comparison matches values satisfying Op against Value.
type Comparison struct {
	Op    Operator
	Value any
}

func (Equality) isConstraint()   {}
func (Range) isConstraint()      {}
func (Prefix) isConstraint()     {}
func (Comparison) isConstraint() {}

// Operator is a comparison operator as written in a condition expression.
type Operator string

const (
	Eq Operator = "="
	Ne Operator = "<>"
	Lt Operator = "<"
	Le Operator = "<="
	Gt Operator = ">"
	Ge Operator = ">="
)

func (o Operator) valid() bool {
	switch o {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	}
	return false
}

// Equals is shorthand for Equality{Value: v}.
func Equals(v any) Constraint { return Equality{Value: v} }

// Between is shorthand for Range{Start: start, End: end}.
func Between(start, end any) Constraint { return Range{Start: start, End: end} }

// BeginsWith is shorthand for Prefix{Value: s}.
func BeginsWith(s string) Constraint { return Prefix{Value: s} }

// Compare is shorthand for Comparison{Op: op, Value: v}.
func Compare(op Operator, v any) Constraint { return Comparison{Op: op, Value: v} }

// Of accepts either a Constraint or a raw scalar, which becomes an Equality.
func Of(v any) (Constraint, error) {
	switch c := v.(type) {
	case nil:
		return nil, errors.NewConfigurationError(component, "cannot build filter from nil value")
	case Constraint:
		return c, nil
	}
	if _, err := Scalar(v); err != nil {
		return nil, err
	}
	return Equality{Value: v}, nil
}

// Scalar normalises a constraint value to string, bool or float64.
// Timestamps become RFC 3339 strings, matching how they are persisted.
func Scalar(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return x, nil
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano), nil
	case strfmt.DateTime:
		return strfmt.DateTime(time.Time(x).UTC()).String(), nil
	case strfmt.Date:
		return x.String(), nil
	}

	// named kinds, such as a Source enum declared as a string
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.NewConfigurationError(component, "cannot build filter from non-finite number %v", f)
		}
		return f, nil
	}
	return nil, errors.NewConfigurationError(component, "cannot build filter from value of type %T", v)
}

// Timestamp reports whether v is a timestamp and returns the string Scalar
// renders for it. Both repositories persist timestamps in this form so that
// constraints built from time values compare against them.
func Timestamp(v any) (string, bool) {
	switch v.(type) {
	case time.Time, strfmt.DateTime, strfmt.Date:
		s, err := Scalar(v)
		if err != nil {
			return "", false
		}
		return s.(string), true
	}
	return "", false
}

// check validates a constraint without compiling it.
func check(field string, c Constraint) error {
	switch x := c.(type) {
	case Equality:
		_, err := Scalar(x.Value)
		return err
	case Range:
		if _, err := Scalar(x.Start); err != nil {
			return err
		}
		_, err := Scalar(x.End)
		return err
	case Prefix:
		return nil
	case Comparison:
		if !x.Op.valid() {
			return errors.NewConfigurationError(component, "cannot build filter for %s: unknown operator %q", field, x.Op)
		}
		_, err := Scalar(x.Value)
		return err
	case nil:
		return errors.NewConfigurationError(component, "cannot build filter for %s: nil constraint", field)
	}
	return errors.NewConfigurationError(component, "cannot build filter for %s: unsupported constraint %T", field, c)
}
