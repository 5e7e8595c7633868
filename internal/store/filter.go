// internal/store/filter.go
package store

import (
	"fmt"
	"reflect"
	"regexp"
)

type Op int

const (
	OpEq Op = iota
	OpNe
	OpRegex
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpExists
	OpOr
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpNe:
		return "ne"
	case OpRegex:
		return "regex"
	case OpGt:
		return "gt"
	case OpGte:
		return "gte"
	case OpLt:
		return "lt"
	case OpLte:
		return "lte"
	case OpIn:
		return "in"
	case OpExists:
		return "exists"
	case OpOr:
		return "or"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Predicate is one condition on one field. Build them with Eq, Regex, Gte...
type Predicate struct {
	Field string
	Op    Op
	Value interface{}

	// Regex only
	Pattern         string
	CaseInsensitive bool
	re              *regexp.Regexp

	// Or only
	Any []Predicate
}

// Filter is a conjunction of predicates. A nil Filter matches everything.
type Filter []Predicate

func Where(preds ...Predicate) Filter {
	return Filter(preds)
}

// And returns a new filter holding f's predicates followed by preds.
func (f Filter) And(preds ...Predicate) Filter {
	out := make(Filter, 0, len(f)+len(preds))
	out = append(out, f...)
	return append(out, preds...)
}

func Eq(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: value}
}

func Ne(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpNe, Value: value}
}

func Gt(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpGt, Value: value}
}

func Gte(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpGte, Value: value}
}

func Lt(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpLt, Value: value}
}

func Lte(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpLte, Value: value}
}

func In(field string, values ...interface{}) Predicate {
	return Predicate{Field: field, Op: OpIn, Value: values}
}

func Exists(field string, exists bool) Predicate {
	return Predicate{Field: field, Op: OpExists, Value: exists}
}

// Regex matches string fields (or any element of a string array).
// An invalid pattern never matches.
func Regex(field, pattern string, caseInsensitive bool) Predicate {
	p := Predicate{Field: field, Op: OpRegex, Pattern: pattern, CaseInsensitive: caseInsensitive}
	expr := pattern
	if caseInsensitive {
		expr = "(?i)" + pattern
	}
	p.re, _ = regexp.Compile(expr)
	return p
}

// Or matches when at least one of preds does. Field is unused.
func Or(preds ...Predicate) Predicate {
	return Predicate{Op: OpOr, Any: preds}
}

// Contains matches documents where any of fields holds term as a literal,
// case-insensitive substring.
func Contains(term string, fields ...string) Predicate {
	alts := make([]Predicate, 0, len(fields))
	quoted := regexp.QuoteMeta(term)
	for _, field := range fields {
		alts = append(alts, Regex(field, quoted, true))
	}
	return Or(alts...)
}

// Match reports whether doc satisfies every predicate.
func (f Filter) Match(doc Document) bool {
	for _, p := range f {
		if !p.Match(doc) {
			return false
		}
	}
	return true
}

func (p Predicate) Match(doc Document) bool {
	if p.Op == OpOr {
		for _, alt := range p.Any {
			if alt.Match(doc) {
				return true
			}
		}
		return false
	}

	value, found := doc.Lookup(p.Field)

	switch p.Op {
	case OpEq:
		if p.Value == nil {
			return !found || value == nil
		}
		return found && equalValues(value, p.Value)
	case OpNe:
		if p.Value == nil {
			return found && value != nil
		}
		return !found || !equalValues(value, p.Value)
	case OpExists:
		want, _ := p.Value.(bool)
		return found == want
	case OpIn:
		if !found {
			return false
		}
		for _, candidate := range toSlice(p.Value) {
			if equalValues(value, candidate) {
				return true
			}
		}
		return false
	case OpRegex:
		if !found || p.re == nil {
			return false
		}
		return regexMatches(p.re, value)
	case OpGt, OpGte, OpLt, OpLte:
		if !found {
			return false
		}
		cmp, ok := compareValues(value, p.Value)
		if !ok {
			return false
		}
		switch p.Op {
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		case OpLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	}
	return false
}

func regexMatches(re *regexp.Regexp, value interface{}) bool {
	switch v := value.(type) {
	case string:
		return re.MatchString(v)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && re.MatchString(s) {
				return true
			}
		}
	case []string:
		for _, s := range v {
			if re.MatchString(s) {
				return true
			}
		}
	}
	return false
}

func toSlice(v interface{}) []interface{} {
	if s, ok := v.([]interface{}); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []interface{}{v}
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// toNumber normalizes every Go numeric kind to float64.
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func equalValues(a, b interface{}) bool {
	if an, ok := toNumber(a); ok {
		bn, ok := toNumber(b)
		return ok && an == bn
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ab == bb
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders numbers numerically and strings lexically.
// RFC 3339 timestamps in UTC compare correctly as strings.
func compareValues(a, b interface{}) (int, bool) {
	if an, ok := toNumber(a); ok {
		bn, ok := toNumber(b)
		if !ok {
			return 0, false
		}
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		}
		return 0, true
	}
	as, ok := a.(string)
	if !ok {
		return 0, false
	}
	bs, ok := b.(string)
	if !ok {
		return 0, false
	}
	switch {
	case as < bs:
		return -1, true
	case as > bs:
		return 1, true
	}
	return 0, true
}
