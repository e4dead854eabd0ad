package domain

import (
	"fmt"
	"strings"
	"time"
)

// Op is the comparison a Predicate applies.
type Op int

const (
	// OpContains matches when any of Fields contains Value, ignoring case.
	OpContains Op = iota + 1
	// OpEquals compares a single field; strings compare case-insensitively.
	OpEquals
	// OpNotEquals is the negation of OpEquals.
	OpNotEquals
	// OpHasTag matches when the list field holds Value, ignoring case.
	OpHasTag
)

func (o Op) String() string {
	switch o {
	case OpContains:
		return "contains"
	case OpEquals:
		return "eq"
	case OpNotEquals:
		return "ne"
	case OpHasTag:
		return "has"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Predicate is one storage-agnostic constraint. A FilterSpec ANDs them.
type Predicate struct {
	Op     Op
	Fields []string
	Value  any
}

func Contains(value string, fields ...string) Predicate {
	return Predicate{Op: OpContains, Fields: fields, Value: value}
}

func Equals(field string, value any) Predicate {
	return Predicate{Op: OpEquals, Fields: []string{field}, Value: value}
}

func NotEquals(field string, value any) Predicate {
	return Predicate{Op: OpNotEquals, Fields: []string{field}, Value: value}
}

func HasTag(field, tag string) Predicate {
	return Predicate{Op: OpHasTag, Fields: []string{field}, Value: tag}
}

// Match evaluates the predicate against an in-memory record.
func (p Predicate) Match(r Record) bool {
	switch p.Op {
	case OpContains:
		needle := strings.ToLower(fmt.Sprint(p.Value))
		for _, f := range p.Fields {
			if s, ok := r.Field(f).(string); ok && strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
		return false
	case OpEquals:
		return len(p.Fields) == 1 && equalValues(r.Field(p.Fields[0]), p.Value)
	case OpNotEquals:
		return len(p.Fields) == 1 && !equalValues(r.Field(p.Fields[0]), p.Value)
	case OpHasTag:
		want, _ := p.Value.(string)
		for _, f := range p.Fields {
			list, _ := r.Field(f).([]string)
			for _, v := range list {
				if strings.EqualFold(v, want) {
					return true
				}
			}
		}
		return false
	}
	return false
}

func equalValues(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && strings.EqualFold(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s(%s)=%v", p.Op, strings.Join(p.Fields, "|"), p.Value)
}
