package domain

import (
	"cmp"
	"strings"
	"time"
)

// Order sorts records descending by each key in turn. Ties on every key are
// broken by id descending so that pagination over a stable dataset never
// repeats or skips a record.
type Order struct {
	Keys []string
}

func Desc(keys ...string) Order { return Order{Keys: keys} }

// Columns returns the sort keys followed by the id tiebreaker.
func (o Order) Columns() []string {
	cols := make([]string, 0, len(o.Keys)+1)
	for _, k := range o.Keys {
		if k != "id" {
			cols = append(cols, k)
		}
	}
	return append(cols, "id")
}

// Less reports whether a sorts before b.
func (o Order) Less(a, b Record) bool {
	for _, col := range o.Columns() {
		if c := compareValues(a.Field(col), b.Field(col)); c != 0 {
			return c > 0
		}
	}
	return false
}

func (o Order) String() string { return strings.Join(o.Columns(), ",") }

func compareValues(a, b any) int {
	switch av := a.(type) {
	case int64:
		bv, _ := b.(int64)
		return cmp.Compare(av, bv)
	case float64:
		bv, _ := b.(float64)
		return cmp.Compare(av, bv)
	case string:
		bv, _ := b.(string)
		return cmp.Compare(av, bv)
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case av:
			return 1
		default:
			return -1
		}
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	}
	return 0
}
