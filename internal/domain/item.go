package domain

import (
	"strings"
	"time"
)

// Record is the read side every catalog entry exposes to filters and sorts.
// Field names are the storage column names (snake_case).
type Record interface {
	GetID() int64
	GetSlug() string
	Field(name string) any
}

// Item is implemented by the value types of the four collections.
// Normalize trims user input and fills defaults; Stamp returns a copy
// carrying the server assigned identity.
type Item[T any] interface {
	Record
	Normalize() T
	Stamp(id int64, createdAt time.Time) T
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
