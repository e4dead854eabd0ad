package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultLimit  = 20
	MaxLimit      = 100
	RelatedLimit  = 4
	FeaturedLimit = 6
	MaxFeatured   = 24
)

// Page is a bounded window over an ordered result.
type Page struct {
	Limit  int
	Offset int
}

// FilterSpec is the storage-agnostic description of a list query.
type FilterSpec struct {
	Kind       Kind
	Predicates []Predicate
	Sort       string
	Order      Order
	Page       Page
}

// Params are the raw query parameters of a list request, one value per key.
type Params map[string]string

// ParamsFrom keeps the first value of every query parameter.
func ParamsFrom(v url.Values) Params {
	p := make(Params, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			p[k] = vals[0]
		}
	}
	return p
}

func (p Params) get(key string) string { return strings.TrimSpace(p[key]) }

// BuildFilter turns raw parameters into a FilterSpec. Unknown parameters are
// ignored. Empty values and the "all" sentinel impose no constraint.
func BuildFilter(c *Collection, p Params) (FilterSpec, error) {
	page, err := ParsePage(p)
	if err != nil {
		return FilterSpec{}, err
	}

	spec := FilterSpec{Kind: c.Kind, Page: page}
	spec.Sort, spec.Order = c.ResolveSort(p.get("sort"))

	if q := p.get("search"); q != "" && len(c.Search) > 0 {
		spec.Predicates = append(spec.Predicates, Contains(q, c.Search...))
	}

	for _, e := range c.Enums {
		raw := p.get(e.Param)
		if raw == "" || isAll(raw) {
			continue
		}
		value := raw
		if e.Allowed != nil {
			canon, ok := canonical(e.Allowed, raw)
			if !ok {
				return FilterSpec{}, &InvalidParameterError{
					Field:  e.Param,
					Value:  raw,
					Reason: "must be one of " + strings.Join(e.Allowed, ", "),
				}
			}
			value = canon
		}
		spec.Predicates = append(spec.Predicates, Equals(e.Field, value))
	}

	for _, f := range c.Flags {
		v, apply, err := f.Parse(p.get(f.Param))
		if err != nil {
			return FilterSpec{}, err
		}
		if apply {
			spec.Predicates = append(spec.Predicates, Equals(f.Field, v))
		}
	}

	if c.TagParam != "" {
		if tag := p.get(c.TagParam); tag != "" && !isAll(tag) {
			spec.Predicates = append(spec.Predicates, HasTag(c.TagField, tag))
		}
	}

	return spec, nil
}

// ParsePage reads limit and offset. A missing limit defaults to
// DefaultLimit; values above MaxLimit are clamped.
func ParsePage(p Params) (Page, error) {
	page := Page{Limit: DefaultLimit}

	if raw := p.get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Page{}, &InvalidParameterError{Field: "limit", Value: raw, Reason: "must be a positive integer"}
		}
		page.Limit = min(n, MaxLimit)
	}

	if raw := p.get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Page{}, &InvalidParameterError{Field: "offset", Value: raw, Reason: "must be a non-negative integer"}
		}
		page.Offset = n
	}

	return page, nil
}

// ParseFeaturedLimit reads the limit of a featured request.
func ParseFeaturedLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FeaturedLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &InvalidParameterError{Field: "limit", Value: raw, Reason: "must be a positive integer"}
	}
	return min(n, MaxFeatured), nil
}

type cacheKeyPredicate struct {
	Op     Op       `json:"op"`
	Fields []string `json:"fields"`
	Value  any      `json:"value"`
}

// CacheKey renders the spec canonically: two specs that select the same page
// produce the same key. Values are JSON encoded, so no user input can spell
// out a different predicate set.
func (f FilterSpec) CacheKey() string {
	preds := make([]cacheKeyPredicate, 0, len(f.Predicates))
	for _, p := range f.Predicates {
		v := p.Value
		if s, ok := v.(string); ok {
			v = strings.ToLower(s)
		}
		preds = append(preds, cacheKeyPredicate{Op: p.Op, Fields: p.Fields, Value: v})
	}

	encoded := make([]string, 0, len(preds))
	for _, p := range preds {
		b, _ := json.Marshal(p)
		encoded = append(encoded, string(b))
	}
	sort.Strings(encoded)

	b, _ := json.Marshal(struct {
		Predicates []string `json:"p"`
		Order      string   `json:"o"`
		Limit      int      `json:"l"`
		Offset     int      `json:"s"`
	}{encoded, f.Order.String(), f.Page.Limit, f.Page.Offset})
	sum := sha256.Sum256(b)
	return string(f.Kind) + ":" + hex.EncodeToString(sum[:])
}
