package domain

import (
	"strconv"
	"strings"
)

// EnumFilter maps a query parameter onto an equality constraint.
// A nil Allowed list accepts any value.
type EnumFilter struct {
	Param   string
	Field   string
	Allowed []string
}

// FlagFilter maps a query parameter onto a boolean constraint. Parse returns
// apply=false when the parameter should not constrain the result.
type FlagFilter struct {
	Param string
	Field string
	Parse func(raw string) (value bool, apply bool, err error)
}

// Collection describes how one kind is searched, filtered and sorted.
type Collection struct {
	Kind Kind

	// Search lists the text fields the free-text search looks at.
	Search []string

	Enums []EnumFilter
	Flags []FlagFilter

	// TagParam, when set, filters on membership in TagField.
	TagParam string
	TagField string

	Sorts       map[string]Order
	DefaultSort string

	// RelatedBy is the sameness key used by related-item lookups.
	RelatedBy string
	// Popularity orders related items.
	Popularity Order

	// Featured is the curated subset shown on the landing page.
	Featured FeaturedRule
}

// FeaturedRule selects and orders the featured subset of a collection.
type FeaturedRule struct {
	Where []Predicate
	Order Order
}

func parsePricing(raw string) (bool, bool, error) {
	switch strings.ToLower(raw) {
	case "", "all":
		return false, false, nil
	case "free":
		return false, true, nil
	case "paid":
		return true, true, nil
	}
	return false, false, &InvalidParameterError{Field: "pricing", Value: raw, Reason: "must be one of free, paid, all"}
}

func parseHideArchived(raw string) (bool, bool, error) {
	if raw == "" {
		return false, false, nil
	}
	hide, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, &InvalidParameterError{Field: "hideArchived", Value: raw, Reason: "must be a boolean"}
	}
	// hideArchived=true keeps only live repos; false imposes nothing.
	return false, hide, nil
}

var (
	Apps = &Collection{
		Kind:   KindApps,
		Search: []string{"name", "description", "developer"},
		Enums: []EnumFilter{
			{Param: "category", Field: "category", Allowed: AppCategories},
			{Param: "platform", Field: "platform", Allowed: AppPlatforms},
		},
		Flags:    []FlagFilter{{Param: "pricing", Field: "is_paid", Parse: parsePricing}},
		TagParam: "tag",
		TagField: "tags",
		Sorts: map[string]Order{
			"newest":        Desc("created_at"),
			"popular":       Desc("reviews_count"),
			"highest-rated": Desc("rating"),
		},
		DefaultSort: "newest",
		RelatedBy:   "category",
		Popularity:  Desc("rating", "reviews_count"),
		Featured:    FeaturedRule{Order: Desc("rating", "reviews_count")},
	}

	Workflows = &Collection{
		Kind:   KindWorkflows,
		Search: []string{"name", "description", "author"},
		Enums: []EnumFilter{
			{Param: "category", Field: "category", Allowed: WorkflowCategories},
			{Param: "difficulty", Field: "difficulty", Allowed: Difficulties},
		},
		Sorts: map[string]Order{
			"newest":        Desc("created_at"),
			"popular":       Desc("downloads_count"),
			"highest-rated": Desc("rating"),
		},
		DefaultSort: "newest",
		RelatedBy:   "category",
		Popularity:  Desc("rating", "downloads_count"),
		Featured:    FeaturedRule{Order: Desc("rating", "downloads_count")},
	}

	Repos = &Collection{
		Kind:   KindRepos,
		Search: []string{"name", "description", "author"},
		Enums: []EnumFilter{
			{Param: "language", Field: "language"},
		},
		Flags: []FlagFilter{{Param: "hideArchived", Field: "is_archived", Parse: parseHideArchived}},
		Sorts: map[string]Order{
			"stars":   Desc("stars"),
			"updated": Desc("last_updated"),
			"newest":  Desc("created_at"),
			"forks":   Desc("forks"),
		},
		DefaultSort: "newest",
		RelatedBy:   "language",
		Popularity:  Desc("stars", "forks"),
		Featured: FeaturedRule{
			Where: []Predicate{Equals("is_archived", false)},
			Order: Desc("stars", "forks"),
		},
	}

	MCPs = &Collection{
		Kind:   KindMCPs,
		Search: []string{"name", "description", "provider"},
		Enums: []EnumFilter{
			{Param: "category", Field: "category", Allowed: MCPCategories},
			{Param: "platform", Field: "platform", Allowed: MCPPlatforms},
		},
		Sorts: map[string]Order{
			"installs":      Desc("installs_count"),
			"newest":        Desc("created_at"),
			"highest-rated": Desc("rating"),
		},
		DefaultSort: "newest",
		RelatedBy:   "category",
		Popularity:  Desc("installs_count", "rating"),
		Featured:    FeaturedRule{Order: Desc("installs_count", "rating")},
	}
)

// CollectionFor returns the descriptor of a kind.
func CollectionFor(k Kind) (*Collection, bool) {
	switch k {
	case KindApps:
		return Apps, true
	case KindWorkflows:
		return Workflows, true
	case KindRepos:
		return Repos, true
	case KindMCPs:
		return MCPs, true
	}
	return nil, false
}

// ResolveSort maps a sort key onto an order. Unknown or empty keys fall
// back to the collection default.
func (c *Collection) ResolveSort(key string) (string, Order) {
	key = strings.ToLower(strings.TrimSpace(key))
	if o, ok := c.Sorts[key]; ok {
		return key, o
	}
	return c.DefaultSort, c.Sorts[c.DefaultSort]
}

// CheckVocabulary rejects a record whose enumerated fields hold values
// outside the collection vocabulary.
func (c *Collection) CheckVocabulary(r Record) error {
	for _, e := range c.Enums {
		if e.Allowed == nil {
			continue
		}
		v, _ := r.Field(e.Field).(string)
		if _, ok := canonical(e.Allowed, v); !ok {
			return &InvalidParameterError{Field: e.Param, Value: v, Reason: "must be one of " + strings.Join(e.Allowed, ", ")}
		}
	}
	return nil
}
