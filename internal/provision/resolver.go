package provision

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"github.com/smallbiznis/meterseed/internal/config"
)

// ResolveAggregations builds the category-key to aggregation-id mapping the
// pricing elements are resolved through. Each configured category keyword must
// match at most one aggregation name; two matches make the reference
// ambiguous and fail the stage. An aggregation matched without an assigned id
// is a missing dependency.
//
// The result is deterministic for a given aggregation list and category list.
func ResolveAggregations(aggs []catalog.Aggregation, categories []config.Category) (map[string]string, error) {
	byKey := make(map[string]string, len(categories))
	for _, c := range categories {
		matched := ""
		for _, a := range aggs {
			if !strings.Contains(a.Name, c.Keyword) {
				continue
			}
			if matched != "" {
				return nil, fmt.Errorf("category %q: keyword %q matches both %q and %q", c.Key, c.Keyword, matched, a.Name)
			}
			if a.ID == "" {
				return nil, &MissingDependencyError{Entity: "Aggregation", Field: "id"}
			}
			matched = a.Name
			byKey[c.Key] = a.ID
		}
	}
	return byKey, nil
}
