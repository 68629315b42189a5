package catalog

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
)

// Mapper turns a CatalogConfig into a Catalog.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

// MapTypes flattens the config, keeping file order. Groups must be a known
// category; disabled and duplicate subtypes are skipped.
func (m *Mapper) MapTypes(config CatalogConfig) (*Catalog, error) {
	var types []ServiceType
	seen := make(map[string]bool)

	for _, groupMap := range config {
		for groupName, subtypes := range groupMap {
			category := domain.CategoryOf(groupName)
			if category == domain.CategoryUnknown || strings.Contains(groupName, "/") {
				return nil, fmt.Errorf("catalog group %q is not a rental or activity category", groupName)
			}

			for _, subtypeMap := range subtypes {
				for slug, props := range subtypeMap {
					slug = strings.ToLower(strings.TrimSpace(slug))
					if slug == "" || props.Disabled {
						continue
					}
					value := string(category) + "/" + slug
					if seen[value] {
						continue
					}
					seen[value] = true

					label := strings.TrimSpace(props.Label)
					if label == "" {
						label = titleCase(slug)
					}
					types = append(types, ServiceType{
						Value:    value,
						Category: category,
						Slug:     slug,
						Label:    label,
					})
				}
			}
		}
	}

	if len(types) == 0 {
		return nil, fmt.Errorf("no service types found in catalog")
	}
	return New(types), nil
}

// titleCase turns "jet-ski" into "Jet ski".
func titleCase(slug string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
