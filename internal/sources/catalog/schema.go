package catalog

// CatalogConfig is the YAML catalog file: a list of category groups, each a
// list of subtypes keyed by slug.
//
//	- rental:
//	    - car:
//	        label: Car
//	    - scooter:
//	        label: Scooter
//	- activity:
//	    - trek:
//	        label: Trekking
type CatalogConfig []map[string][]map[string]TypeProps

// TypeProps are the per-subtype settings.
type TypeProps struct {
	Label    string `yaml:"label"`
	Disabled bool   `yaml:"disabled"`
}
