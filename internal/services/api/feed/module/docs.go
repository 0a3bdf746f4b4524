package module

import (
	"bazaar/internal/modkit/swaggerkit"
	"bazaar/internal/services/api/feed/domain"
)

// feedDocs keeps the served document in step with the mounted kinds and the configured page size
func feedDocs(maxPageSize int) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		kinds := make([]any, len(domain.Kinds))
		for i, k := range domain.Kinds {
			kinds[i] = k.Slug()
		}

		if paths, ok := spec["paths"].(map[string]any); ok {
			if path, ok := paths["/feeds/{kind}"].(map[string]any); ok {
				for _, opAny := range path {
					op, ok := opAny.(map[string]any)
					if !ok {
						continue
					}
					params, _ := op["parameters"].([]any)
					for _, pAny := range params {
						p, ok := pAny.(map[string]any)
						if !ok || p["name"] != "kind" || p["in"] != "path" {
							continue
						}
						schema, ok := p["schema"].(map[string]any)
						if !ok {
							schema = map[string]any{"type": "string"}
							p["schema"] = schema
						}
						schema["enum"] = kinds
					}
				}
			}
		}

		components, _ := spec["components"].(map[string]any)
		schemas, _ := components["schemas"].(map[string]any)
		req, _ := schemas["FeedRequest"].(map[string]any)
		props, _ := req["properties"].(map[string]any)
		if size, ok := props["page_size"].(map[string]any); ok && maxPageSize > 0 {
			size["maximum"] = maxPageSize
		}
	}
}
