package domain

import "encoding/json"

// Document renders an entity as a generic JSON object, the shape pushed to
// live clients.
func Document(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc
}
