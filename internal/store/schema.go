package store

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/listenupapp/librarian/internal/domain"
)

// CatalogSchema returns the JSON Schema of the catalog file.
func CatalogSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		// Older files may lack any key, including id.
		RequiredFromJSONSchemaTags: true,
	}
	item := r.Reflect(&domain.Book{})
	item.Version = ""

	schema := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Librarian catalog",
		Description: "Array of book records as written by librarian.",
		Type:        "array",
		Items:       item,
	}
	return json.MarshalIndent(schema, "", "  ")
}
