package flow

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON dumps the paginated document as indented JSON for
// inspection and visualisation.
func WriteDebugJSON(doc *Document, path string) error {
	if doc == nil {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
