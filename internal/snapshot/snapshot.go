// Package snapshot writes a walked tree to its JSON document form.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"mediacat/internal/catalog"
)

// Write renders tree and writes it to dest as a single UTF-8 JSON
// document, truncating any existing file. There is no atomic-rename
// guarantee.
func Write(tree *catalog.Tree, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", dest, err)
	}

	if err := json.NewEncoder(f).Encode(tree.Document()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode snapshot to %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", dest, err)
	}
	return nil
}
