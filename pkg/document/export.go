package document

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

// WriteJSON encodes d to w, indented when pretty is set.
func WriteJSON(d *Document, w io.Writer, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes d to the file at path, replacing it.
func ExportJSON(d *Document, path string, pretty bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(d, f, pretty); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
