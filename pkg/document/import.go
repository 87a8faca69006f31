package document

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
)

// ReadJSON decodes a document from r and validates it.
//
// Missing visualization settings take their defaults. ReadJSON returns an
// INVALID_INPUT error for malformed JSON and the errors of [Document.Validate]
// for structurally invalid documents. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode document")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ImportJSON reads and validates the document at path. "-" reads stdin.
func ImportJSON(path string) (*Document, error) {
	if path == "-" {
		return ReadJSON(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
