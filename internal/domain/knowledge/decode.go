package knowledge

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode reads a knowledge document of the form
//
//	{"<id>": {"keywords": [...], "formula": "...", ...}, ...}
//
// keeping the document's key order. Keys are used verbatim as entry IDs.
func Decode(r io.Reader) (*Base, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read knowledge document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("knowledge document must be a JSON object, got %v", tok)
	}

	var entries []Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read knowledge entry id: %w", err)
		}
		id, _ := keyTok.(string)
		var entry Entry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("decode knowledge entry %q: %w", id, err)
		}
		entry.ID = id
		entries = append(entries, entry)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read knowledge document end: %w", err)
	}
	return NewBase(entries), nil
}
