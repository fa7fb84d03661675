package javascript

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/repobom/pkg/manifest"
)

// sections lists the recognized dependency sections in the order they are
// read. Every other top-level key is ignored.
var sections = [4]string{
	"dependencies",
	"devDependencies",
	"peerDependencies",
	"optionalDependencies",
}

// isNull reports whether raw encodes an explicit JSON null.
func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeOrderedPairs decodes a JSON object of name→version strings into
// pairs, preserving document order.
func decodeOrderedPairs(raw json.RawMessage) ([]manifest.Pair, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var pairs []manifest.Pair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		// A null, number, or nested value is not a version string.
		version, ok := valTok.(string)
		if !ok {
			return nil, fmt.Errorf("version of %q is not a string: %v", name, valTok)
		}
		pairs = append(pairs, manifest.Pair{Name: name, Version: version})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}
