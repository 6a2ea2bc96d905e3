package schema

import (
	"bytes"
	"errors"
	"path"
	"strings"
)

// Encoding is the serialization of a Document payload.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingYAML    Encoding = "yaml"
	EncodingTOML    Encoding = "toml"
	EncodingUnknown Encoding = ""
)

// Document wraps the raw model payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Encoding guesses the payload serialization from the location extension,
// falling back to sniffing the first significant byte: '{' or '[' means
// JSON, a "[table]" header line means TOML, anything else YAML.
func (d Document) Encoding() Encoding {
	loc := d.Location()
	if idx := strings.IndexAny(loc, "?#"); idx >= 0 && d.source != nil && d.source.Kind() == SourceKindURL {
		loc = loc[:idx]
	}
	switch strings.ToLower(path.Ext(loc)) {
	case ".json":
		return EncodingJSON
	case ".yaml", ".yml":
		return EncodingYAML
	case ".toml":
		return EncodingTOML
	}

	trimmed := bytes.TrimSpace(d.raw)
	if len(trimmed) == 0 {
		return EncodingUnknown
	}
	switch trimmed[0] {
	case '{':
		return EncodingJSON
	case '[':
		line := trimmed
		if idx := bytes.IndexByte(line, '\n'); idx >= 0 {
			line = bytes.TrimSpace(line[:idx])
		}
		if bytes.HasSuffix(line, []byte("]")) && !bytes.ContainsAny(line, ",{\"") {
			return EncodingTOML
		}
		return EncodingJSON
	}
	return EncodingYAML
}
