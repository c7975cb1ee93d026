package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// DocumentKind tags the two shapes an indexed-document entry can take on the wire.
type DocumentKind int

const (
	// DocumentName is a bare filename string.
	DocumentName DocumentKind = iota
	// DocumentEntry is a {file, chunks?} record.
	DocumentEntry
)

// IndexedDocument is one entry of the /api/indexed listing.
type IndexedDocument struct {
	Kind   DocumentKind
	File   string
	Chunks *int
}

// NameDocument builds a bare-filename entry.
func NameDocument(name string) IndexedDocument {
	return IndexedDocument{Kind: DocumentName, File: name}
}

// EntryDocument builds a record entry. A negative count means the count is absent.
func EntryDocument(file string, chunks int) IndexedDocument {
	d := IndexedDocument{Kind: DocumentEntry, File: file}
	if chunks >= 0 {
		d.Chunks = &chunks
	}
	return d
}

// Label is the single line shown for the entry in a document list.
func (d IndexedDocument) Label() string {
	if d.Chunks == nil {
		return d.File + " "
	}
	return d.File + " (" + strconv.Itoa(*d.Chunks) + " chunks)"
}

var errBadDocument = errors.New("indexed document must be a non-empty string or an object with a non-empty file field")

// UnmarshalJSON accepts either a JSON string or an object with file and chunks.
// The file name may not be empty.
func (d *IndexedDocument) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return errBadDocument
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name == "" {
			return errBadDocument
		}
		*d = NameDocument(name)
		return nil
	}
	var rec struct {
		File   string `json:"file"`
		Chunks *int   `json:"chunks"`
	}
	if err := json.Unmarshal(data, &rec); err != nil || rec.File == "" {
		return errBadDocument
	}
	*d = IndexedDocument{Kind: DocumentEntry, File: rec.File, Chunks: rec.Chunks}
	return nil
}

// MarshalJSON writes the entry back in the shape it was read from.
func (d IndexedDocument) MarshalJSON() ([]byte, error) {
	if d.Kind == DocumentName {
		return json.Marshal(d.File)
	}
	return json.Marshal(struct {
		File   string `json:"file"`
		Chunks *int   `json:"chunks,omitempty"`
	}{d.File, d.Chunks})
}
