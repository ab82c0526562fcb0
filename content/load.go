package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrDuplicatePage is returned when two items share a page key.
	ErrDuplicatePage = errors.New("content: duplicate page key")
	// ErrEmptyPage is returned when an item has no page key.
	ErrEmptyPage = errors.New("content: empty page key")
)

// Load reads and validates the content document at path.
func Load(path string) ([]ContentItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse content %s: %w", path, err)
	}
	return items, nil
}

// Parse decodes a content document: a JSON array of items with unique,
// non-empty page keys.
func Parse(data []byte) ([]ContentItem, error) {
	var items []ContentItem
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if err := Validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Validate checks the page-key invariants of a list of items.
func Validate(items []ContentItem) error {
	seen := make(map[string]int, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.Page) == "" {
			return fmt.Errorf("%w at index %d", ErrEmptyPage, i)
		}
		if j, ok := seen[it.Page]; ok {
			return fmt.Errorf("%w %q at index %d and %d", ErrDuplicatePage, it.Page, j, i)
		}
		seen[it.Page] = i
	}
	return nil
}

// Encode writes items as an indented JSON document.
func Encode(w io.Writer, items []ContentItem) error {
	if items == nil {
		items = []ContentItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(items)
}
