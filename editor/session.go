// Package editor holds the admin editing state: per-login sessions that
// track the original and edited snapshot of every content item, the
// registry that owns them, and the signed token that ties a browser to a
// session.
package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/CLAYYO/VRASeniors/content"
)

var (
	// ErrIndexOutOfRange is returned when an item or PDF index does not exist.
	ErrIndexOutOfRange = errors.New("editor: index out of range")
	// ErrInvalidDocument is returned when an imported document cannot be parsed.
	ErrInvalidDocument = errors.New("editor: invalid content document")
	// ErrImportNotConfirmed is returned when an import was not confirmed by the user.
	ErrImportNotConfirmed = errors.New("editor: import not confirmed")
)

// Edit is the part of an item the edit form can change.
type Edit struct {
	Title   string
	Content string
	PDFs    []content.PDF
}

// Session is one admin's working copy of the content. The original
// snapshots never change after creation; edits only touch current.
type Session struct {
	id      string
	created time.Time

	mu       sync.Mutex
	original [][]byte
	current  [][]byte
}

// NewSession snapshots items into a fresh session.
func NewSession(id string, items []content.ContentItem, created time.Time) (*Session, error) {
	snaps, err := snapshot(items)
	if err != nil {
		return nil, err
	}
	return &Session{
		id:       id,
		created:  created,
		original: snaps,
		current:  copySnapshots(snaps),
	}, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Created returns the time the session was opened.
func (s *Session) Created() time.Time { return s.created }

// Len returns the number of items in the working copy.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.current)
}

// Item returns the current state of item i.
func (s *Session) Item(i int) (content.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.current) {
		return content.ContentItem{}, fmt.Errorf("%w: item %d", ErrIndexOutOfRange, i)
	}
	return decode(s.current[i])
}

// Items returns the current state of every item in order.
func (s *Session) Items() ([]content.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked()
}

func (s *Session) itemsLocked() ([]content.ContentItem, error) {
	out := make([]content.ContentItem, 0, len(s.current))
	for _, raw := range s.current {
		it, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

// Edit applies the edit form to item i. PDFs without a name or a filename
// are dropped.
func (s *Session) Edit(i int, e Edit) error {
	return s.update(i, func(it *content.ContentItem) error {
		it.Title = e.Title
		it.Content = e.Content
		it.PDFs = cleanPDFs(e.PDFs)
		return nil
	})
}

// Replace swaps item i for it wholesale.
func (s *Session) Replace(i int, it content.ContentItem) error {
	return s.update(i, func(cur *content.ContentItem) error {
		*cur = it
		return nil
	})
}

// AddPDF appends a PDF to item i.
func (s *Session) AddPDF(i int, pdf content.PDF) error {
	return s.update(i, func(it *content.ContentItem) error {
		it.PDFs = append(it.PDFs, pdf)
		it.PDFs = cleanPDFs(it.PDFs)
		return nil
	})
}

// RemovePDF removes PDF j from item i.
func (s *Session) RemovePDF(i, j int) error {
	return s.update(i, func(it *content.ContentItem) error {
		if j < 0 || j >= len(it.PDFs) {
			return fmt.Errorf("%w: pdf %d of item %d", ErrIndexOutOfRange, j, i)
		}
		it.PDFs = append(it.PDFs[:j:j], it.PDFs[j+1:]...)
		if len(it.PDFs) == 0 {
			it.PDFs = nil
		}
		return nil
	})
}

func (s *Session) update(i int, fn func(*content.ContentItem) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.current) {
		return fmt.Errorf("%w: item %d", ErrIndexOutOfRange, i)
	}
	it, err := decode(s.current[i])
	if err != nil {
		return err
	}
	if err := fn(&it); err != nil {
		return err
	}
	raw, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("editor: encode item %d: %w", i, err)
	}
	s.current[i] = raw
	return nil
}

// Reset restores item i to its original snapshot.
func (s *Session) Reset(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.current) || i >= len(s.original) {
		return fmt.Errorf("%w: item %d", ErrIndexOutOfRange, i)
	}
	s.current[i] = append([]byte(nil), s.original[i]...)
	return nil
}

// ResetAll restores every item to its original snapshot.
func (s *Session) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = copySnapshots(s.original)
}

// Dirty reports whether item i differs from its original snapshot. Items
// added by an import have no original and are always dirty.
func (s *Session) Dirty(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked(i)
}

func (s *Session) dirtyLocked(i int) bool {
	if i < 0 || i >= len(s.current) {
		return false
	}
	if i >= len(s.original) {
		return true
	}
	return !bytes.Equal(s.original[i], s.current[i])
}

// DirtyCount returns how many items differ from their originals, counting
// items removed by an import.
func (s *Session) DirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.current {
		if s.dirtyLocked(i) {
			n++
		}
	}
	if len(s.original) > len(s.current) {
		n += len(s.original) - len(s.current)
	}
	return n
}

// Export encodes the working copy as a content document.
func (s *Session) Export() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.ExportTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportTo writes the working copy to w as a content document.
func (s *Session) ExportTo(w io.Writer) error {
	s.mu.Lock()
	items, err := s.itemsLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := content.Encode(w, items); err != nil {
		return fmt.Errorf("editor: export: %w", err)
	}
	return nil
}

// Import replaces the working copy with doc. Nothing changes unless
// confirmed is true and the document parses.
func (s *Session) Import(doc []byte, confirmed bool) error {
	if !confirmed {
		return ErrImportNotConfirmed
	}
	items, err := content.Parse(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	snaps, err := snapshot(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = snaps
	s.mu.Unlock()
	return nil
}

func snapshot(items []content.ContentItem) ([][]byte, error) {
	out := make([][]byte, 0, len(items))
	for i, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return nil, fmt.Errorf("editor: encode item %d: %w", i, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func copySnapshots(in [][]byte) [][]byte {
	out := make([][]byte, len(in))
	for i, raw := range in {
		out[i] = append([]byte(nil), raw...)
	}
	return out
}

func decode(raw []byte) (content.ContentItem, error) {
	var it content.ContentItem
	if err := json.Unmarshal(raw, &it); err != nil {
		return content.ContentItem{}, fmt.Errorf("editor: decode item: %w", err)
	}
	return it, nil
}

func cleanPDFs(pdfs []content.PDF) []content.PDF {
	var out []content.PDF
	for _, p := range pdfs {
		if p.Name == "" || p.Filename == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
