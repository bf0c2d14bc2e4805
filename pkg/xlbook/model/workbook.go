// Package model holds the in-memory representation of a workbook: an
// ordered collection of worksheets, each a sparse grid of cells with
// per-cell style and formula state plus a list of chart objects.
package model

import (
	"errors"
	"fmt"
)

// DefaultSheetName is the name of the worksheet a new workbook starts with.
const DefaultSheetName = "Sheet1"

// ErrSheetNotFound indicates a named worksheet is absent from the workbook.
var ErrSheetNotFound = errors.New("worksheet not found")

// ErrDuplicateSheet indicates a worksheet with the requested name already exists.
var ErrDuplicateSheet = errors.New("worksheet already exists")

// Workbook is an ordered sequence of worksheets with one active sheet.
// Worksheet names are unique and compared exactly.
type Workbook struct {
	sheets []*Sheet
	active int
}

// New returns a workbook with a single default worksheet, active.
func New() *Workbook {
	w := Empty()
	w.sheets = append(w.sheets, newSheet(DefaultSheetName))
	return w
}

// Empty returns a workbook with no worksheets. The codec populates it
// during decode; engine callers should use New.
func Empty() *Workbook {
	return &Workbook{}
}

// AddSheet appends an empty worksheet. The new sheet is not made active.
func (w *Workbook) AddSheet(name string) (*Sheet, error) {
	if w.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
	}
	s := newSheet(name)
	w.sheets = append(w.sheets, s)
	return s, nil
}

// Sheet returns the worksheet with the given name.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	for _, s := range w.sheets {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
}

// Has reports whether a worksheet with the given name exists.
func (w *Workbook) Has(name string) bool {
	_, err := w.Sheet(name)
	return err == nil
}

// ActiveSheet returns the active worksheet, or nil for a sheetless workbook.
func (w *Workbook) ActiveSheet() *Sheet {
	if len(w.sheets) == 0 {
		return nil
	}
	if w.active < 0 || w.active >= len(w.sheets) {
		return w.sheets[0]
	}
	return w.sheets[w.active]
}

// SetActive marks the named worksheet as active.
func (w *Workbook) SetActive(name string) error {
	for i, s := range w.sheets {
		if s.name == name {
			w.active = i
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrSheetNotFound, name)
}

// RemoveSheet deletes the named worksheet. If the active sheet is removed
// the first remaining sheet becomes active.
func (w *Workbook) RemoveSheet(name string) error {
	for i, s := range w.sheets {
		if s.name != name {
			continue
		}
		w.sheets = append(w.sheets[:i], w.sheets[i+1:]...)
		switch {
		case w.active == i:
			w.active = 0
		case w.active > i:
			w.active--
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrSheetNotFound, name)
}

// Sheets returns the worksheets in tab order.
func (w *Workbook) Sheets() []*Sheet {
	return w.sheets
}

// SheetNames returns the worksheet names in tab order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.name
	}
	return names
}
