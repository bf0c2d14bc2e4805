package model

import (
	"sort"
	"strings"
)

// Coord addresses a cell within a worksheet (1-based).
type Coord struct {
	Row int
	Col int
}

// Sheet is a named sparse grid of cells owned by a workbook. It tracks the
// bounding box of its non-empty cells: the box only grows on writes and
// shrinks only through ClearRows.
type Sheet struct {
	name   string
	cells  map[Coord]*Cell
	charts []*Chart
	maxRow int
	maxCol int
}

func newSheet(name string) *Sheet {
	return &Sheet{
		name:  name,
		cells: make(map[Coord]*Cell),
	}
}

// Name returns the worksheet name.
func (s *Sheet) Name() string { return s.name }

// MaxRow returns the last row of the bounding box, 0 if the sheet is empty.
func (s *Sheet) MaxRow() int { return s.maxRow }

// MaxCol returns the last column of the bounding box, 0 if the sheet is empty.
func (s *Sheet) MaxCol() int { return s.maxCol }

// Cell returns the cell at the coordinate, or nil if none exists there.
func (s *Sheet) Cell(row, col int) *Cell {
	return s.cells[Coord{Row: row, Col: col}]
}

func (s *Sheet) cellAt(row, col int) *Cell {
	key := Coord{Row: row, Col: col}
	c, ok := s.cells[key]
	if !ok {
		c = &Cell{}
		s.cells[key] = c
	}
	return c
}

func (s *Sheet) grow(row, col int) {
	if row > s.maxRow {
		s.maxRow = row
	}
	if col > s.maxCol {
		s.maxCol = col
	}
}

// SetValue stores a plain value, replacing any formula at the coordinate.
// A non-nil value grows the bounding box; storing nil empties the cell
// without shrinking it.
func (s *Sheet) SetValue(row, col int, v any) {
	c := s.cellAt(row, col)
	c.Value = v
	c.Formula = ""
	c.Cached = nil
	if v != nil {
		s.grow(row, col)
	}
}

// SetFormula stores formula text, normalized to begin with the formula
// marker, along with an optional externally computed cached value. It
// returns the text as stored.
func (s *Sheet) SetFormula(row, col int, formula string, cached any) string {
	if !strings.HasPrefix(formula, "=") {
		formula = "=" + formula
	}
	c := s.cellAt(row, col)
	c.Value = nil
	c.Formula = formula
	c.Cached = cached
	s.grow(row, col)
	return formula
}

// ApplyStyle merges the patch into the cell's style, creating the cell if
// needed. Styling alone never grows the bounding box.
func (s *Sheet) ApplyStyle(row, col int, patch *Style) {
	if patch.IsZero() {
		return
	}
	c := s.cellAt(row, col)
	if c.Style == nil {
		c.Style = &Style{}
	}
	c.Style.Merge(patch.Clone())
}

// ClearRows removes every cell whose row lies in [from, to] and recomputes
// the bounding box from the remaining cells. This is the one operation that
// shrinks the box.
func (s *Sheet) ClearRows(from, to int) {
	for key := range s.cells {
		if key.Row >= from && key.Row <= to {
			delete(s.cells, key)
		}
	}
	s.maxRow, s.maxCol = 0, 0
	for key, c := range s.cells {
		if !c.IsEmpty() {
			s.grow(key.Row, key.Col)
		}
	}
}

// Coords returns the coordinates of all stored cells in row-major order.
// Cells carrying only a style are included so the codec round-trips them.
func (s *Sheet) Coords() []Coord {
	coords := make([]Coord, 0, len(s.cells))
	for key := range s.cells {
		coords = append(coords, key)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

// AddChart places a chart object on this worksheet.
func (s *Sheet) AddChart(c *Chart) {
	s.charts = append(s.charts, c)
}

// Charts returns the charts placed on this worksheet.
func (s *Sheet) Charts() []*Chart {
	return s.charts
}
