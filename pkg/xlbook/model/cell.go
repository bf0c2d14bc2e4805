package model

// Cell is a single addressable value/style/formula slot. Value holds one of
// nil (empty), float64, int64, bool, or string. A formula cell stores its
// marker-prefixed text in Formula and may carry a last-known computed value
// in Cached; the engine never computes Cached itself.
type Cell struct {
	Value   any
	Formula string
	Cached  any
	Style   *Style
}

// IsEmpty reports whether the cell has no content. A cell carrying only a
// style is empty: styling does not count toward the sheet's bounding box.
func (c *Cell) IsEmpty() bool {
	return c == nil || (c.Value == nil && c.Formula == "")
}

// ReadValue returns what a read of this cell yields: the cached computed
// value when present, else the literal formula text, else the plain value.
func (c *Cell) ReadValue() any {
	if c == nil {
		return nil
	}
	if c.Formula != "" {
		if c.Cached != nil {
			return c.Cached
		}
		return c.Formula
	}
	return c.Value
}
