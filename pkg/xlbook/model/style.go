package model

import "github.com/tiendc/go-deepcopy"

// Style holds per-cell formatting. Each field is independently settable;
// a nil field is absent, which is distinct from a default value.
type Style struct {
	// Bold toggles bold font weight.
	Bold *bool `json:"bold,omitempty"`
	// Italic toggles italic font style.
	Italic *bool `json:"italic,omitempty"`
	// FontSize is the font size in points.
	FontSize *float64 `json:"font_size,omitempty"`
	// FontColor is the font color as RGB hex (e.g. "FF0000").
	FontColor *string `json:"font_color,omitempty"`
	// BackgroundColor is the solid fill color as RGB hex.
	BackgroundColor *string `json:"background_color,omitempty"`
	// NumberFormat is the number format code (e.g. "0.00%").
	NumberFormat *string `json:"number_format,omitempty"`
}

// IsZero reports whether no field is set.
func (s *Style) IsZero() bool {
	return s == nil || (s.Bold == nil && s.Italic == nil && s.FontSize == nil &&
		s.FontColor == nil && s.BackgroundColor == nil && s.NumberFormat == nil)
}

// Merge overwrites the fields present in patch, preserving the rest.
// Merging the same patch twice yields the same style as merging it once.
func (s *Style) Merge(patch *Style) {
	if patch == nil {
		return
	}
	if patch.Bold != nil {
		s.Bold = patch.Bold
	}
	if patch.Italic != nil {
		s.Italic = patch.Italic
	}
	if patch.FontSize != nil {
		s.FontSize = patch.FontSize
	}
	if patch.FontColor != nil {
		s.FontColor = patch.FontColor
	}
	if patch.BackgroundColor != nil {
		s.BackgroundColor = patch.BackgroundColor
	}
	if patch.NumberFormat != nil {
		s.NumberFormat = patch.NumberFormat
	}
}

// Clone returns a deep copy so per-cell styles never share pointer fields
// with the caller's patch or with other cells.
func (s *Style) Clone() *Style {
	if s == nil {
		return nil
	}
	dst := &Style{}
	if err := deepcopy.Copy(dst, s); err != nil {
		// Style is a plain struct of scalars; deepcopy cannot fail on it.
		copied := *s
		return &copied
	}
	return dst
}
