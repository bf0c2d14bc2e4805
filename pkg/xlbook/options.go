// Package xlbook implements the spreadsheet mutation engine: a fixed set of
// operations that load a persisted workbook, mutate the in-memory model, and
// re-persist it, reporting a uniform success/error result per operation.
package xlbook

import (
	"bytes"
	"encoding/json"

	"github.com/hiraku6/xlbook-go/pkg/xlbook/model"
)

// FormatOptions selects cell formatting to apply. Each field is optional
// and applied independently; absent fields leave existing formatting
// untouched.
type FormatOptions struct {
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

// IsZero reports whether no option is set.
func (o FormatOptions) IsZero() bool {
	return o.Bold == nil && o.Italic == nil && o.FontSize == nil &&
		o.FontColor == nil && o.BackgroundColor == nil && o.NumberFormat == nil
}

func (o FormatOptions) style() *model.Style {
	return &model.Style{
		Bold:            o.Bold,
		Italic:          o.Italic,
		FontSize:        o.FontSize,
		FontColor:       o.FontColor,
		BackgroundColor: o.BackgroundColor,
		NumberFormat:    o.NumberFormat,
	}
}

// ParseFormatOptions decodes format options from JSON. Unknown fields are
// rejected rather than silently ignored, so caller typos fail loudly.
func ParseFormatOptions(data []byte) (FormatOptions, error) {
	var opts FormatOptions
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return FormatOptions{}, err
	}
	return opts, nil
}
