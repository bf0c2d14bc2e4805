package codec

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hiraku6/xlbook-go/pkg/xlbook/addr"
	"github.com/hiraku6/xlbook-go/pkg/xlbook/model"
)

var chartTypeOut = map[model.ChartType]excelize.ChartType{
	model.ChartLine:    excelize.Line,
	model.ChartBar:     excelize.Col,
	model.ChartPie:     excelize.Pie,
	model.ChartScatter: excelize.Scatter,
}

// Encode serializes the workbook into xlsx container bytes.
func (x *XLSX) Encode(wb *model.Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := encodeSheets(f, wb); err != nil {
		return nil, &EncodeError{Err: err}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return buf.Bytes(), nil
}

func encodeSheets(f *excelize.File, wb *model.Workbook) error {
	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return fmt.Errorf("workbook has no worksheets")
	}

	// excelize starts with one default sheet; rename it to the first model
	// sheet and append the rest in tab order.
	if err := f.SetSheetName(f.GetSheetName(0), sheets[0].Name()); err != nil {
		return err
	}
	for _, s := range sheets[1:] {
		if _, err := f.NewSheet(s.Name()); err != nil {
			return err
		}
	}

	styleIDs := make(map[string]int)
	for _, s := range sheets {
		if err := encodeCells(f, s, styleIDs); err != nil {
			return err
		}
	}
	// Charts go in after all cell data exists so series references point at
	// populated ranges.
	for _, s := range sheets {
		for _, ch := range s.Charts() {
			if err := encodeChart(f, s.Name(), ch); err != nil {
				return err
			}
		}
	}

	active := wb.ActiveSheet()
	idx, err := f.GetSheetIndex(active.Name())
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return nil
}

func encodeCells(f *excelize.File, s *model.Sheet, styleIDs map[string]int) error {
	name := s.Name()

	for _, coord := range s.Coords() {
		c := s.Cell(coord.Row, coord.Col)
		cellName := addr.FormatCell(coord.Row, coord.Col)

		switch {
		case c.Formula != "":
			if err := f.SetCellFormula(name, cellName, strings.TrimPrefix(c.Formula, "=")); err != nil {
				return err
			}
		case c.Value != nil:
			if err := f.SetCellValue(name, cellName, c.Value); err != nil {
				return err
			}
		}

		if !c.Style.IsZero() {
			id, err := styleID(f, c.Style, styleIDs)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(name, cellName, cellName, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// styleID converts a model style to an excelize style id, deduplicating
// identical styles across cells.
func styleID(f *excelize.File, s *model.Style, cache map[string]int) (int, error) {
	key := styleKey(s)
	if id, ok := cache[key]; ok {
		return id, nil
	}

	es := &excelize.Style{}
	if s.Bold != nil || s.Italic != nil || s.FontSize != nil || s.FontColor != nil {
		font := &excelize.Font{}
		if s.Bold != nil {
			font.Bold = *s.Bold
		}
		if s.Italic != nil {
			font.Italic = *s.Italic
		}
		if s.FontSize != nil {
			font.Size = *s.FontSize
		}
		if s.FontColor != nil {
			font.Color = *s.FontColor
		}
		es.Font = font
	}
	if s.BackgroundColor != nil {
		es.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{*s.BackgroundColor}}
	}
	if s.NumberFormat != nil {
		es.CustomNumFmt = s.NumberFormat
	}

	id, err := f.NewStyle(es)
	if err != nil {
		return 0, err
	}
	cache[key] = id
	return id, nil
}

func styleKey(s *model.Style) string {
	var b strings.Builder
	if s.Bold != nil {
		fmt.Fprintf(&b, "b=%t;", *s.Bold)
	}
	if s.Italic != nil {
		fmt.Fprintf(&b, "i=%t;", *s.Italic)
	}
	if s.FontSize != nil {
		fmt.Fprintf(&b, "sz=%g;", *s.FontSize)
	}
	if s.FontColor != nil {
		fmt.Fprintf(&b, "fc=%s;", *s.FontColor)
	}
	if s.BackgroundColor != nil {
		fmt.Fprintf(&b, "bg=%s;", *s.BackgroundColor)
	}
	if s.NumberFormat != nil {
		fmt.Fprintf(&b, "nf=%s;", *s.NumberFormat)
	}
	return b.String()
}

// encodeChart writes a chart through excelize. Series are derived from the
// source range: the first column holds categories and every following
// column becomes one series named by its header cell. A single-column range
// becomes one series with no categories.
func encodeChart(f *excelize.File, placement string, ch *model.Chart) error {
	ct, ok := chartTypeOut[ch.Type]
	if !ok {
		return fmt.Errorf("unsupported chart type %q", ch.Type)
	}

	r := ch.DataRange
	sheet := ch.DataSheet
	var series []excelize.ChartSeries
	dataStart := r.StartRow
	if ch.HeaderFirst && r.EndRow > r.StartRow {
		dataStart = r.StartRow + 1
	}

	if r.Cols() == 1 {
		s := excelize.ChartSeries{
			Values: seriesRef(sheet, dataStart, r.StartCol, r.EndRow, r.StartCol),
		}
		if dataStart > r.StartRow {
			s.Name = cellRef(sheet, r.StartRow, r.StartCol)
		}
		series = append(series, s)
	} else {
		categories := seriesRef(sheet, dataStart, r.StartCol, r.EndRow, r.StartCol)
		for col := r.StartCol + 1; col <= r.EndCol; col++ {
			s := excelize.ChartSeries{
				Categories: categories,
				Values:     seriesRef(sheet, dataStart, col, r.EndRow, col),
			}
			if dataStart > r.StartRow {
				s.Name = cellRef(sheet, r.StartRow, col)
			}
			series = append(series, s)
		}
	}

	chart := &excelize.Chart{
		Type:   ct,
		Series: series,
	}
	if ch.Title != "" {
		chart.Title = []excelize.RichTextRun{{Text: ch.Title}}
	}

	anchor := ch.Anchor
	if anchor == "" {
		anchor = model.DefaultChartAnchor
	}
	return f.AddChart(placement, anchor, chart)
}

func cellRef(sheet string, row, col int) string {
	return quoteSheet(sheet) + "!$" + addr.ColumnLetters(col) + "$" + fmt.Sprint(row)
}

func seriesRef(sheet string, r1, c1, r2, c2 int) string {
	if r1 == r2 && c1 == c2 {
		return cellRef(sheet, r1, c1)
	}
	return cellRef(sheet, r1, c1) + ":$" + addr.ColumnLetters(c2) + "$" + fmt.Sprint(r2)
}

func quoteSheet(name string) string {
	if strings.ContainsAny(name, " '") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
