package codec

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hiraku6/xlbook-go/pkg/xlbook/addr"
	"github.com/hiraku6/xlbook-go/pkg/xlbook/model"
)

// Decode parses xlsx container bytes into a workbook model.
func (x *XLSX) Decode(data []byte) (*model.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer f.Close()

	extents, err := sheetExtents(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	wb := model.Empty()
	for _, name := range f.GetSheetList() {
		sheet, err := wb.AddSheet(name)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		ext := extents[name]
		if err := decodeCells(f, sheet, ext.Row, ext.Col); err != nil {
			return nil, &DecodeError{Err: err}
		}
	}

	if active := f.GetSheetName(f.GetActiveSheetIndex()); active != "" {
		_ = wb.SetActive(active)
	}

	charts, err := readCharts(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	for sheetName, list := range charts {
		sheet, err := wb.Sheet(sheetName)
		if err != nil {
			continue
		}
		for _, ch := range list {
			sheet.AddChart(ch)
		}
	}

	return wb, nil
}

// sheetExtents scans each worksheet part for cell references and returns
// the maximum coordinate per sheet. Unlike the value grid excelize exposes,
// the raw part also names formula-only and style-only cells, so the walk in
// decodeCells misses nothing the container stores.
func sheetExtents(data []byte) (map[string]model.Coord, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	result := make(map[string]model.Coord)

	workbookXML, err := readZipFile(zr, "xl/workbook.xml")
	if err != nil {
		return result, nil
	}
	sheetRIDs := parseWorkbookSheets(workbookXML)

	wbRelsXML, err := readZipFile(zr, "xl/_rels/workbook.xml.rels")
	if err != nil {
		return result, nil
	}
	targets := parseRelationships(wbRelsXML, "worksheet")

	for sheetName, rID := range sheetRIDs {
		target, ok := targets[rID]
		if !ok {
			continue
		}
		sheetXML, err := readZipFile(zr, resolvePart(target, "xl"))
		if err != nil {
			continue
		}
		result[sheetName] = scanCellRefs(sheetXML)
	}

	return result, nil
}

// scanCellRefs finds the maximum row and column among a worksheet part's
// <c r="..."> elements.
func scanCellRefs(data []byte) model.Coord {
	var ext model.Coord
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "c" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local != "r" {
				continue
			}
			if row, col, err := addr.ParseCell(attr.Value); err == nil {
				if row > ext.Row {
					ext.Row = row
				}
				if col > ext.Col {
					ext.Col = col
				}
			}
		}
	}

	return ext
}

func decodeCells(f *excelize.File, sheet *model.Sheet, maxRow, maxCol int) error {
	name := sheet.Name()

	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			cellName := addr.FormatCell(row, col)

			formula, err := f.GetCellFormula(name, cellName)
			if err != nil {
				return err
			}
			// Raw values, not rendered ones: a numeric cell carrying a number
			// format must decode to its number, not its display string.
			raw, err := f.GetCellValue(name, cellName, excelize.Options{RawCellValue: true})
			if err != nil {
				return err
			}
			styleID, err := f.GetCellStyle(name, cellName)
			if err != nil {
				return err
			}

			if formula == "" && raw == "" && styleID == 0 {
				continue
			}

			if formula != "" {
				var cached any
				if raw != "" {
					cached = parseScalar(raw)
				}
				sheet.SetFormula(row, col, formula, cached)
			} else if raw != "" {
				v, err := typedValue(f, name, cellName, raw)
				if err != nil {
					return err
				}
				sheet.SetValue(row, col, v)
			}

			if styleID != 0 {
				style, err := decodeStyle(f, styleID)
				if err != nil {
					return err
				}
				if !style.IsZero() {
					sheet.ApplyStyle(row, col, style)
				}
			}
		}
	}
	return nil
}

// typedValue converts excelize's string rendering of a cell into the model
// value types: bool for boolean cells, string for string cells, and
// int64/float64 for numeric content.
func typedValue(f *excelize.File, sheet, cell, raw string) (any, error) {
	ct, err := f.GetCellType(sheet, cell)
	if err != nil {
		return nil, err
	}
	switch ct {
	case excelize.CellTypeBool:
		// the container stores booleans as 0/1
		return raw == "1" || strings.EqualFold(raw, "TRUE"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw, nil
	default:
		return parseScalar(raw), nil
	}
}

// parseScalar narrows a raw cell string to int64, float64, or string.
func parseScalar(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

func decodeStyle(f *excelize.File, id int) (*model.Style, error) {
	es, err := f.GetStyle(id)
	if err != nil {
		return nil, err
	}
	s := &model.Style{}
	if es.Font != nil {
		if es.Font.Bold {
			v := true
			s.Bold = &v
		}
		if es.Font.Italic {
			v := true
			s.Italic = &v
		}
		if es.Font.Size > 0 {
			v := es.Font.Size
			s.FontSize = &v
		}
		if es.Font.Color != "" {
			v := normalizeColor(es.Font.Color)
			s.FontColor = &v
		}
	}
	if es.Fill.Type == "pattern" && es.Fill.Pattern == 1 && len(es.Fill.Color) > 0 && es.Fill.Color[0] != "" {
		v := normalizeColor(es.Fill.Color[0])
		s.BackgroundColor = &v
	}
	if es.CustomNumFmt != nil && *es.CustomNumFmt != "" {
		v := *es.CustomNumFmt
		s.NumberFormat = &v
	}
	return s, nil
}

// normalizeColor upper-cases a color and strips the alpha nibbles the
// container stores, so a written "FFFF00" reads back as "FFFF00".
func normalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) == 8 && strings.HasPrefix(c, "FF") {
		return c[2:]
	}
	return c
}
