package codec

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/hiraku6/xlbook-go/pkg/xlbook/addr"
	"github.com/hiraku6/xlbook-go/pkg/xlbook/model"
)

// chartTypeIn maps OOXML chart element tags back to model chart types.
var chartTypeIn = map[string]model.ChartType{
	"lineChart":    model.ChartLine,
	"barChart":     model.ChartBar,
	"pieChart":     model.ChartPie,
	"scatterChart": model.ChartScatter,
}

// chartAnchor holds placement info collected from a drawing part.
type chartAnchor struct {
	rID  string
	cell string
}

// readCharts reconstructs chart objects from the container's OOXML parts:
// workbook → worksheet rels → drawing → chart XML. Chart elements this
// codec does not write are skipped.
func readCharts(data []byte) (map[string][]*model.Chart, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	result := make(map[string][]*model.Chart)

	workbookXML, err := readZipFile(zr, "xl/workbook.xml")
	if err != nil {
		return result, nil
	}
	sheetRIDs := parseWorkbookSheets(workbookXML)
	if len(sheetRIDs) == 0 {
		return result, nil
	}

	wbRelsXML, err := readZipFile(zr, "xl/_rels/workbook.xml.rels")
	if err != nil {
		return result, nil
	}
	targets := parseRelationships(wbRelsXML, "worksheet")

	for sheetName, rID := range sheetRIDs {
		sheetPath, ok := targets[rID]
		if !ok {
			continue
		}
		sheetPath = resolvePart(sheetPath, "xl")

		drawingPath := sheetDrawingPath(zr, sheetPath)
		if drawingPath == "" {
			continue
		}

		drawingXML, err := readZipFile(zr, drawingPath)
		if err != nil {
			continue
		}
		anchors := parseDrawingAnchors(drawingXML)
		if len(anchors) == 0 {
			continue
		}

		drawingRelsXML, err := readZipFile(zr, relsPathFor(drawingPath))
		if err != nil {
			continue
		}
		chartPaths := parseRelationships(drawingRelsXML, "chart")

		for _, anchor := range anchors {
			chartPath, ok := chartPaths[anchor.rID]
			if !ok {
				continue
			}
			chartXML, err := readZipFile(zr, resolvePart(chartPath, path.Dir(drawingPath)))
			if err != nil {
				continue
			}
			if ch := parseChartXML(chartXML, anchor.cell); ch != nil {
				result[sheetName] = append(result[sheetName], ch)
			}
		}
	}

	return result, nil
}

var errNoPart = errors.New("container part not present")

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, errNoPart
}

// relsPathFor maps a part path to its relationships part, e.g.
// xl/drawings/drawing1.xml -> xl/drawings/_rels/drawing1.xml.rels.
func relsPathFor(partPath string) string {
	return path.Join(path.Dir(partPath), "_rels", path.Base(partPath)+".rels")
}

// resolvePart resolves a relationship target against the directory of the
// part that declared it.
func resolvePart(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(baseDir, target))
}

// parseWorkbookSheets extracts sheet name to relationship id from workbook.xml.
func parseWorkbookSheets(data []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var name, rID string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "name":
				name = attr.Value
			case "id":
				rID = attr.Value
			}
		}
		if name != "" && rID != "" {
			result[name] = rID
		}
	}

	return result
}

// parseRelationships extracts rId to target for relationships whose type
// contains the given keyword.
func parseRelationships(data []byte, keyword string) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var rID, target, relType string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "Id":
				rID = attr.Value
			case "Target":
				target = attr.Value
			case "Type":
				relType = attr.Value
			}
		}
		if strings.Contains(strings.ToLower(relType), keyword) {
			result[rID] = target
		}
	}

	return result
}

// sheetDrawingPath finds the drawing part referenced by a worksheet, if any.
func sheetDrawingPath(zr *zip.Reader, sheetPath string) string {
	relsXML, err := readZipFile(zr, relsPathFor(sheetPath))
	if err != nil {
		return ""
	}
	drawings := parseRelationships(relsXML, "drawing")
	for _, target := range drawings {
		return resolvePart(target, path.Dir(sheetPath))
	}
	return ""
}

// parseDrawingAnchors walks a drawing part and collects, per twoCellAnchor,
// the from-cell and the chart relationship id.
func parseDrawingAnchors(data []byte) []chartAnchor {
	var result []chartAnchor
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "twoCellAnchor" {
			if anchor := parseAnchor(decoder); anchor.rID != "" {
				result = append(result, anchor)
			}
		}
	}

	return result
}

func parseAnchor(decoder *xml.Decoder) chartAnchor {
	var anchor chartAnchor
	var fromCol, fromRow int
	inFrom := false
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "from":
				inFrom = true
			case "col":
				if inFrom {
					if txt, err := readElementText(decoder); err == nil {
						fromCol, _ = strconv.Atoi(strings.TrimSpace(txt))
					}
					depth--
				}
			case "row":
				if inFrom {
					if txt, err := readElementText(decoder); err == nil {
						fromRow, _ = strconv.Atoi(strings.TrimSpace(txt))
					}
					depth--
				}
			case "chart":
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" {
						anchor.rID = attr.Value
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "from" {
				inFrom = false
			}
			depth--
		}
	}

	anchor.cell = addr.FormatCell(fromRow+1, fromCol+1)
	return anchor
}

// readElementText reads the character data of the current element up to its
// end tag.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text string
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
		case xml.CharData:
			text += string(t)
		case xml.EndElement:
			depth--
		}
	}
	return text, nil
}

// parseChartXML reconstructs a chart from its XML part. The source range is
// rebuilt as the union of every series reference (names, categories,
// values), which inverts how encodeChart lays series out over the range.
func parseChartXML(data []byte, anchorCell string) *model.Chart {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var chartType model.ChartType
	var title string
	var refs []string
	inTitle := false
	seenType := false
	seenPlot := false

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "plotArea":
				seenPlot = true
			// the chart-level title precedes plotArea; titles inside it
			// belong to axes
			case t.Name.Local == "title" && !seenPlot:
				inTitle = true
			case t.Name.Local == "t" && inTitle:
				if txt, err := readElementText(decoder); err == nil && title == "" {
					title = strings.TrimSpace(txt)
				}
			case t.Name.Local == "f":
				if txt, err := readElementText(decoder); err == nil {
					if ref := strings.TrimSpace(txt); ref != "" {
						refs = append(refs, ref)
					}
				}
			default:
				if ct, ok := chartTypeIn[t.Name.Local]; ok && !seenType {
					chartType = ct
					seenType = true
				}
			}
		case xml.EndElement:
			if t.Name.Local == "title" {
				inTitle = false
			}
		}
	}

	if !seenType {
		return nil
	}

	dataSheet, dataRange, ok := unionRefs(refs)
	if !ok {
		return nil
	}

	return &model.Chart{
		Type:        chartType,
		DataSheet:   dataSheet,
		DataRange:   dataRange,
		Title:       title,
		Anchor:      anchorCell,
		HeaderFirst: true,
	}
}

// unionRefs computes the bounding rectangle of a set of sheet-qualified
// references like "Data!$B$2:$B$7".
func unionRefs(refs []string) (sheet string, union addr.Range, ok bool) {
	for _, ref := range refs {
		refSheet, rest := addr.Split(ref)
		r, err := addr.Resolve(rest, 0, 0)
		if err != nil || r.IsEmpty() {
			continue
		}
		if !ok {
			sheet, union, ok = refSheet, r, true
			continue
		}
		if refSheet != sheet {
			continue
		}
		if r.StartRow < union.StartRow {
			union.StartRow = r.StartRow
		}
		if r.StartCol < union.StartCol {
			union.StartCol = r.StartCol
		}
		if r.EndRow > union.EndRow {
			union.EndRow = r.EndRow
		}
		if r.EndCol > union.EndCol {
			union.EndCol = r.EndCol
		}
	}
	return sheet, union, ok
}
