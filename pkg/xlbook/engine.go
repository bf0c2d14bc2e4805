package xlbook

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/efp"

	"github.com/hiraku6/xlbook-go/pkg/xlbook/addr"
	"github.com/hiraku6/xlbook-go/pkg/xlbook/codec"
	"github.com/hiraku6/xlbook-go/pkg/xlbook/model"
)

// Codec translates between workbook models and persisted container bytes.
// The engine treats the container format as opaque beyond this contract.
type Codec interface {
	Decode(data []byte) (*model.Workbook, error)
	Encode(wb *model.Workbook) ([]byte, error)
}

// Engine implements the operation set against the document model. Each
// operation decodes the container on entry, mutates in memory, and encodes
// on exit; a failure during mutation aborts before the persist step, so the
// prior on-disk state is never left half-written.
type Engine struct {
	codec Codec
	log   *logrus.Logger
}

// NewEngine returns an engine. A nil codec defaults to the xlsx codec and a
// nil logger to the logrus standard logger.
func NewEngine(c Codec, log *logrus.Logger) *Engine {
	if c == nil {
		c = codec.NewXLSX()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{codec: c, log: log}
}

func (e *Engine) load(path string) (*model.Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.codec.Decode(data)
}

func (e *Engine) persist(path string, wb *model.Workbook) error {
	data, err := e.codec.Encode(wb)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// pickSheet returns the named sheet, or the active sheet when no name is
// given, along with the resolved name.
func pickSheet(wb *model.Workbook, name string) (*model.Sheet, string, error) {
	if name != "" {
		s, err := wb.Sheet(name)
		return s, name, err
	}
	s := wb.ActiveSheet()
	if s == nil {
		return nil, "", model.ErrSheetNotFound
	}
	return s, s.Name(), nil
}

func (e *Engine) opError(op string, err error, fields logrus.Fields) string {
	e.log.WithFields(fields).WithError(err).Errorf("%s failed", op)
	return err.Error()
}

// Read returns cell data from a container. With a range it returns exactly
// that rectangle's values row-major, missing cells as nil; without one it
// returns every row holding at least one non-empty cell, skipping fully
// empty rows entirely.
func (e *Engine) Read(path, sheetName, rangeRef string) ReadResult {
	fields := logrus.Fields{"path": path, "sheet": sheetName, "range": rangeRef}
	fail := func(err error) ReadResult {
		return ReadResult{Error: e.opError("read", err, fields), Data: [][]any{}}
	}

	wb, err := e.load(path)
	if err != nil {
		return fail(err)
	}
	sheet, resolvedName, err := pickSheet(wb, sheetName)
	if err != nil {
		return fail(err)
	}

	var data [][]any
	usedRange := rangeRef
	if rangeRef != "" {
		r, err := addr.Resolve(rangeRef, sheet.MaxRow(), sheet.MaxCol())
		if err != nil {
			return fail(err)
		}
		data = readRect(sheet, r)
	} else {
		data = readUsedRows(sheet)
		usedRange = "A1"
		if sheet.MaxRow() > 0 {
			usedRange = "A1:" + addr.FormatCell(sheet.MaxRow(), sheet.MaxCol())
		}
	}

	cols := 0
	if len(data) > 0 {
		cols = len(data[0])
	}
	e.log.WithFields(fields).Debug("read complete")
	return ReadResult{
		Success:   true,
		Data:      data,
		SheetName: resolvedName,
		Range:     usedRange,
		Rows:      len(data),
		Columns:   cols,
	}
}

func readRect(sheet *model.Sheet, r addr.Range) [][]any {
	data := make([][]any, 0, r.Rows())
	for row := r.StartRow; row <= r.EndRow; row++ {
		line := make([]any, 0, r.Cols())
		for col := r.StartCol; col <= r.EndCol; col++ {
			line = append(line, sheet.Cell(row, col).ReadValue())
		}
		data = append(data, line)
	}
	return data
}

func readUsedRows(sheet *model.Sheet) [][]any {
	data := [][]any{}
	for row := 1; row <= sheet.MaxRow(); row++ {
		line := make([]any, sheet.MaxCol())
		hasData := false
		for col := 1; col <= sheet.MaxCol(); col++ {
			v := sheet.Cell(row, col).ReadValue()
			line[col-1] = v
			if v != nil {
				hasData = true
			}
		}
		if hasData {
			data = append(data, line)
		}
	}
	return data
}

// Write stores a 2D grid into a container, creating it if absent. An
// existing target sheet is fully cleared first: write is an overwrite, not
// a merge. Headers, when given, occupy row 1 with data rows following.
func (e *Engine) Write(path string, rows [][]any, sheetName string, headers []string) WriteResult {
	fields := logrus.Fields{"path": path, "sheet": sheetName, "rows": len(rows)}
	fail := func(err error) WriteResult {
		return WriteResult{Error: e.opError("write", err, fields)}
	}

	if len(rows) == 0 {
		return fail(ErrEmptyInput)
	}

	var wb *model.Workbook
	if _, err := os.Stat(path); err == nil {
		wb, err = e.load(path)
		if err != nil {
			return fail(err)
		}
	} else {
		wb = model.New()
		// A fresh container with an explicitly named sheet should not keep
		// the default sheet around.
		if sheetName != "" && sheetName != model.DefaultSheetName {
			_ = wb.RemoveSheet(model.DefaultSheetName)
		}
	}

	var sheet *model.Sheet
	switch {
	case sheetName == "":
		sheet = wb.ActiveSheet()
		sheetName = sheet.Name()
	case wb.Has(sheetName):
		sheet, _ = wb.Sheet(sheetName)
	default:
		var err error
		sheet, err = wb.AddSheet(sheetName)
		if err != nil {
			return fail(err)
		}
	}
	if sheet.MaxRow() > 0 {
		sheet.ClearRows(1, sheet.MaxRow())
	}

	rowOffset := 0
	if len(headers) > 0 {
		for col, h := range headers {
			sheet.SetValue(1, col+1, h)
		}
		rowOffset = 1
	}
	for i, rowData := range rows {
		for col, v := range rowData {
			sheet.SetValue(i+1+rowOffset, col+1, v)
		}
	}

	if err := e.persist(path, wb); err != nil {
		return fail(err)
	}
	e.log.WithFields(fields).Debug("write complete")
	return WriteResult{
		Success:        true,
		FilePath:       path,
		SheetName:      sheetName,
		RowsWritten:    len(rows),
		ColumnsWritten: len(rows[0]),
		HeadersAdded:   len(headers) > 0,
	}
}

// WorksheetInfo reports, per sheet, its name, bounding box, and whether it
// is the active sheet.
func (e *Engine) WorksheetInfo(path string) WorksheetInfoResult {
	fields := logrus.Fields{"path": path}
	fail := func(err error) WorksheetInfoResult {
		return WorksheetInfoResult{Error: e.opError("worksheet_info", err, fields)}
	}

	wb, err := e.load(path)
	if err != nil {
		return fail(err)
	}

	active := wb.ActiveSheet()
	infos := make([]SheetInfo, 0, len(wb.Sheets()))
	for _, s := range wb.Sheets() {
		infos = append(infos, SheetInfo{
			Name:            s.Name(),
			MaxRow:          s.MaxRow(),
			MaxColumn:       s.MaxCol(),
			MaxColumnLetter: addr.ColumnLetters(s.MaxCol()),
			IsActive:        s == active,
		})
	}
	return WorksheetInfoResult{
		Success:         true,
		FilePath:        path,
		TotalWorksheets: len(infos),
		Worksheets:      infos,
	}
}

// AddWorksheet appends an empty worksheet to an existing container.
func (e *Engine) AddWorksheet(path, sheetName string) AddWorksheetResult {
	fields := logrus.Fields{"path": path, "sheet": sheetName}
	fail := func(err error) AddWorksheetResult {
		return AddWorksheetResult{Error: e.opError("add_worksheet", err, fields)}
	}

	wb, err := e.load(path)
	if err != nil {
		return fail(err)
	}
	if _, err := wb.AddSheet(sheetName); err != nil {
		return fail(err)
	}
	if err := e.persist(path, wb); err != nil {
		return fail(err)
	}
	e.log.WithFields(fields).Debug("add_worksheet complete")
	return AddWorksheetResult{
		Success:   true,
		FilePath:  path,
		SheetName: sheetName,
		Message:   fmt.Sprintf("Worksheet %q added successfully", sheetName),
	}
}

// UpdateCell sets a single cell's value.
func (e *Engine) UpdateCell(path, sheetName, cellRef string, value any) UpdateCellResult {
	fields := logrus.Fields{"path": path, "sheet": sheetName, "cell": cellRef}
	fail := func(err error) UpdateCellResult {
		return UpdateCellResult{Error: e.opError("update_cell", err, fields)}
	}

	wb, err := e.load(path)
	if err != nil {
		return fail(err)
	}
	sheet, err := wb.Sheet(sheetName)
	if err != nil {
		return fail(err)
	}
	row, col, err := addr.ParseCell(cellRef)
	if err != nil {
		return fail(err)
	}
	sheet.SetValue(row, col, value)

	if err := e.persist(path, wb); err != nil {
		return fail(err)
	}
	e.log.WithFields(fields).Debug("update_cell complete")
	return UpdateCellResult{
		Success:   true,
		FilePath:  path,
		SheetName: sheetName,
		Cell:      cellRef,
		Value:     value,
		Message:   fmt.Sprintf("Cell %s updated successfully", cellRef),
	}
}

// ApplyFormula stores formula text in a cell, normalized to begin with the
// formula marker. No evaluation is performed; a downstream application
// computes values.
func (e *Engine) ApplyFormula(path, sheetName, cellRef, formula string) ApplyFormulaResult {
	fields := logrus.Fields{"path": path, "sheet": sheetName, "cell": cellRef}
	fail := func(err error) ApplyFormulaResult {
		return ApplyFormulaResult{Error: e.opError("apply_formula", err, fields)}
	}

	wb, err := e.load(path)
	if err != nil {
		return fail(err)
	}
	sheet, err := wb.Sheet(sheetName)
	if err != nil {
		return fail(err)
	}
	row, col, err := addr.ParseCell(cellRef)
	if err != nil {
		return fail(err)
	}
	stored := sheet.SetFormula(row, col, formula, nil)

	if err := e.persist(path, wb); err != nil {
		return fail(err)
	}
	e.log.WithFields(fields).Debug("apply_formula complete")
	return ApplyFormulaResult{
		Success:    true,
		FilePath:   path,
		SheetName:  sheetName,
		Cell:       cellRef,
		Formula:    stored,
		References: formulaReferences(stored),
		Message:    fmt.Sprintf("Formula applied to cell %s successfully", cellRef),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formulaReferences tokenizes a formula and returns its cell and range
// operands, cross-sheet references included.
func formulaReferences(formula string) []string {
	ps := efp.ExcelParser()
	var refs []string
	for _, token := range ps.Parse(strings.TrimPrefix(formula, "=")) {
		if token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeRange {
			refs = append(refs, token.TValue)
		}
	}
	return refs
}

// FormatCells applies formatting uniformly to every cell in a range. The
// range is validated before any cell is touched, so a failure never leaves
// the range half-formatted. Present options overwrite their fields; absent
// options preserve prior formatting.
func (e *Engine) FormatCells(path, sheetName, rangeRef string, opts FormatOptions) FormatCellsResult {
	fields := logrus.Fields{"path": path, "sheet": sheetName, "range": rangeRef}
	fail := func(err error) FormatCellsResult {
		return FormatCellsResult{Error: e.opError("format_cells", err, fields)}
	}

	wb, err := e.load(path)
	if err != nil {
		return fail(err)
	}
	sheet, err := wb.Sheet(sheetName)
	if err != nil {
		return fail(err)
	}
	r, err := addr.Resolve(rangeRef, sheet.MaxRow(), sheet.MaxCol())
	if err != nil {
		return fail(err)
	}

	if !opts.IsZero() {
		patch := opts.style()
		for row := r.StartRow; row <= r.EndRow; row++ {
			for col := r.StartCol; col <= r.EndCol; col++ {
				sheet.ApplyStyle(row, col, patch)
			}
		}
	}

	if err := e.persist(path, wb); err != nil {
		return fail(err)
	}
	e.log.WithFields(fields).Debug("format_cells complete")
	return FormatCellsResult{
		Success:   true,
		FilePath:  path,
		SheetName: sheetName,
		Range:     rangeRef,
		Message:   fmt.Sprintf("Formatting applied to range %s successfully", rangeRef),
	}
}

// CreateChart places a chart on a worksheet. The data range resolves
// against the placement sheet unless the reference is sheet-qualified; the
// first row of the range is treated as header/legend. Without an anchor the
// chart lands at the fixed default position.
func (e *Engine) CreateChart(path, sheetName, dataRange, chartType, title, anchor string) CreateChartResult {
	fields := logrus.Fields{"path": path, "sheet": sheetName, "range": dataRange, "type": chartType}
	fail := func(err error) CreateChartResult {
		return CreateChartResult{Error: e.opError("create_chart", err, fields)}
	}

	ct := model.ChartType(chartType)
	if !ct.Valid() {
		return fail(fmt.Errorf("%w: %q", ErrUnsupportedChartType, chartType))
	}

	wb, err := e.load(path)
	if err != nil {
		return fail(err)
	}
	placement, err := wb.Sheet(sheetName)
	if err != nil {
		return fail(err)
	}

	dataSheetName, rangePart := addr.Split(dataRange)
	if dataSheetName == "" {
		dataSheetName = sheetName
	}
	dataSheet, err := wb.Sheet(dataSheetName)
	if err != nil {
		return fail(err)
	}
	r, err := addr.Resolve(rangePart, dataSheet.MaxRow(), dataSheet.MaxCol())
	if err != nil {
		return fail(err)
	}
	if r.IsEmpty() {
		return fail(fmt.Errorf("data range %q resolves to no cells", dataRange))
	}

	if anchor == "" {
		anchor = model.DefaultChartAnchor
	} else if _, _, err := addr.ParseCell(anchor); err != nil {
		return fail(err)
	}

	placement.AddChart(&model.Chart{
		Type:        ct,
		DataSheet:   dataSheetName,
		DataRange:   r,
		Title:       title,
		Anchor:      anchor,
		HeaderFirst: true,
	})

	if err := e.persist(path, wb); err != nil {
		return fail(err)
	}
	e.log.WithFields(fields).Debug("create_chart complete")
	return CreateChartResult{
		Success:   true,
		FilePath:  path,
		SheetName: sheetName,
		DataRange: dataRange,
		ChartType: chartType,
		Title:     title,
		Position:  anchor,
		Message:   fmt.Sprintf("%s chart created successfully", capitalize(chartType)),
	}
}
