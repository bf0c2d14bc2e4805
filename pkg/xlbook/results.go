package xlbook

// Every operation reports a uniform result shape: success plus
// operation-specific fields, or success=false with an error message. No
// operation lets a fault escape past this boundary.

// ReadResult is the outcome of a Read operation.
type ReadResult struct {
	Success   bool    `json:"success"`
	Error     string  `json:"error,omitempty"`
	Data      [][]any `json:"data"`
	SheetName string  `json:"sheet_name,omitempty"`
	Range     string  `json:"range,omitempty"`
	Rows      int     `json:"rows"`
	Columns   int     `json:"columns"`
}

// WriteResult is the outcome of a Write operation.
type WriteResult struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	FilePath       string `json:"file_path,omitempty"`
	SheetName      string `json:"sheet_name,omitempty"`
	RowsWritten    int    `json:"rows_written"`
	ColumnsWritten int    `json:"columns_written"`
	HeadersAdded   bool   `json:"headers_added"`
}

// SheetInfo describes one worksheet for WorksheetInfo.
type SheetInfo struct {
	Name            string `json:"name"`
	MaxRow          int    `json:"max_row"`
	MaxColumn       int    `json:"max_column"`
	MaxColumnLetter string `json:"max_column_letter"`
	IsActive        bool   `json:"is_active"`
}

// WorksheetInfoResult is the outcome of a WorksheetInfo operation.
type WorksheetInfoResult struct {
	Success         bool        `json:"success"`
	Error           string      `json:"error,omitempty"`
	FilePath        string      `json:"file_path,omitempty"`
	TotalWorksheets int         `json:"total_worksheets"`
	Worksheets      []SheetInfo `json:"worksheets,omitempty"`
}

// AddWorksheetResult is the outcome of an AddWorksheet operation.
type AddWorksheetResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	SheetName string `json:"sheet_name,omitempty"`
	Message   string `json:"message,omitempty"`
}

// UpdateCellResult is the outcome of an UpdateCell operation.
type UpdateCellResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	SheetName string `json:"sheet_name,omitempty"`
	Cell      string `json:"cell,omitempty"`
	Value     any    `json:"value,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ApplyFormulaResult is the outcome of an ApplyFormula operation.
// References lists the cell and range operands the formula mentions.
type ApplyFormulaResult struct {
	Success    bool     `json:"success"`
	Error      string   `json:"error,omitempty"`
	FilePath   string   `json:"file_path,omitempty"`
	SheetName  string   `json:"sheet_name,omitempty"`
	Cell       string   `json:"cell,omitempty"`
	Formula    string   `json:"formula,omitempty"`
	References []string `json:"references,omitempty"`
	Message    string   `json:"message,omitempty"`
}

// FormatCellsResult is the outcome of a FormatCells operation.
type FormatCellsResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	SheetName string `json:"sheet_name,omitempty"`
	Range     string `json:"range,omitempty"`
	Message   string `json:"message,omitempty"`
}

// CreateChartResult is the outcome of a CreateChart operation.
type CreateChartResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	SheetName string `json:"sheet_name,omitempty"`
	DataRange string `json:"data_range,omitempty"`
	ChartType string `json:"chart_type,omitempty"`
	Title     string `json:"title,omitempty"`
	Position  string `json:"position,omitempty"`
	Message   string `json:"message,omitempty"`
}
