package xlbook

import "errors"

// ErrFileNotFound indicates the container path does not exist at operation
// start.
var ErrFileNotFound = errors.New("file not found")

// ErrEmptyInput indicates a write was requested with no rows.
var ErrEmptyInput = errors.New("no data provided to write")

// ErrUnsupportedChartType indicates a chart type outside the supported set.
var ErrUnsupportedChartType = errors.New("unsupported chart type")
