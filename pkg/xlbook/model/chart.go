package model

import (
	"github.com/tiendc/go-deepcopy"

	"github.com/hiraku6/xlbook-go/pkg/xlbook/addr"
)

// ChartType enumerates the supported chart types.
type ChartType string

const (
	ChartLine    ChartType = "line"
	ChartBar     ChartType = "bar"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
)

// Valid reports whether the chart type is one of the supported set.
func (t ChartType) Valid() bool {
	switch t {
	case ChartLine, ChartBar, ChartPie, ChartScatter:
		return true
	}
	return false
}

// DefaultChartAnchor is the placement cell used when no anchor is given.
const DefaultChartAnchor = "E5"

// Chart is a chart object placed on a worksheet. The source range may live
// on a different sheet than the one the chart is placed on.
type Chart struct {
	// Type is the chart type (line, bar, pie, scatter).
	Type ChartType `json:"chart_type"`
	// DataSheet is the worksheet the source range is taken from.
	DataSheet string `json:"data_sheet"`
	// DataRange is the resolved source rectangle.
	DataRange addr.Range `json:"data_range"`
	// Title is the optional chart title.
	Title string `json:"title,omitempty"`
	// Anchor is the top-left placement cell (e.g. "E5").
	Anchor string `json:"anchor"`
	// HeaderFirst marks the first row/column of the source range as
	// header/legend rather than data.
	HeaderFirst bool `json:"header_first"`
}

// Clone returns a deep copy of the chart.
func (c *Chart) Clone() *Chart {
	if c == nil {
		return nil
	}
	dst := &Chart{}
	if err := deepcopy.Copy(dst, c); err != nil {
		copied := *c
		return &copied
	}
	return dst
}
