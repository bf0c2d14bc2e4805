package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hiraku6/xlbook-go/pkg/xlbook/addr"
	"github.com/hiraku6/xlbook-go/pkg/xlbook/model"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func roundTrip(t *testing.T, wb *model.Workbook) *model.Workbook {
	t.Helper()
	x := NewXLSX()
	data, err := x.Encode(wb)
	require.NoError(t, err)
	decoded, err := x.Decode(data)
	require.NoError(t, err)
	return decoded
}

func TestRoundTripValues(t *testing.T) {
	wb := model.New()
	s := wb.ActiveSheet()
	s.SetValue(1, 1, "Name")
	s.SetValue(1, 2, "Age")
	s.SetValue(2, 1, "Alice")
	s.SetValue(2, 2, int64(30))
	s.SetValue(3, 1, "Bob")
	s.SetValue(3, 2, 200.5)
	s.SetValue(4, 2, true)

	got := roundTrip(t, wb)
	gs, err := got.Sheet(model.DefaultSheetName)
	require.NoError(t, err)

	assert.Equal(t, "Name", gs.Cell(1, 1).Value)
	assert.Equal(t, "Alice", gs.Cell(2, 1).Value)
	assert.Equal(t, int64(30), gs.Cell(2, 2).Value)
	assert.Equal(t, 200.5, gs.Cell(3, 2).Value)
	assert.Equal(t, true, gs.Cell(4, 2).Value)
	assert.Equal(t, 4, gs.MaxRow())
	assert.Equal(t, 2, gs.MaxCol())
}

func TestRoundTripNumericString(t *testing.T) {
	wb := model.New()
	wb.ActiveSheet().SetValue(1, 1, "123")

	got := roundTrip(t, wb)
	gs := got.ActiveSheet()
	// string cells stay strings even when they look numeric
	assert.Equal(t, "123", gs.Cell(1, 1).Value)
}

func TestRoundTripSheetsAndActive(t *testing.T) {
	wb := model.New()
	_, err := wb.AddSheet("Data")
	require.NoError(t, err)
	_, err = wb.AddSheet("Summary")
	require.NoError(t, err)
	require.NoError(t, wb.SetActive("Data"))

	got := roundTrip(t, wb)
	assert.Equal(t, []string{model.DefaultSheetName, "Data", "Summary"}, got.SheetNames())
	assert.Equal(t, "Data", got.ActiveSheet().Name())
}

func TestRoundTripFormula(t *testing.T) {
	wb := model.New()
	s := wb.ActiveSheet()
	s.SetValue(1, 1, int64(1))
	s.SetValue(1, 2, int64(2))
	s.SetFormula(1, 3, "=A1+B1", nil)
	s.SetFormula(2, 3, "SUM(Data!D:D)", nil)

	got := roundTrip(t, wb)
	gs := got.ActiveSheet()
	assert.Equal(t, "=A1+B1", gs.Cell(1, 3).Formula)
	assert.Equal(t, "=SUM(Data!D:D)", gs.Cell(2, 3).Formula)
	assert.Nil(t, gs.Cell(1, 3).Value)
}

func TestRoundTripStyles(t *testing.T) {
	wb := model.New()
	s := wb.ActiveSheet()
	s.SetValue(1, 1, "header")
	s.ApplyStyle(1, 1, &model.Style{
		Bold:            boolPtr(true),
		Italic:          boolPtr(true),
		FontSize:        floatPtr(14),
		FontColor:       strPtr("FF0000"),
		BackgroundColor: strPtr("FFFF00"),
		NumberFormat:    strPtr("0.00"),
	})
	// a style-only cell must survive the trip too
	s.ApplyStyle(3, 3, &model.Style{Bold: boolPtr(true)})

	got := roundTrip(t, wb)
	gs := got.ActiveSheet()

	st := gs.Cell(1, 1).Style
	require.NotNil(t, st)
	require.NotNil(t, st.Bold)
	assert.True(t, *st.Bold)
	require.NotNil(t, st.Italic)
	assert.True(t, *st.Italic)
	require.NotNil(t, st.FontSize)
	assert.Equal(t, 14.0, *st.FontSize)
	require.NotNil(t, st.FontColor)
	assert.Equal(t, "FF0000", *st.FontColor)
	require.NotNil(t, st.BackgroundColor)
	assert.Equal(t, "FFFF00", *st.BackgroundColor)
	require.NotNil(t, st.NumberFormat)
	assert.Equal(t, "0.00", *st.NumberFormat)

	styled := gs.Cell(3, 3)
	require.NotNil(t, styled)
	assert.True(t, styled.IsEmpty())
	require.NotNil(t, styled.Style)
	require.NotNil(t, styled.Style.Bold)
	assert.True(t, *styled.Style.Bold)
	// styling alone does not extend the bounding box
	assert.Equal(t, 1, gs.MaxRow())
}

func TestRoundTripNumberFormattedValues(t *testing.T) {
	// A number format changes how a value displays, never what it is: the
	// decoded cell must carry the number, not the rendered string.
	wb := model.New()
	s := wb.ActiveSheet()
	s.SetValue(1, 1, 0.5)
	s.ApplyStyle(1, 1, &model.Style{NumberFormat: strPtr("0%")})
	s.SetValue(2, 1, int64(1234))
	s.ApplyStyle(2, 1, &model.Style{NumberFormat: strPtr("0.00")})

	got := roundTrip(t, wb)
	gs := got.ActiveSheet()

	pct := gs.Cell(1, 1)
	assert.Equal(t, 0.5, pct.Value)
	require.NotNil(t, pct.Style)
	require.NotNil(t, pct.Style.NumberFormat)
	assert.Equal(t, "0%", *pct.Style.NumberFormat)

	dec := gs.Cell(2, 1)
	assert.Equal(t, int64(1234), dec.Value)
	require.NotNil(t, dec.Style)
	require.NotNil(t, dec.Style.NumberFormat)
	assert.Equal(t, "0.00", *dec.Style.NumberFormat)
}

func TestRoundTripChart(t *testing.T) {
	wb := model.New()
	s := wb.ActiveSheet()
	s.SetValue(1, 1, "Month")
	s.SetValue(1, 2, "Sales")
	for r := 2; r <= 7; r++ {
		s.SetValue(r, 1, "m")
		s.SetValue(r, 2, int64(r*10))
	}
	s.AddChart(&model.Chart{
		Type:        model.ChartLine,
		DataSheet:   model.DefaultSheetName,
		DataRange:   addr.Range{StartRow: 1, StartCol: 1, EndRow: 7, EndCol: 2},
		Title:       "Sales Trend",
		Anchor:      "E5",
		HeaderFirst: true,
	})

	got := roundTrip(t, wb)
	charts := got.ActiveSheet().Charts()
	require.Len(t, charts, 1)
	ch := charts[0]
	assert.Equal(t, model.ChartLine, ch.Type)
	assert.Equal(t, "Sales Trend", ch.Title)
	assert.Equal(t, model.DefaultSheetName, ch.DataSheet)
	assert.Equal(t, addr.Range{StartRow: 1, StartCol: 1, EndRow: 7, EndCol: 2}, ch.DataRange)
	assert.Equal(t, "E5", ch.Anchor)
	assert.True(t, ch.HeaderFirst)
}

func TestRoundTripChartCrossSheet(t *testing.T) {
	wb := model.New()
	data, err := wb.AddSheet("Data")
	require.NoError(t, err)
	data.SetValue(1, 1, "X")
	data.SetValue(1, 2, "Y")
	for r := 2; r <= 5; r++ {
		data.SetValue(r, 1, int64(r))
		data.SetValue(r, 2, int64(r*r))
	}
	wb.ActiveSheet().AddChart(&model.Chart{
		Type:        model.ChartScatter,
		DataSheet:   "Data",
		DataRange:   addr.Range{StartRow: 1, StartCol: 1, EndRow: 5, EndCol: 2},
		Anchor:      "B2",
		HeaderFirst: true,
	})

	got := roundTrip(t, wb)
	charts, err := got.Sheet(model.DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, charts.Charts(), 1)
	ch := charts.Charts()[0]
	assert.Equal(t, model.ChartScatter, ch.Type)
	assert.Equal(t, "Data", ch.DataSheet)
	assert.Equal(t, addr.Range{StartRow: 1, StartCol: 1, EndRow: 5, EndCol: 2}, ch.DataRange)
	assert.Equal(t, "B2", ch.Anchor)
}

func TestDecodeChartAxisTitleOnly(t *testing.T) {
	// An axis title on a chart with no chart-level title must not be
	// mistaken for the chart title.
	f := excelize.NewFile()
	defer f.Close()
	for r := 1; r <= 4; r++ {
		require.NoError(t, f.SetCellValue("Sheet1", addr.FormatCell(r, 1), r))
	}
	require.NoError(t, f.AddChart("Sheet1", "C1", &excelize.Chart{
		Type:   excelize.Line,
		Series: []excelize.ChartSeries{{Values: "Sheet1!$A$1:$A$4"}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Units"}}},
	}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := NewXLSX().Decode(buf.Bytes())
	require.NoError(t, err)
	charts := wb.ActiveSheet().Charts()
	require.Len(t, charts, 1)
	assert.Equal(t, model.ChartLine, charts[0].Type)
	assert.Equal(t, "", charts[0].Title)
}

func TestDecodeForeignContainer(t *testing.T) {
	// Containers written by other tools still decode: the extent comes from
	// the worksheet part's cell references, not anything we maintain.
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", 2))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 3))
	require.NoError(t, f.SetCellFormula("Sheet1", "C2", "A1+B2"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := NewXLSX().Decode(buf.Bytes())
	require.NoError(t, err)
	s := wb.ActiveSheet()
	assert.Equal(t, int64(2), s.Cell(1, 1).Value)
	assert.Equal(t, int64(3), s.Cell(2, 2).Value)
	c := s.Cell(2, 3)
	require.NotNil(t, c)
	assert.Equal(t, "=A1+B2", c.Formula)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := NewXLSX().Decode([]byte("not an xlsx container"))
	require.Error(t, err)
	var derr *DecodeError
	assert.ErrorAs(t, err, &derr)
}
