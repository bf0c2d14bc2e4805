package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		maxRow  int
		want    Range
		wantErr bool
	}{
		{
			name: "simple range",
			ref:  "A1:C10",
			want: Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3},
		},
		{
			name: "single cell",
			ref:  "B5",
			want: Range{StartRow: 5, StartCol: 2, EndRow: 5, EndCol: 2},
		},
		{
			name: "absolute references",
			ref:  "$A$1:$C$10",
			want: Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3},
		},
		{
			name: "mixed absolute references",
			ref:  "$A1:C$10",
			want: Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3},
		},
		{
			name: "multi-letter columns",
			ref:  "AA1:AZ100",
			want: Range{StartRow: 1, StartCol: 27, EndRow: 100, EndCol: 52},
		},
		{
			name: "inverted corners normalize",
			ref:  "C10:A1",
			want: Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3},
		},
		{
			name: "inverted rows only",
			ref:  "A10:C1",
			want: Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3},
		},
		{
			name:   "column band",
			ref:    "D:D",
			maxRow: 7,
			want:   Range{StartRow: 1, StartCol: 4, EndRow: 7, EndCol: 4},
		},
		{
			name:   "multi-column band",
			ref:    "A:C",
			maxRow: 3,
			want:   Range{StartRow: 1, StartCol: 1, EndRow: 3, EndCol: 3},
		},
		{
			name:   "inverted column band",
			ref:    "C:A",
			maxRow: 3,
			want:   Range{StartRow: 1, StartCol: 1, EndRow: 3, EndCol: 3},
		},
		{
			name:   "column band on empty sheet",
			ref:    "D:D",
			maxRow: 0,
			want:   Range{StartRow: 1, StartCol: 4, EndRow: 0, EndCol: 4},
		},
		{name: "empty string", ref: "", wantErr: true},
		{name: "whitespace only", ref: "   ", wantErr: true},
		{name: "not a reference", ref: "not-a-range", wantErr: true},
		{name: "row zero", ref: "A0", wantErr: true},
		{name: "digits only", ref: "11", wantErr: true},
		{name: "letters then garbage", ref: "A1B", wantErr: true},
		{name: "too many separators", ref: "A1:B2:C3", wantErr: true},
		{name: "mixed cell and band", ref: "A1:C", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.ref, tt.maxRow, 0)
			if tt.wantErr {
				require.Error(t, err)
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSingleCellIsUnit(t *testing.T) {
	for _, ref := range []string{"A1", "Z99", "AA10", "$B$2"} {
		r, err := Resolve(ref, 0, 0)
		require.NoError(t, err, ref)
		assert.Equal(t, r.StartRow, r.EndRow, ref)
		assert.Equal(t, r.StartCol, r.EndCol, ref)
		assert.Equal(t, 1, r.Rows(), ref)
		assert.Equal(t, 1, r.Cols(), ref)
	}
}

func TestColumnRoundTrip(t *testing.T) {
	for n := 1; n <= 702; n++ {
		letters := ColumnLetters(n)
		require.NotEmpty(t, letters)
		got, err := ColumnIndex(letters)
		require.NoError(t, err)
		require.Equal(t, n, got, "column %d round-tripped as %q", n, letters)
	}
}

func TestColumnLetters(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{702, "ZZ"},
		{703, "AAA"},
		{0, ""},
		{-3, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ColumnLetters(tt.col))
	}
}

func TestColumnIndexLowercase(t *testing.T) {
	got, err := ColumnIndex("aa")
	require.NoError(t, err)
	assert.Equal(t, 27, got)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		ref       string
		wantSheet string
		wantRest  string
	}{
		{"Data!A1:B7", "Data", "A1:B7"},
		{"'My Sheet'!C3", "My Sheet", "C3"},
		{"A1:B7", "", "A1:B7"},
		{"Summary!D:D", "Summary", "D:D"},
	}
	for _, tt := range tests {
		sheet, rest := Split(tt.ref)
		assert.Equal(t, tt.wantSheet, sheet, tt.ref)
		assert.Equal(t, tt.wantRest, rest, tt.ref)
	}
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "A1:C10", Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3}.String())
	assert.Equal(t, "C5", Range{StartRow: 5, StartCol: 3, EndRow: 5, EndCol: 3}.String())
	assert.Equal(t, "", Range{StartRow: 1, StartCol: 4, EndRow: 0, EndCol: 4}.String())
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "A1", FormatCell(1, 1))
	assert.Equal(t, "AB12", FormatCell(12, 28))
}
