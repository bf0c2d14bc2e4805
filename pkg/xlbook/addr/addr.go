// Package addr parses spreadsheet-style references into normalized
// coordinates. It is pure: resolution depends only on the reference string
// and the sheet bounds passed in.
package addr

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a resolved rectangle with 1-based, inclusive bounds.
type Range struct {
	// StartRow is the first row (1-based).
	StartRow int `json:"start_row"`
	// StartCol is the first column (1-based).
	StartCol int `json:"start_col"`
	// EndRow is the last row (inclusive).
	EndRow int `json:"end_row"`
	// EndCol is the last column (inclusive).
	EndCol int `json:"end_col"`
}

// IsEmpty reports whether the range contains no cells. A column band
// resolved against an empty sheet is the one way to produce an empty range.
func (r Range) IsEmpty() bool {
	return r.EndRow < r.StartRow || r.EndCol < r.StartCol
}

// Rows returns the number of rows in the range.
func (r Range) Rows() int {
	if r.IsEmpty() {
		return 0
	}
	return r.EndRow - r.StartRow + 1
}

// Cols returns the number of columns in the range.
func (r Range) Cols() int {
	if r.IsEmpty() {
		return 0
	}
	return r.EndCol - r.StartCol + 1
}

// String renders the range in A1 notation. A 1x1 range collapses to the
// single-cell form.
func (r Range) String() string {
	if r.IsEmpty() {
		return ""
	}
	start := FormatCell(r.StartRow, r.StartCol)
	if r.StartRow == r.EndRow && r.StartCol == r.EndCol {
		return start
	}
	return start + ":" + FormatCell(r.EndRow, r.EndCol)
}

// ParseError describes a reference that failed the grammar.
type ParseError struct {
	Ref    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid reference %q: %s", e.Ref, e.Reason)
}

func parseErr(ref, reason string) *ParseError {
	return &ParseError{Ref: ref, Reason: reason}
}

// ColumnIndex converts column letters to a 1-based index (A=1 ... Z=26,
// AA=27). Lowercase letters are accepted.
func ColumnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, parseErr(letters, "empty column letters")
	}
	n := 0
	for _, ch := range strings.ToUpper(letters) {
		if ch < 'A' || ch > 'Z' {
			return 0, parseErr(letters, "column letters must be A-Z")
		}
		n = n*26 + int(ch-'A') + 1
	}
	return n, nil
}

// ColumnLetters converts a 1-based column index to letters. It returns ""
// for indices below 1.
func ColumnLetters(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// FormatCell renders a (row, column) coordinate in A1 notation.
func FormatCell(row, col int) string {
	return ColumnLetters(col) + strconv.Itoa(row)
}

// ParseCell parses a single-cell reference like "B5" or "$B$5" into a
// 1-based (row, column) pair. Absolute markers are stripped.
func ParseCell(ref string) (row, col int, err error) {
	clean := strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if clean == "" {
		return 0, 0, parseErr(ref, "empty cell reference")
	}
	i := 0
	for i < len(clean) && isLetter(clean[i]) {
		i++
	}
	letters, digits := clean[:i], clean[i:]
	if letters == "" || digits == "" {
		return 0, 0, parseErr(ref, "cell reference must be column letters followed by a row number")
	}
	col, err = ColumnIndex(letters)
	if err != nil {
		return 0, 0, parseErr(ref, "bad column letters")
	}
	row, convErr := strconv.Atoi(digits)
	if convErr != nil || row < 1 {
		return 0, 0, parseErr(ref, "row number must be a positive integer")
	}
	return row, col, nil
}

// Split separates an optional sheet qualifier from a reference, so
// "Data!A1:B7" yields ("Data", "A1:B7") and "'My Sheet'!C3" yields
// ("My Sheet", "C3"). References without a qualifier return an empty sheet.
func Split(ref string) (sheet, rest string) {
	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return "", ref
	}
	sheet = strings.Trim(ref[:idx], "'")
	return sheet, ref[idx+1:]
}

// Resolve parses a reference against the bounds of a sheet and returns the
// normalized rectangle. Accepted forms: single cell ("A1"), rectangle
// ("A1:C10", inverted corners are swapped), and column band ("D:D", "A:C",
// rows resolved to 1..maxRow; an empty sheet yields an empty range).
func Resolve(ref string, maxRow, maxCol int) (Range, error) {
	_ = maxCol // bands are column-only; row bands are not part of the grammar
	clean := strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if clean == "" {
		return Range{}, parseErr(ref, "empty reference")
	}

	parts := strings.Split(clean, ":")
	switch len(parts) {
	case 1:
		row, col, err := ParseCell(parts[0])
		if err != nil {
			return Range{}, err
		}
		return Range{StartRow: row, StartCol: col, EndRow: row, EndCol: col}, nil
	case 2:
		if isColumnOnly(parts[0]) && isColumnOnly(parts[1]) {
			c1, err := ColumnIndex(parts[0])
			if err != nil {
				return Range{}, parseErr(ref, "bad column letters")
			}
			c2, err := ColumnIndex(parts[1])
			if err != nil {
				return Range{}, parseErr(ref, "bad column letters")
			}
			if c2 < c1 {
				c1, c2 = c2, c1
			}
			// maxRow of 0 (empty sheet) produces rows 1..0: empty, not an error.
			return Range{StartRow: 1, StartCol: c1, EndRow: maxRow, EndCol: c2}, nil
		}
		r1, c1, err := ParseCell(parts[0])
		if err != nil {
			return Range{}, err
		}
		r2, c2, err := ParseCell(parts[1])
		if err != nil {
			return Range{}, err
		}
		if r2 < r1 {
			r1, r2 = r2, r1
		}
		if c2 < c1 {
			c1, c2 = c2, c1
		}
		return Range{StartRow: r1, StartCol: c1, EndRow: r2, EndCol: c2}, nil
	default:
		return Range{}, parseErr(ref, "too many ':' separators")
	}
}

func isColumnOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
