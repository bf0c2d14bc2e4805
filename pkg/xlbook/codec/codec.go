// Package codec translates between the in-memory workbook model and the
// persisted xlsx container. Cell, style, and sheet plumbing go through
// excelize; charts are written through excelize but read back by walking
// the OOXML parts directly, since excelize offers no chart read API.
package codec

import "fmt"

// DecodeError wraps a failure to decode a container.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode container: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError wraps a failure to encode a workbook.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode container: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// XLSX encodes and decodes workbooks in the xlsx container format.
// Round-trip fidelity holds for everything the engine itself writes:
// Decode(Encode(w)) is structurally equal to w.
type XLSX struct{}

// NewXLSX returns an xlsx codec.
func NewXLSX() *XLSX {
	return &XLSX{}
}
