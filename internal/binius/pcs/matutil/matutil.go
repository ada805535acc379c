// Package matutil holds the small row/column reshape helpers every PCS
// variant uses to turn a flat evaluation vector into a 2^r x 2^log_cols
// matrix and back, matching the reference implementation's list-slicing and
// transpose utilities.
package matutil

import "github.com/vybium/binius-pcs/internal/binius/field"

// Reshape splits flat (length rows*rowLen) into rows contiguous slices of
// length rowLen, row-major with the column index varying fastest.
func Reshape(flat []field.Element, rows, rowLen int) [][]field.Element {
	out := make([][]field.Element, rows)
	for i := 0; i < rows; i++ {
		out[i] = append([]field.Element(nil), flat[i*rowLen:(i+1)*rowLen]...)
	}
	return out
}

// Transpose returns the column-major view of mat: out[j][i] = mat[i][j].
// All rows of mat must have equal length.
func Transpose(mat [][]field.Element) [][]field.Element {
	if len(mat) == 0 {
		return nil
	}
	cols := len(mat[0])
	out := make([][]field.Element, cols)
	for j := 0; j < cols; j++ {
		out[j] = make([]field.Element, len(mat))
		for i := range mat {
			out[j][i] = mat[i][j]
		}
	}
	return out
}
