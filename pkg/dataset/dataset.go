// Package dataset provides a rectangular named-column table with per-column
// type inference and CSV persistence.
package dataset

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// DType is a column's inferred storage type.
type DType int

const (
	Int DType = iota
	Float
	String
)

func (d DType) String() string {
	switch d {
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "string"
	}
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(v string) bool {
	return v == "" || v == "NA" || v == "NaN" || v == "nan" || v == "null"
}

// Column is one named column of raw cell values plus its inferred type.
type Column struct {
	Name   string
	DType  DType
	Values []string
}

// Missing counts the missing cells in the column.
func (c *Column) Missing() int {
	n := 0
	for _, v := range c.Values {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// Floats parses every cell as float64. Missing cells parse to 0; callers
// impute before converting.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			f = 0
		}
		out[i] = f
	}
	return out
}

// UniqueCount returns the number of distinct cell values.
func (c *Column) UniqueCount() int {
	seen := make(map[string]struct{}, len(c.Values))
	for _, v := range c.Values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Frame is an ordered collection of equal-length columns.
type Frame struct {
	Columns []*Column
}

// New builds a frame from ordered headers and row-major cells.
func New(headers []string, rows [][]string) (*Frame, error) {
	cols := make([]*Column, len(headers))
	for j, h := range headers {
		vals := make([]string, len(rows))
		for i, row := range rows {
			if len(row) != len(headers) {
				return nil, errors.Errorf("row %d has %d cells, want %d", i, len(row), len(headers))
			}
			vals[i] = row[j]
		}
		cols[j] = &Column{Name: h, Values: vals}
	}
	f := &Frame{Columns: cols}
	f.inferTypes()
	return f, nil
}

// FromMatrix builds an all-float frame from ordered names and row-major data.
func FromMatrix(names []string, X [][]float64) *Frame {
	cols := make([]*Column, len(names))
	for j, name := range names {
		vals := make([]string, len(X))
		for i := range X {
			vals[i] = strconv.FormatFloat(X[i][j], 'g', -1, 64)
		}
		cols[j] = &Column{Name: name, DType: Float, Values: vals}
	}
	return &Frame{Columns: cols}
}

// FromVector builds a single-column float frame.
func FromVector(name string, y []float64) *Frame {
	vals := make([]string, len(y))
	for i, v := range y {
		vals[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return &Frame{Columns: []*Column{{Name: name, DType: Float, Values: vals}}}
}

// ReadCSV loads a headered CSV file into a frame.
func ReadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if len(records) < 1 {
		return nil, errors.Errorf("%s: no header row", path)
	}
	return New(records[0], records[1:])
}

// WriteCSV persists the frame as a headered CSV file.
func (f *Frame) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(f.Names()); err != nil {
		return errors.Wrapf(err, "write header %s", path)
	}
	row := make([]string, len(f.Columns))
	for i := 0; i < f.NumRows(); i++ {
		for j, c := range f.Columns {
			row[j] = c.Values[i]
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write row %d of %s", i, path)
		}
	}
	return nil
}

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return len(f.Columns[0].Values)
}

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.Columns) }

// Names returns the ordered column names.
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if absent.
func (f *Frame) Column(name string) *Column {
	for _, c := range f.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Drop returns a new frame without the named column. The underlying column
// slices are shared, not copied.
func (f *Frame) Drop(name string) *Frame {
	out := &Frame{}
	for _, c := range f.Columns {
		if c.Name != name {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}

// Matrix converts the frame to row-major float64 data in column order.
func (f *Frame) Matrix() [][]float64 {
	n := f.NumRows()
	cols := make([][]float64, len(f.Columns))
	for j, c := range f.Columns {
		cols[j] = c.Floats()
	}
	X := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		X[i] = row
	}
	return X
}

// inferTypes assigns each column the narrowest type that fits all of its
// non-missing cells: int, then float, then string. All-missing columns are
// typed string.
func (f *Frame) inferTypes() {
	for _, c := range f.Columns {
		isInt, isFloat, seen := true, true, false
		for _, v := range c.Values {
			if IsMissing(v) {
				continue
			}
			seen = true
			if isInt {
				if _, err := strconv.ParseInt(v, 10, 64); err != nil {
					isInt = false
				}
			}
			if !isInt && isFloat {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					isFloat = false
					break
				}
			}
		}
		switch {
		case !seen:
			c.DType = String
		case isInt:
			c.DType = Int
		case isFloat:
			c.DType = Float
		default:
			c.DType = String
		}
	}
}
