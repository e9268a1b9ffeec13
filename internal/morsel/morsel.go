// Package morsel implements draken's row-batch type: an ordered,
// named collection of equal-length vectors (spec.md §3.2/§4.2).
//
// Grounded structurally on sentra's internal/dataframe.DataFrame
// (NewDataFrame's column-length validation, map-of-columns shape) but
// rewritten to preserve column order — a Go map can't do that, so
// Morsel keeps a parallel []string name list alongside the map the
// teacher used.
package morsel

import (
	"draken/internal/errors"
	"draken/internal/vector"
)

// Morsel is a named, ordered batch of equal-length vectors.
type Morsel struct {
	names   []string
	byName  map[string]int
	columns []vector.Vector
	numRows int
}

// New builds a Morsel from parallel name/vector slices. All vectors
// must share the same length (spec.md §3.2); column-append name
// collisions are resolved left-wins by the caller before reaching here.
func New(names []string, columns []vector.Vector) (*Morsel, error) {
	if len(names) != len(columns) {
		return nil, errors.ArityErrorErr(len(columns), len(names))
	}
	nrows := 0
	if len(columns) > 0 {
		nrows = columns[0].Len()
	}
	for i, c := range columns {
		if c.Len() != nrows {
			return nil, errors.LengthMismatchErr(nrows, c.Len()).With("column", names[i])
		}
	}
	byName := make(map[string]int, len(names))
	for i, n := range names {
		if _, exists := byName[n]; !exists {
			byName[n] = i
		}
	}
	return &Morsel{
		names:   append([]string(nil), names...),
		byName:  byName,
		columns: append([]vector.Vector(nil), columns...),
		numRows: nrows,
	}, nil
}

// Empty constructs a zero-column, zero-row morsel.
func Empty() *Morsel {
	return &Morsel{byName: map[string]int{}}
}

// Column looks up a column by name.
func (m *Morsel) Column(name string) (vector.Vector, error) {
	idx, ok := m.byName[name]
	if !ok {
		return nil, errors.ColumnNotFoundErr(name)
	}
	return m.columns[idx], nil
}

func (m *Morsel) NumRows() int    { return m.numRows }
func (m *Morsel) NumColumns() int { return len(m.names) }

// ColumnNames returns the ordered column name list. The returned slice
// must not be mutated by the caller.
func (m *Morsel) ColumnNames() []string { return m.names }

// ColumnAt returns the vector at ordinal position i.
func (m *Morsel) ColumnAt(i int) vector.Vector { return m.columns[i] }

// Take applies Vector.Take to every column with a shared index array,
// mutating the receiver in place and returning it for chaining
// (spec.md §3.2 — take/select/rename/empty are in-place; Slice returns
// a new morsel).
func (m *Morsel) Take(indices []int32) *Morsel {
	for i, c := range m.columns {
		m.columns[i] = c.Take(indices)
	}
	m.numRows = len(indices)
	return m
}

// Select drops non-listed columns in place, preserving the order of
// names as given (spec.md §4.2).
func (m *Morsel) Select(names []string) (*Morsel, error) {
	newCols := make([]vector.Vector, len(names))
	newByName := make(map[string]int, len(names))
	for i, n := range names {
		idx, ok := m.byName[n]
		if !ok {
			return nil, errors.ColumnNotFoundErr(n)
		}
		newCols[i] = m.columns[idx]
		if _, exists := newByName[n]; !exists {
			newByName[n] = i
		}
	}
	m.names = append([]string(nil), names...)
	m.columns = newCols
	m.byName = newByName
	return m, nil
}

// Rename replaces column names in place from a same-length list; a
// length mismatch is ArityError (spec.md §4.2). RenameMap is the
// name->name mapping form.
func (m *Morsel) Rename(newNames []string) (*Morsel, error) {
	if len(newNames) != len(m.names) {
		return nil, errors.ArityErrorErr(len(newNames), len(m.names))
	}
	byName := make(map[string]int, len(newNames))
	for i, n := range newNames {
		if _, exists := byName[n]; !exists {
			byName[n] = i
		}
	}
	m.names = append([]string(nil), newNames...)
	m.byName = byName
	return m, nil
}

// RenameMap applies a partial name->name mapping in place.
func (m *Morsel) RenameMap(mapping map[string]string) *Morsel {
	newNames := make([]string, len(m.names))
	for i, n := range m.names {
		if renamed, ok := mapping[n]; ok {
			newNames[i] = renamed
		} else {
			newNames[i] = n
		}
	}
	byName := make(map[string]int, len(newNames))
	for i, n := range newNames {
		if _, exists := byName[n]; !exists {
			byName[n] = i
		}
	}
	m.names = newNames
	m.byName = byName
	return m
}

// Slice returns a new morsel covering rows [offset, offset+length), a
// zero-copy per-column view (spec.md §4.2).
func (m *Morsel) Slice(offset, length int) *Morsel {
	cols := make([]vector.Vector, len(m.columns))
	for i, c := range m.columns {
		cols[i] = c.Slice(offset, length)
	}
	out := &Morsel{
		names:   append([]string(nil), m.names...),
		byName:  cloneIndex(m.byName),
		columns: cols,
		numRows: length,
	}
	return out
}

// TruncateEmpty truncates the morsel to 0 rows in place while
// preserving its schema (spec.md §4.2 empty()).
func (m *Morsel) TruncateEmpty() *Morsel {
	for i, c := range m.columns {
		m.columns[i] = c.Slice(0, 0)
	}
	m.numRows = 0
	return m
}

// Hash returns a u64 buffer of length NumRows combining the named
// columns (or every column if names is empty) via the mixing rule of
// spec.md §4.1, implemented by each Vector's HashInto.
func (m *Morsel) Hash(names ...string) ([]uint64, error) {
	cols := m.columns
	if len(names) > 0 {
		cols = make([]vector.Vector, len(names))
		for i, n := range names {
			c, err := m.Column(n)
			if err != nil {
				return nil, err
			}
			cols[i] = c
		}
	}
	out := make([]uint64, m.numRows)
	for _, c := range cols {
		c.HashInto(out, 0)
	}
	return out, nil
}

// Copy is the non-mutating equivalent of Take/Select: it clones the
// morsel, then applies mask (as a Take) and/or a column subset, leaving
// the receiver untouched (spec.md §4.2).
func (m *Morsel) Copy(mask []int32, columns []string) (*Morsel, error) {
	clone := m.clone()
	if columns != nil {
		if _, err := clone.Select(columns); err != nil {
			return nil, err
		}
	}
	if mask != nil {
		clone.Take(mask)
	}
	return clone, nil
}

func (m *Morsel) clone() *Morsel {
	return &Morsel{
		names:   append([]string(nil), m.names...),
		byName:  cloneIndex(m.byName),
		columns: append([]vector.Vector(nil), m.columns...),
		numRows: m.numRows,
	}
}

// Concat stacks morsels of identical schema into a single morsel,
// column by column, via vector.Concat. Blocking operators (the
// internal/operator package) use this to materialize the internal
// representation spec.md §4.4 describes them building on EOS out of the
// morsels buffered across repeated execute calls.
func Concat(morsels []*Morsel) (*Morsel, error) {
	if len(morsels) == 0 {
		return Empty(), nil
	}
	if len(morsels) == 1 {
		return morsels[0], nil
	}
	names := morsels[0].names
	cols := make([]vector.Vector, len(names))
	for i, n := range names {
		parts := make([]vector.Vector, len(morsels))
		for j, m := range morsels {
			c, err := m.Column(n)
			if err != nil {
				return nil, err
			}
			parts[j] = c
		}
		merged, err := vector.Concat(parts)
		if err != nil {
			return nil, err
		}
		cols[i] = merged
	}
	return New(names, cols)
}

func cloneIndex(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
