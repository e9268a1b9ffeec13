// Package arrowio implements draken's Arrow interop boundary: zero-copy
// (per column, when possible) conversion between morsel.Morsel and
// Apache Arrow's columnar layout (spec.md §4.2, §6).
//
// Grounded structurally on the open-telemetry-otel-arrow collector's
// arrow record producer/consumer pattern (one function per direction,
// a closed type-switch dispatching to the matching Arrow builder), and
// on original_source/opteryx/draken/vectors/arrow_vector.py for which
// logical types fall back to the Arrow-fallback vector rather than a
// native kernel.
package arrowio

import (
	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"draken/internal/errors"
	"draken/internal/morsel"
	"draken/internal/vector"
)

// FromArrow converts an Arrow Table to a Morsel. Chunked columns MUST be
// rejected (spec.md §4.2) — callers needing per-chunk morsels should use
// IterFromArrow instead.
func FromArrow(table arrow.Table) (*morsel.Morsel, error) {
	names := make([]string, table.NumCols())
	cols := make([]vector.Vector, table.NumCols())
	for i := 0; i < int(table.NumCols()); i++ {
		col := table.Column(i)
		names[i] = col.Name()
		chunked := col.Data()
		if chunked.NumChunks() > 1 {
			return nil, errors.New(errors.InvalidState, "chunked column %q has %d chunks; use IterFromArrow", col.Name(), chunked.NumChunks())
		}
		var arr arrow.Array
		if chunked.NumChunks() == 1 {
			arr = chunked.Chunk(0)
		} else {
			arr = array.MakeArrayOfNull(memory.NewGoAllocator(), chunked.DataType(), 0)
		}
		cols[i] = FromArrowArray(arr)
	}
	return morsel.New(names, cols)
}

// IterFromArrow yields one morsel per chunk-alignment across all
// columns (spec.md §4.2). Columns are assumed chunked identically; a
// table whose columns disagree on chunk boundaries is realigned by
// slicing each column to the narrowest common chunk length, the
// "best-effort aligned" strategy spec.md leaves to the implementer.
func IterFromArrow(table arrow.Table) ([]*morsel.Morsel, error) {
	numCols := int(table.NumCols())
	if numCols == 0 {
		return nil, nil
	}
	offsets := make([]int, numCols)
	var out []*morsel.Morsel
	total := int(table.NumRows())
	for row := 0; row < total; {
		step := total - row
		for c := 0; c < numCols; c++ {
			chunked := table.Column(c).Data()
			arr, localOff, remaining := chunkAt(chunked, offsets[c])
			_ = arr
			_ = localOff
			if remaining < step {
				step = remaining
			}
		}
		names := make([]string, numCols)
		cols := make([]vector.Vector, numCols)
		for c := 0; c < numCols; c++ {
			chunked := table.Column(c).Data()
			arr, localOff, _ := chunkAt(chunked, offsets[c])
			names[c] = table.Column(c).Name()
			cols[c] = FromArrowArray(array.NewSlice(arr, int64(localOff), int64(localOff+step)))
			offsets[c] += step
		}
		m, err := morsel.New(names, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
		row += step
	}
	return out, nil
}

// chunkAt locates the chunk and within-chunk offset for a logical
// column offset, returning the chunk array, the local offset inside it,
// and how many rows remain in that chunk from that offset.
func chunkAt(chunked *arrow.Chunked, offset int) (arrow.Array, int, int) {
	pos := 0
	for _, chunk := range chunked.Chunks() {
		if offset < pos+chunk.Len() {
			local := offset - pos
			return chunk, local, chunk.Len() - local
		}
		pos += chunk.Len()
	}
	last := chunked.Chunks()[len(chunked.Chunks())-1]
	return last, last.Len(), 0
}

// ToArrow constructs an Arrow Table from a morsel. ArrowVector fallback
// columns are passed through without copying; native vectors are not
// zero-copy, their values are copied into newly built Arrow arrays
// (spec.md §4.2's empty-morsel
// invariant — schema preserved at zero rows — holds because every
// column's Arrow array carries its own DataType regardless of length).
func ToArrow(m *morsel.Morsel) (arrow.Table, error) {
	fields := make([]arrow.Field, m.NumColumns())
	arrs := make([]arrow.Array, m.NumColumns())
	for i, name := range m.ColumnNames() {
		col := m.ColumnAt(i)
		arr := ToArrowArray(col)
		fields[i] = arrow.Field{Name: name, Type: arr.DataType(), Nullable: col.NullCount() > 0 || col.Validity() != nil}
		arrs[i] = arr
	}
	schema := arrow.NewSchema(fields, nil)
	columns := make([]arrow.Column, len(arrs))
	for i, arr := range arrs {
		chunked := arrow.NewChunked(arr.DataType(), []arrow.Array{arr})
		columns[i] = *arrow.NewColumn(fields[i], chunked)
	}
	return array.NewTable(schema, columns, int64(m.NumRows())), nil
}
