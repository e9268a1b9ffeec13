package operator

import (
	"draken/internal/morsel"
	"draken/internal/vector"
)

// ShowColumns implements spec.md §4.4.11: a blocking operator that
// reports upstream's schema as data rows — (name, type, nullable,
// count) per column, grounded on original_source's show_columns.py.
// Column names and types are captured from the first morsel seen;
// count and nullable accumulate across every morsel up to EOS.
type ShowColumns struct {
	base
	names    []string
	kinds    []vector.Kind
	rowCount []int64
	nullSeen []bool
}

func NewShowColumns(producer Operator) *ShowColumns {
	return &ShowColumns{
		base: base{
			name:      "ShowColumns",
			config:    "",
			producers: []Operator{producer},
		},
	}
}

func (s *ShowColumns) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in == nil {
		return s.finish()
	}
	if s.names == nil {
		s.names = append([]string(nil), in.ColumnNames()...)
		s.kinds = make([]vector.Kind, len(s.names))
		s.rowCount = make([]int64, len(s.names))
		s.nullSeen = make([]bool, len(s.names))
		for i, n := range s.names {
			c, err := in.Column(n)
			if err != nil {
				return nil, false, err
			}
			s.kinds[i] = c.Kind()
		}
	}
	for i, n := range s.names {
		c, err := in.Column(n)
		if err != nil {
			return nil, false, err
		}
		s.rowCount[i] += int64(c.Len())
		if c.NullCount() > 0 {
			s.nullSeen[i] = true
		}
	}
	return nil, false, nil
}

func (s *ShowColumns) finish() ([]*morsel.Morsel, bool, error) {
	n := len(s.names)
	if n == 0 {
		empty, err := morsel.New(
			[]string{"name", "type", "nullable", "count"},
			[]vector.Vector{
				vector.NewBytesVector(vector.KindString, []int32{0}, nil, nil),
				vector.NewBytesVector(vector.KindString, []int32{0}, nil, nil),
				vector.NewBoolVector(nil, nil),
				vector.NewNumericVector(vector.KindInt64, []int64{}, nil),
			},
		)
		if err != nil {
			return nil, true, err
		}
		return []*morsel.Morsel{empty}, true, nil
	}

	nameOffsets := make([]int32, n+1)
	var nameData []byte
	typeOffsets := make([]int32, n+1)
	var typeData []byte
	nullable := make([]bool, n)
	counts := make([]int64, n)
	for i := 0; i < n; i++ {
		nameData = append(nameData, s.names[i]...)
		nameOffsets[i+1] = int32(len(nameData))
		typeData = append(typeData, s.kinds[i].String()...)
		typeOffsets[i+1] = int32(len(typeData))
		nullable[i] = s.nullSeen[i]
		counts[i] = s.rowCount[i]
	}
	out, err := morsel.New(
		[]string{"name", "type", "nullable", "count"},
		[]vector.Vector{
			vector.NewBytesVector(vector.KindString, nameOffsets, nameData, nil),
			vector.NewBytesVector(vector.KindString, typeOffsets, typeData, nil),
			vector.NewBoolVector(nullable, nil),
			vector.NewNumericVector(vector.KindInt64, counts, nil),
		},
	)
	if err != nil {
		return nil, true, err
	}
	return []*morsel.Morsel{out}, true, nil
}
