package operator

import (
	"strings"

	"draken/internal/errors"
	"draken/internal/expr"
	"draken/internal/morsel"
	"draken/internal/vector"
)

// ProjectItem is one entry of a Projection's output column list
// (spec.md §4.4.2): either a wildcard expansion, a computed expression
// (requires Alias), or a plain (possibly aliased) source column
// reference. Qualified column names use the "table.column" convention,
// since Morsel itself carries no table-alias metadata.
type ProjectItem struct {
	Wildcard  bool   // "*" or "T.*"
	Qualifier string // table alias for a qualified wildcard; "" means unqualified "*"

	Expr  expr.Expr // non-nil: evaluate and append under Alias
	Alias string

	Source string // non-Expr case: select this column, optionally renamed to Alias
}

// Projection implements spec.md §4.4.2. Stateless: each column is
// either select-ed from the source morsel or computed then appended
// before the final select; duplicate resolved output names are
// AmbiguousColumn.
type Projection struct {
	base
	items []ProjectItem
}

func NewProjection(producer Operator, items []ProjectItem) *Projection {
	return &Projection{
		base: base{
			name:      "Projection",
			config:    configForItems(items),
			producers: []Operator{producer},
		},
		items: items,
	}
}

func configForItems(items []ProjectItem) string {
	var names []string
	for _, it := range items {
		switch {
		case it.Wildcard && it.Qualifier != "":
			names = append(names, it.Qualifier+".*")
		case it.Wildcard:
			names = append(names, "*")
		case it.Expr != nil:
			names = append(names, it.Alias)
		default:
			names = append(names, it.Source)
		}
	}
	return "columns=[" + strings.Join(names, ",") + "]"
}

func (p *Projection) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in == nil {
		return nil, true, nil
	}

	var names []string
	var vecs []vector.Vector
	seen := map[string]bool{}
	add := func(name string, v vector.Vector) error {
		if seen[name] {
			return errors.AmbiguousColumnErr(name)
		}
		seen[name] = true
		names = append(names, name)
		vecs = append(vecs, v)
		return nil
	}

	for _, item := range p.items {
		switch {
		case item.Wildcard:
			for _, n := range in.ColumnNames() {
				if item.Qualifier != "" && !strings.HasPrefix(n, item.Qualifier+".") {
					continue
				}
				v, err := in.Column(n)
				if err != nil {
					return nil, false, err
				}
				if err := add(n, v); err != nil {
					return nil, false, err
				}
			}
		case item.Expr != nil:
			if item.Alias == "" {
				return nil, false, errors.InvalidStateErr("projected expression requires an alias")
			}
			compiled, err := expr.Compile(item.Expr)
			if err != nil {
				return nil, false, err
			}
			val, err := compiled(in)
			if err != nil {
				return nil, false, err
			}
			vec, err := valueToVector(val, in.NumRows())
			if err != nil {
				return nil, false, err
			}
			if err := add(item.Alias, vec); err != nil {
				return nil, false, err
			}
		default:
			v, err := in.Column(item.Source)
			if err != nil {
				return nil, false, err
			}
			name := item.Alias
			if name == "" {
				name = item.Source
			}
			if err := add(name, v); err != nil {
				return nil, false, err
			}
		}
	}

	out, err := morsel.New(names, vecs)
	if err != nil {
		return nil, false, err
	}
	return []*morsel.Morsel{out}, false, nil
}

// valueToVector coerces a compiled expression's result to a Vector of
// numRows rows: a Vector passes through, a Mask densifies to Bool, and
// a Scalar broadcasts to a constant column.
func valueToVector(v expr.Value, numRows int) (vector.Vector, error) {
	switch v.Kind {
	case expr.ValVector:
		return v.Vec, nil
	case expr.ValMask:
		data := make([]bool, len(v.Mask))
		for i, b := range v.Mask {
			data[i] = b != 0
		}
		return vector.NewBoolVector(data, nil), nil
	case expr.ValScalar:
		return broadcastScalar(v.Scalar, numRows)
	default:
		return nil, errors.UnsupportedOperationErr("projected value of unknown kind")
	}
}

func broadcastScalar(scalar interface{}, numRows int) (vector.Vector, error) {
	switch s := scalar.(type) {
	case int8:
		return broadcastNumeric(vector.KindInt8, s, numRows), nil
	case int16:
		return broadcastNumeric(vector.KindInt16, s, numRows), nil
	case int32:
		return broadcastNumeric(vector.KindInt32, s, numRows), nil
	case int64:
		return broadcastNumeric(vector.KindInt64, s, numRows), nil
	case int:
		return broadcastNumeric(vector.KindInt64, int64(s), numRows), nil
	case uint8:
		return broadcastNumeric(vector.KindUint8, s, numRows), nil
	case uint16:
		return broadcastNumeric(vector.KindUint16, s, numRows), nil
	case uint32:
		return broadcastNumeric(vector.KindUint32, s, numRows), nil
	case uint64:
		return broadcastNumeric(vector.KindUint64, s, numRows), nil
	case float32:
		return broadcastNumeric(vector.KindFloat32, s, numRows), nil
	case float64:
		return broadcastNumeric(vector.KindFloat64, s, numRows), nil
	case bool:
		data := make([]bool, numRows)
		for i := range data {
			data[i] = s
		}
		return vector.NewBoolVector(data, nil), nil
	case string:
		return broadcastBytes(vector.KindString, []byte(s), numRows), nil
	case []byte:
		return broadcastBytes(vector.KindBinary, s, numRows), nil
	default:
		return nil, errors.TypeMismatchErr("projectable scalar", "unsupported literal type")
	}
}

func broadcastNumeric[T vector.Number](kind vector.Kind, value T, numRows int) vector.Vector {
	data := make([]T, numRows)
	for i := range data {
		data[i] = value
	}
	return vector.NewNumericVector(kind, data, nil)
}

func broadcastBytes(kind vector.Kind, payload []byte, numRows int) vector.Vector {
	offsets := make([]int32, numRows+1)
	data := make([]byte, 0, len(payload)*numRows)
	for i := 0; i < numRows; i++ {
		data = append(data, payload...)
		offsets[i+1] = int32(len(data))
	}
	return vector.NewBytesVector(kind, offsets, data, nil)
}
