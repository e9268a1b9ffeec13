package expr

import (
	"draken/internal/errors"
	"draken/internal/vector"
)

func notMask(m vector.BoolMask) vector.BoolMask {
	return vector.Not(m)
}

func combineMask(op Op, l, r vector.BoolMask) (vector.BoolMask, error) {
	switch op {
	case OpAnd:
		return vector.And(l, r)
	case OpOr:
		return vector.Or(l, r)
	case OpXor:
		return vector.Xor(l, r)
	default:
		return nil, errors.UnsupportedOperationErr(op.String())
	}
}
