package expr

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"draken/internal/errors"
	"draken/internal/morsel"
	"draken/internal/vector"
)

// CompiledExpr is a closure over a morsel, produced once per distinct
// expression shape and cached thereafter (spec.md §4.3).
type CompiledExpr func(m *morsel.Morsel) (Value, error)

var (
	cacheMu   sync.Mutex
	cache     = map[uint64]CompiledExpr{}
	hitCount  int
	missCount int
)

// cacheKey hashes an expression's structural key string with xxHash,
// mirroring the original Python evaluator's dict keyed by hash(expr).
func cacheKey(e Expr) uint64 {
	return xxhash.Sum64String(e.key())
}

// Stats reports cache hit/miss counts, used to verify the caching
// contract (spec.md §8 scenario: a repeated evaluation must hit the
// cache rather than recompiling).
func Stats() (hits, misses int) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	return hitCount, missCount
}

// ClearCache empties the process-wide compiled-expression cache; the
// only supported way to invalidate it (spec.md §4.3).
func ClearCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = map[uint64]CompiledExpr{}
	hitCount, missCount = 0, 0
}

// Compile returns the cached closure for e, synthesizing and caching it
// on first use. This is the single entry point for every priority
// pattern in spec.md §4.3, including the DNF shape (#7): a DNF tree's
// key is just its structural key like any other node, so recognizing it
// only changes which sub-closures get built, not how the cache itself
// is keyed or looked up.
func Compile(e Expr) (CompiledExpr, error) {
	k := cacheKey(e)
	cacheMu.Lock()
	if c, ok := cache[k]; ok {
		hitCount++
		cacheMu.Unlock()
		return c, nil
	}
	missCount++
	cacheMu.Unlock()

	c, err := compileNode(e)
	if err != nil {
		return nil, err
	}
	cacheMu.Lock()
	cache[k] = c
	cacheMu.Unlock()
	return c, nil
}

func compileNode(e Expr) (CompiledExpr, error) {
	switch n := e.(type) {
	case *Literal:
		return compileLiteral(n), nil
	case *Column:
		return compileColumn(n), nil
	case *Binary:
		return compileBinary(n)
	case *Unary:
		return compileUnary(n)
	default:
		return compileGeneric(e), nil
	}
}

// Pattern #1: Literal.
func compileLiteral(l *Literal) CompiledExpr {
	return func(m *morsel.Morsel) (Value, error) {
		return scalarValue(l.Value), nil
	}
}

// Pattern #2: Column.
func compileColumn(c *Column) CompiledExpr {
	return func(m *morsel.Morsel) (Value, error) {
		v, err := m.Column(c.Name)
		if err != nil {
			return Value{}, err
		}
		return vectorValue(v), nil
	}
}

// compileBinary recognizes patterns #3–#5 (and falls through to the
// DNF recognition comment above for #7, which shares the same
// machinery), in priority order.
func compileBinary(b *Binary) (CompiledExpr, error) {
	if b.Op.isComparison() {
		if col, ok := b.Left.(*Column); ok {
			if lit, ok := b.Right.(*Literal); ok {
				// Pattern #3: Column cmp Literal.
				name := col.Name
				op := b.Op
				litVal := lit.Value
				return func(m *morsel.Morsel) (Value, error) {
					vec, err := m.Column(name)
					if err != nil {
						return Value{}, err
					}
					mask, err := compareVectorScalar(vec, op, litVal)
					if err != nil {
						return Value{}, err
					}
					return maskValue(mask), nil
				}, nil
			}
		}
		if lcol, ok := b.Left.(*Column); ok {
			if rcol, ok := b.Right.(*Column); ok {
				// Pattern #4: Column cmp Column.
				lname, rname, op := lcol.Name, rcol.Name, b.Op
				return func(m *morsel.Morsel) (Value, error) {
					lv, err := m.Column(lname)
					if err != nil {
						return Value{}, err
					}
					rv, err := m.Column(rname)
					if err != nil {
						return Value{}, err
					}
					mask, err := compareVectorVector(lv, rv, op)
					if err != nil {
						return Value{}, err
					}
					return maskValue(mask), nil
				}, nil
			}
		}
		// A comparison whose operands aren't simple column/literal
		// shapes (e.g. nested expressions) falls to the generic path.
		return compileGeneric(b), nil
	}

	if b.Op.isBoolean() {
		// Pattern #5: recursively compile both operands (this recursion
		// is also what makes the DNF shape of #7 "just work" — an
		// Or-of-Ands tree is simply nested Binary nodes, each compiled
		// and cached the same way as any other Binary).
		leftC, err := Compile(b.Left)
		if err != nil {
			return nil, err
		}
		rightC, err := Compile(b.Right)
		if err != nil {
			return nil, err
		}
		op := b.Op
		return func(m *morsel.Morsel) (Value, error) {
			lv, err := leftC(m)
			if err != nil {
				return Value{}, err
			}
			rv, err := rightC(m)
			if err != nil {
				return Value{}, err
			}
			lm, err := AsMask(lv, m.NumRows())
			if err != nil {
				return Value{}, err
			}
			rm, err := AsMask(rv, m.NumRows())
			if err != nil {
				return Value{}, err
			}
			switch op {
			case OpAnd:
				res, err := vector.And(lm, rm)
				return maskValue(res), err
			case OpOr:
				res, err := vector.Or(lm, rm)
				return maskValue(res), err
			case OpXor:
				res, err := vector.Xor(lm, rm)
				return maskValue(res), err
			default:
				return Value{}, errors.UnsupportedOperationErr(op.String())
			}
		}, nil
	}

	return nil, errors.UnsupportedOperationErr(b.Op.String())
}

// Pattern #6: Unary not.
func compileUnary(u *Unary) (CompiledExpr, error) {
	if u.Op != OpNot {
		return nil, errors.UnsupportedOperationErr(u.Op.String())
	}
	operandC, err := Compile(u.Operand)
	if err != nil {
		return nil, err
	}
	return func(m *morsel.Morsel) (Value, error) {
		v, err := operandC(m)
		if err != nil {
			return Value{}, err
		}
		mask, err := AsMask(v, m.NumRows())
		if err != nil {
			return Value{}, err
		}
		return maskValue(vector.Not(mask)), nil
	}, nil
}
