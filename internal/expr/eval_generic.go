package expr

import (
	"draken/internal/errors"
	"draken/internal/morsel"
)

// genericVisitor is the "unrecognized shapes fall to a generic
// recursive evaluator" path of spec.md §4.3: a plain tree-walking
// interpreter with no compiled specialization or caching, exercised for
// expression shapes the priority-ordered pattern compiler doesn't
// recognize (nested comparisons, a comparison operator the compiler
// doesn't special-case, and so on).
type genericVisitor struct {
	m *morsel.Morsel
}

// compileGeneric wraps e in a CompiledExpr that re-walks the tree with
// genericVisitor on every call; it is intentionally not cached per-node
// the way the priority patterns are; the outer Compile cache still
// avoids recompiling the wrapper itself.
func compileGeneric(e Expr) CompiledExpr {
	return func(m *morsel.Morsel) (Value, error) {
		return e.Accept(&genericVisitor{m: m})
	}
}

func (g *genericVisitor) VisitLiteral(l *Literal) (Value, error) {
	return scalarValue(l.Value), nil
}

func (g *genericVisitor) VisitColumn(c *Column) (Value, error) {
	v, err := g.m.Column(c.Name)
	if err != nil {
		return Value{}, err
	}
	return vectorValue(v), nil
}

func (g *genericVisitor) VisitUnary(u *Unary) (Value, error) {
	if u.Op != OpNot {
		return Value{}, errors.UnsupportedOperationErr(u.Op.String())
	}
	v, err := u.Operand.Accept(g)
	if err != nil {
		return Value{}, err
	}
	mask, err := AsMask(v, g.m.NumRows())
	if err != nil {
		return Value{}, err
	}
	return maskValue(notMask(mask)), nil
}

func (g *genericVisitor) VisitBinary(b *Binary) (Value, error) {
	lv, err := b.Left.Accept(g)
	if err != nil {
		return Value{}, err
	}
	rv, err := b.Right.Accept(g)
	if err != nil {
		return Value{}, err
	}
	if b.Op.isComparison() {
		if lv.Kind == ValVector && rv.Kind == ValScalar {
			mask, err := compareVectorScalar(lv.Vec, b.Op, rv.Scalar)
			return maskValue(mask), err
		}
		if lv.Kind == ValVector && rv.Kind == ValVector {
			mask, err := compareVectorVector(lv.Vec, rv.Vec, b.Op)
			return maskValue(mask), err
		}
		return Value{}, errors.UnsupportedOperationErr("comparison on scalar operands")
	}
	if b.Op.isBoolean() {
		lm, err := AsMask(lv, g.m.NumRows())
		if err != nil {
			return Value{}, err
		}
		rm, err := AsMask(rv, g.m.NumRows())
		if err != nil {
			return Value{}, err
		}
		res, err := combineMask(b.Op, lm, rm)
		return maskValue(res), err
	}
	return Value{}, errors.UnsupportedOperationErr(b.Op.String())
}
