package vector

import "draken/internal/errors"

// Concat stacks same-Kind vectors end to end into one vector, reusing
// the pairwise concatAll/concatTwo kernel ListBuilder.Finish already
// folds child rows with. This is the buffering primitive blocking
// operators (order-by, aggregate, join build legs) use to turn several
// morsels received across multiple execute calls into the single
// concatenated table spec.md §4.4 says each of them materializes on EOS.
func Concat(vecs []Vector) (Vector, error) {
	if len(vecs) == 0 {
		return nil, errors.InvalidStateErr("Concat requires at least one vector")
	}
	kind := vecs[0].Kind()
	for _, v := range vecs[1:] {
		if v.Kind() != kind {
			return nil, errors.TypeMismatchErr(kind.String(), v.Kind().String())
		}
	}
	return concatAll(kind, vecs), nil
}
