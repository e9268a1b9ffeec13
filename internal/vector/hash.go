package vector

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// hashBytes computes the canonical per-row hash used by every vector
// kind's HashInto (spec.md §4.1): xxHash3 over the value's canonical
// byte representation. github.com/cespare/xxhash/v2 implements the
// XXH64 variant of the xxHash family; draken uses it uniformly as the
// "xxHash3-shaped" 64-bit hash the spec calls for.
func hashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// hashNumericValue produces the canonical hash for any fixed-width
// numeric value. Floats are canonicalized so +0.0 and -0.0 (which
// compare equal per spec.md §4.1) hash identically, and so that the
// sign bit of a float doesn't leak through for zero.
func hashNumericValue[T Number](v T) uint64 {
	var buf [8]byte
	switch x := any(v).(type) {
	case int8:
		buf[0] = byte(x)
		return hashBytes(buf[:1])
	case int16:
		binary.LittleEndian.PutUint16(buf[:2], uint16(x))
		return hashBytes(buf[:2])
	case int32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(x))
		return hashBytes(buf[:4])
	case int64:
		binary.LittleEndian.PutUint64(buf[:8], uint64(x))
		return hashBytes(buf[:8])
	case int:
		binary.LittleEndian.PutUint64(buf[:8], uint64(x))
		return hashBytes(buf[:8])
	case uint8:
		buf[0] = x
		return hashBytes(buf[:1])
	case uint16:
		binary.LittleEndian.PutUint16(buf[:2], x)
		return hashBytes(buf[:2])
	case uint32:
		binary.LittleEndian.PutUint32(buf[:4], x)
		return hashBytes(buf[:4])
	case uint64:
		binary.LittleEndian.PutUint64(buf[:8], x)
		return hashBytes(buf[:8])
	case float32:
		f := float64(x)
		if f == 0 {
			f = 0 // canonicalize -0.0 to 0.0
		}
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(float32(f)))
		return hashBytes(buf[:4])
	case float64:
		f := x
		if f == 0 {
			f = 0
		}
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(f))
		return hashBytes(buf[:8])
	default:
		return 0
	}
}
