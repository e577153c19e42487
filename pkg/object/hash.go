package object

import (
	"crypto/rand"
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"
)

// hashKey0/hashKey1 seed every siphash call this process makes. They are
// drawn once from crypto/rand at process start (the same primitive the
// teacher's pkg/vm/primitives.go reaches for when it needs randomness),
// matching CPython's own per-process hash randomization: two runs of the
// same program do not see the same Str/Bytes hash, but hashing is stable
// for the lifetime of one run, which is all the Dict's hash invariant
// requires.
var hashKey0, hashKey1 uint64

func init() {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand failing indicates a broken host environment; the
		// interpreter cannot offer a hashability guarantee without entropy.
		panic("object: failed to seed hash function: " + err.Error())
	}
	hashKey0 = binary.LittleEndian.Uint64(seed[0:8])
	hashKey1 = binary.LittleEndian.Uint64(seed[8:16])
}

// hashBytes hashes a Str or Bytes payload with siphash, the way
// SnellerInc/sneller uses dchest/siphash for fast keyed hashing of byte
// content elsewhere in the pack.
func hashBytes(data []byte) Int {
	h := siphash.Hash(hashKey0, hashKey1, data)
	return Int(h)
}

// hashFloat hashes a Float so that floats equal to an integer value hash
// identically to that Int (1.0 and 1 must collide the same bucket), the
// same rule og-rek's hash function applies before falling back to the raw
// bit pattern.
func hashFloat(f float64) Int {
	if i := int64(f); float64(i) == f {
		return Int(i)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	return Int(siphash.Hash(hashKey0, hashKey1, buf[:]))
}

// hashTuple combines element hashes the way og-rek's hash() combines a
// Tuple's element hashes under one seed: fold each element's hash through
// siphash rather than xor/sum them, so that reordered-but-equal-sum tuples
// don't collide.
func hashTuple(t Tuple) (Int, *ExceptionInstance) {
	buf := make([]byte, 0, 8*len(t))
	for _, v := range t {
		hv, ok := v.(Hashable)
		if !ok {
			return 0, NewTypeError("unhashable type: '" + v.PyType().Name + "'")
		}
		h, exc := hv.PyHash()
		if exc != nil {
			return 0, exc
		}
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(h))
		buf = append(buf, b[:]...)
	}
	return Int(siphash.Hash(hashKey0, hashKey1, buf)), nil
}
