// hash turns human-readable names (piece types, input contexts, asset ids)
// into compact comparable keys.
package hash

import (
	"encoding/binary"
	"math/bits"
	"strconv"
)

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// Value is a 32-bit name hash
type Value uint32

// String hashes name with FNV-1a using the standard offset basis.
func String(name string) Value {
	return Value(FNV1a([]byte(name), fnvOffsetBasis))
}

// Combine hashes key on top of the current value, this is used to derive
// scoped names such as "board" + "select".
func (v Value) Combine(key string) Value {
	return Value(FNV1a([]byte(key), uint32(v)))
}

func (v Value) String() string {
	return "0x" + strconv.FormatUint(uint64(v), 16)
}

// FNV1a computes a 32-bit FNV-1a hash starting from seed.
//
// Passing a seed of 0 reproduces the hash values from older save data,
// new code should use String.
func FNV1a(data []byte, seed uint32) uint32 {
	h := seed
	for _, b := range data {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return h
}

// MurmurHash3 computes the 32-bit x86 variant of MurmurHash3.
func MurmurHash3(data []byte, seed uint32) uint32 {
	const (
		c1 uint32 = 0xcc9e2d51
		c2 uint32 = 0x1b873593
	)
	h := seed
	numBlocks := len(data) / 4
	for i := 0; i < numBlocks; i++ {
		k := binary.LittleEndian.Uint32(data[i*4:])
		k *= c1
		k = bits.RotateLeft32(k, 15)
		k *= c2

		h ^= k
		h = bits.RotateLeft32(h, 13)*5 + 0xe6546b64
	}

	tail := data[numBlocks*4:]
	var k1 uint32
	switch len(tail) {
	case 3:
		k1 ^= uint32(tail[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint32(tail[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint32(tail[0])
		k1 *= c1
		k1 = bits.RotateLeft32(k1, 15)
		k1 *= c2
		h ^= k1
	}

	h ^= uint32(len(data))
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// Universal computes a polynomial string hash, base 257 modulo 1000000009.
//
// Intermediate products wrap at 32 bits before the modulo, so values stay
// compatible with hashes stored by older tools.
func Universal(data []byte, seed uint32) uint32 {
	const (
		mod  uint32 = 1_000_000_009
		base uint32 = 257
	)
	h := seed
	for _, b := range data {
		h = (h*base + uint32(b)) % mod
	}
	return h
}
