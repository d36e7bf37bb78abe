package dict

import "github.com/cespare/xxhash/v2"

// hashSeed is a process-wide seed XORed into every default hash computation
// (a 64-bit xxhash digest). It is set once at process start and treated as immutable
// thereafter; consumers that need a deterministic stream (tests) call
// SetHashSeed before constructing any Dict.
var hashSeed uint64 = 0x9e3779b97f4a7c15

// SetHashSeed overrides the process-wide hash seed. Intended to be called
// once during process initialization (or at the top of a deterministic
// test), never concurrently with in-flight hashing.
func SetHashSeed(seed uint64) { hashSeed = seed }

// HashSeed returns the current process-wide hash seed.
func HashSeed() uint64 { return hashSeed }

// BytesHash is the default hash function for []byte keys.
func BytesHash(b []byte) uint64 {
	return xxhash.Sum64(b) ^ hashSeed
}

// StringHash is the default hash function for string keys.
func StringHash(s string) uint64 {
	return xxhash.Sum64String(s) ^ hashSeed
}

// mix64 is a reversible 64-bit finalizer adapted from compactindexsized's
// hashUint64 (a public-domain Murmur3 finalizer), used here to mix the
// unsafe-iterator fingerprint's component counters together. Bucket indices
// are taken directly as hash & mask, without mix64.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
