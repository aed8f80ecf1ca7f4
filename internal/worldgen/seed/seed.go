// Package seed derives stable per-layer sub-seeds from one master world seed.
//
// Every noise layer and generation subsystem gets its own decorrelated seed
// stream. The mixing function is fixed and versioned: a given (master, name)
// pair produces the same sub-seed on every machine, in every process, forever.
// Never swap it for a map hash or anything runtime-randomized.
package seed

import "encoding/binary"

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

// MixVersion identifies the sub-seed mixing function. Bump only with a
// world-format break; worlds generated under different versions are
// incompatible.
const MixVersion = 1

// WorldSeed is the immutable master seed of a generator instance.
type WorldSeed struct {
	master int64
}

func New(master int64) WorldSeed {
	return WorldSeed{master: master}
}

func (w WorldSeed) Master() int64 {
	return w.master
}

// Subseed maps a layer name to a 63-bit non-negative seed. FNV-1a over the
// little-endian master seed bytes and the name bytes, then a splitmix64
// finalizer to spread low-entropy names across the full state space.
func (w WorldSeed) Subseed(name string) int64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(w.master))

	h := uint64(fnvOffset)
	for _, b := range buf {
		h ^= uint64(b)
		h *= fnvPrime
	}
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= fnvPrime
	}
	return int64(mix64(h) & 0x7fffffffffffffff)
}

// mix64 is the splitmix64 finalizer.
func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
