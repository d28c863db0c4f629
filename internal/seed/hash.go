package seed

import (
	"crypto/md5"
	"math/big"
)

// hashModulus is 2^32 - 1.
var hashModulus = new(big.Int).SetUint64(1<<32 - 1)

// HashString maps token to a seed: the MD5 digest of its UTF-8 bytes read
// as a big-endian unsigned integer, reduced modulo 2^32-1.
func HashString(token string) uint64 {
	sum := md5.Sum([]byte(token))
	n := new(big.Int).SetBytes(sum[:])
	return n.Mod(n, hashModulus).Uint64()
}
