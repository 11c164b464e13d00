package core

import (
	"crypto/md5"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Hasher turns a password into the fixed, unsalted digest stored on accounts.
// It is a fast hash: fine for a local single-tenant tool, not for anything networked.
type Hasher interface {
	Hash(text string) string
}

type HasherFunc func(text string) string

func (f HasherFunc) Hash(text string) string { return f(text) }

// MD5Hasher produces lowercase hex MD5 digests, the format of existing accounts.
var MD5Hasher = HasherFunc(func(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
})

var SHA3Hasher = HasherFunc(func(text string) string {
	sum := sha3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
})

// NewHasher returns the hasher named by algo, or nil when unknown.
func NewHasher(algo string) Hasher {
	switch CleanString(algo, true /* lower */) {
	case "", "md5":
		return MD5Hasher
	case "sha3":
		return SHA3Hasher
	default:
		return nil
	}
}
