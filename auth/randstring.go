package auth

import (
	"crypto/rand"
	"math/big"
)

const tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RandString returns n cryptographically random characters from the
// identifier alphabet.
func RandString(n int) string {
	ret := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range ret {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("random number generation failed")
		}
		ret[i] = tokenAlphabet[num.Int64()]
	}
	return string(ret)
}
