package crypto

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateRandomAlphabet returns n random characters drawn from an
// unambiguous uppercase alphabet, suitable for codes typed by hand.
func GenerateRandomAlphabet(n uint) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[RandIntn(len(alphabet))]
	}
	return string(b)
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}
