package random

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewRandomString returns a random alphanumeric string of the given
// length, suitable for default client seeds.
func NewRandomString(length int) string {
	out := make([]byte, length)

	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			panic(err)
		}

		out[i] = alphabet[n.Int64()]
	}

	return string(out)
}
