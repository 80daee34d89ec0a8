package common

import (
	"crypto/rand"
	"math/big"
)

// MakeRandDigits returns a string of n random decimal digits, suitable for
// OTPs and password-reset codes.
func MakeRandDigits(n int) (string, error) {
	buf := make([]byte, n)
	for i := range buf {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + v.Int64())
	}
	return string(buf), nil
}
