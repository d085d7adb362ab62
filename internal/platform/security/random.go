package security

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// RandomCode returns a uniformly random 6-digit code in [100000, 999999].
// The lower bound keeps the leading digit non-zero, so no padding is needed.
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
