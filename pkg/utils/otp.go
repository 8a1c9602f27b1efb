package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var otpSpace = big.NewInt(900000)

// GenerateOTP returns a random 6-digit code in the range 100000-999999.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
