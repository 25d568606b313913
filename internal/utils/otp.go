package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// OTPDigits is the length of password-reset codes.
const OTPDigits = 6

// GenerateOTP returns a uniformly random decimal code of the given length.
func GenerateOTP(digits int) (string, error) {
	if digits < 4 || digits > 10 {
		return "", errors.New("invalid otp digits")
	}

	var b strings.Builder
	b.Grow(digits)

	ten := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
