package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Character classes for temporary passwords. Look-alikes (0 O o 1 l I) are left out.
const (
	tempUpper  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	tempLower  = "abcdefghijkmnpqrstuvwxyz"
	tempDigit  = "23456789"
	tempSymbol = "!@#$%^&*?"

	TempPasswordAlphabet = tempUpper + tempLower + tempDigit + tempSymbol
	MinTempPasswordLen   = 12
)

// GenerateTemporaryPassword returns a random password of at least MinTempPasswordLen
// characters containing at least one upper, lower, digit and symbol.
func GenerateTemporaryPassword(length int) (string, error) {
	if length < MinTempPasswordLen {
		length = MinTempPasswordLen
	}

	classes := []string{tempUpper, tempLower, tempDigit, tempSymbol}
	out := make([]byte, 0, length)
	for _, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := randomChar(TempPasswordAlphabet)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// Fisher-Yates so the guaranteed classes are not always in front.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func randomChar(set string) (byte, error) {
	if set == "" {
		return 0, errors.New("empty character set")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
