package util

import (
	"crypto/rand"
	"math/big"
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*"
)

// TempPasswordLength is the length of generated temporary passwords
const TempPasswordLength = 20

// GenerateTempPassword builds a random password containing at least one
// lowercase letter, one uppercase letter, one digit and one special
// character so it satisfies the signup password policy.
func GenerateTempPassword() (string, error) {
	classes := []string{lowerChars, upperChars, digitChars, specialChars}
	all := lowerChars + upperChars + digitChars + specialChars

	buf := make([]byte, TempPasswordLength)
	for i := range buf {
		var pool string
		if i < len(classes) {
			pool = classes[i]
		} else {
			pool = all
		}
		c, err := randomChar(pool)
		if err != nil {
			return "", err
		}
		buf[i] = c
	}

	// Shuffle so the guaranteed class characters are not positional
	for i := len(buf) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		buf[i], buf[j.Int64()] = buf[j.Int64()], buf[i]
	}

	return string(buf), nil
}

func randomChar(pool string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		return 0, err
	}
	return pool[n.Int64()], nil
}
