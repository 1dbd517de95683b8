package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// NewPasscode returns a numeric passcode of the requested length drawn
// from crypto/rand. Each digit is sampled independently so the code is
// uniform over the full 10^digits space.
func NewPasscode(digits int) (string, error) {
	if digits < 6 || digits > 10 {
		return "", errors.New("invalid passcode digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	code := b.String()
	if len(code) != digits {
		return "", fmt.Errorf("invalid passcode generation length")
	}
	return code, nil
}

// HashPasscode maps a passcode to the digest stored in the challenge
// record. Plaintext codes never reach Redis.
func HashPasscode(code string) [32]byte {
	return sha256.Sum256([]byte(code))
}

// HashEqual compares two passcode digests in constant time.
func HashEqual(a, b [32]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// IsNumeric reports whether s consists solely of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
