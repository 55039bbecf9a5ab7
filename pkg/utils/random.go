package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateOTP returns a numeric code of the given length drawn from crypto/rand.
func GenerateOTP(length int) (string, error) {
	return randomFrom("0123456789", length)
}

// GenerateRandomString returns a lowercase alphanumeric string.
func GenerateRandomString(length int) (string, error) {
	return randomFrom(alphanumeric, length)
}

// GenerateResetToken returns 32 random bytes hex-encoded (256 bits).
func GenerateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken returns the hex SHA-256 digest stored in place of a plaintext token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomFrom(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
