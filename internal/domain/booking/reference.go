package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// referencePattern returns the LIKE pattern matching every reference of a year.
func referencePattern(prefix string, year int) string {
	return fmt.Sprintf("%s-%04d-%%", prefix, year)
}

// NextReference derives the following reference from the highest one issued
// for the year. last is empty when the year has none.
func NextReference(prefix string, year int, last string) (string, error) {
	seq := 1
	if last != "" {
		parts := strings.Split(last, "-")
		if len(parts) != 3 {
			return "", fmt.Errorf("malformed booking reference %q", last)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return "", fmt.Errorf("malformed booking reference %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s-%04d-%05d", prefix, year, seq), nil
}

// GenerateVerificationCode returns 8 uppercase hex characters.
func GenerateVerificationCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
