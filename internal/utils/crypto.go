// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomFrom draws n characters uniformly from alphabet using crypto/rand.
func randomFrom(alphabet string, n int) (string, error) {
	size := big.NewInt(int64(len(alphabet)))
	var sb strings.Builder
	sb.Grow(n)
	for sb.Len() < n {
		i, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[i.Int64()])
	}
	return sb.String(), nil
}

// GenerateTrackingNumber returns "OG" + unix millis + 4 uppercase
// alphanumerics, e.g. OG1718000000000X7QA.
func GenerateTrackingNumber(now time.Time) (string, error) {
	suffix, err := randomFrom(trackingAlphabet, 4)
	if err != nil {
		return "", err
	}
	return "OG" + strconv.FormatInt(now.UnixMilli(), 10) + suffix, nil
}
