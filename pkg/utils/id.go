package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// GenerateOrderNumber returns a new ORD-<digits> identifier. The digits are
// the current unix milliseconds plus a random suffix; uniqueness is enforced
// by the database index, not by this function.
func GenerateOrderNumber() string {
	return generateNumber("ORD")
}

// GeneratePaymentNumber returns a new PAY-<digits> identifier
func GeneratePaymentNumber() string {
	return generateNumber("PAY")
}

func generateNumber(prefix string) string {
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand failing is effectively fatal; fall back to the clock
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d%04d", prefix, time.Now().UnixMilli(), suffix.Int64())
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")

	reg := regexp.MustCompile("[^a-z0-9-]")
	s = reg.ReplaceAllString(s, "")

	reg = regexp.MustCompile("-+")
	s = reg.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
