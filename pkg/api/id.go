package api

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const (
	idLength = 24
	charset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	orderIDPrefix   = "order_"
	requestIDPrefix = "req_"
)

var (
	orderIDPattern   = regexp.MustCompile(`^order_[a-zA-Z0-9]{24}$`)
	requestIDPattern = regexp.MustCompile(`^req_[a-zA-Z0-9]{24}$`)
)

// NewOrderID generates a new order ID with the "order_" prefix
// followed by 24 cryptographically random alphanumeric characters.
func NewOrderID() string {
	return orderIDPrefix + randomAlphanumeric(idLength)
}

// NewRequestID generates a new request ID with the "req_" prefix
// followed by 24 cryptographically random alphanumeric characters.
func NewRequestID() string {
	return requestIDPrefix + randomAlphanumeric(idLength)
}

// ValidateOrderID checks whether the given string is a valid order ID
// (matches "order_" + 24 alphanumeric characters).
func ValidateOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}

// ValidateRequestID checks whether the given string is a valid request ID
// (matches "req_" + 24 alphanumeric characters).
func ValidateRequestID(id string) bool {
	return requestIDPattern.MatchString(id)
}

func randomAlphanumeric(n int) string {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b)
}
