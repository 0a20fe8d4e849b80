package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	accountNumberLen   = 6
	transactionIDLen   = 12
	sessionTokenBytes  = 16
	transactionIDChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// RandomIDGenerator implements ports.IDGenerator with crypto/rand.
type RandomIDGenerator struct{}

func NewRandomIDGenerator() RandomIDGenerator {
	return RandomIDGenerator{}
}

// AccountNumber returns a 6-digit candidate in [100000, 999999].
// Uniqueness is the caller's responsibility; collisions are retried at
// registration time.
func (RandomIDGenerator) AccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900_000))
	if err != nil {
		return "", fmt.Errorf("generating account number: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100_000), nil
}

// TransactionID returns a 12-character uppercase alphanumeric id.
func (RandomIDGenerator) TransactionID() (string, error) {
	id := make([]byte, transactionIDLen)
	for i := range id {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(transactionIDChars))))
		if err != nil {
			return "", fmt.Errorf("generating transaction id: %w", err)
		}
		id[i] = transactionIDChars[n.Int64()]
	}
	return string(id), nil
}

// SessionToken returns 16 random bytes hex-encoded (32 chars).
func (RandomIDGenerator) SessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
