package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewTransactionID returns a ledger transaction id in the form "TXN-<uuid>".
func NewTransactionID() string {
	return "TXN-" + uuid.NewString()
}
