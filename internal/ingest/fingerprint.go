package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// identityColumns are the only columns that participate in row identity.
var identityColumns = []string{
	ColEventID,
	ColASIN,
	ColTransactionType,
	ColCompleteDate,
	ColTotalValueVatAmt,
}

// Fingerprint returns the hex SHA-256 of the lower-cased, pipe-joined raw
// identity values. Values are hashed exactly as read, without trimming.
func Fingerprint(rec Record) string {
	parts := make([]string, len(identityColumns))
	for i, col := range identityColumns {
		parts[i] = rec.Get(col)
	}
	sum := sha256.Sum256([]byte(strings.ToLower(strings.Join(parts, "|"))))
	return hex.EncodeToString(sum[:])
}
